package validation

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ── Error bag ─────────────────────────────────────────────────────────────────

// Errors is the message bag of a failed validation. It serialises as
// {"errors": {"field": ["msg", ...]}} and can be returned as an error.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

func (e *Errors) add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return len(e.Bag) > 0 }

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if msgs := e.Bag[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Error joins the first message of every field, fields sorted.
func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Bag))
	for _, field := range slices.Sorted(maps.Keys(e.Bag)) {
		msgs = append(msgs, e.First(field))
	}
	return strings.Join(msgs, " ")
}

// ── Validator ─────────────────────────────────────────────────────────────────

// Rules maps a field to a pipe-separated rule string, e.g.
// Rules{"title": "required|max:200"}.
type Rules map[string]string

// Validator validates a flat map of input values. Rules run once, on the
// first call to Fails or Passes.
type Validator struct {
	data   map[string]string
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a Validator for data and rules.
func Make(data map[string]string, rules Rules) *Validator {
	return &Validator{data: data, rules: rules, errors: &Errors{}}
}

// Fails returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.validate()
		v.ran = true
	}
	return v.errors.Has()
}

// Passes returns true if every rule passes.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the error bag.
func (v *Validator) Errors() *Errors { return v.errors }

func (v *Validator) validate() {
	for _, field := range slices.Sorted(maps.Keys(v.rules)) {
		value := v.data[field]
		for rule := range strings.SplitSeq(v.rules[field], "|") {
			rule = strings.TrimSpace(rule)
			if rule == "" {
				continue
			}
			name, param, _ := strings.Cut(rule, ":")
			if !v.apply(field, value, name, param) {
				break
			}
		}
	}
}

var alphaDash = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// apply reports whether validation of the field should continue.
func (v *Validator) apply(field, value, rule, param string) bool {
	switch rule {
	case "required":
		if strings.TrimSpace(value) == "" {
			v.errors.add(field, fmt.Sprintf("The %s field is required.", field))
			return false
		}

	case "nullable", "sometimes":
		return value != ""

	case "min":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) < n {
			v.errors.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, n))
			return false
		}

	case "max":
		n, _ := strconv.Atoi(param)
		if utf8.RuneCountInString(value) > n {
			v.errors.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, n))
			return false
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			break
		}
		minN, _ := strconv.Atoi(strings.TrimSpace(lo))
		maxN, _ := strconv.Atoi(strings.TrimSpace(hi))
		if l := utf8.RuneCountInString(value); l < minN || l > maxN {
			v.errors.add(field, fmt.Sprintf("The %s must be between %d and %d characters.", field, minN, maxN))
			return false
		}

	case "in":
		if !listed(param, value) {
			v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		}

	case "not_in":
		if listed(param, value) {
			v.errors.add(field, fmt.Sprintf("The selected %s is invalid.", field))
			return false
		}

	case "integer":
		if _, err := strconv.Atoi(value); err != nil {
			v.errors.add(field, fmt.Sprintf("The %s must be an integer.", field))
			return false
		}

	case "alpha_dash":
		if !alphaDash.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field))
			return false
		}

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(value) {
			v.errors.add(field, fmt.Sprintf("The %s format is invalid.", field))
			return false
		}
	}
	return true
}

func listed(list, value string) bool {
	for item := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}
