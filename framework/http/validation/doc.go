// Package validation checks flat string input against Laravel-style rule
// strings and collects failures in an error bag.
//
//	v := validation.Make(map[string]string{
//	    "title": in.Title,
//	    "type":  string(in.Type),
//	}, validation.Rules{
//	    "title": "required|max:200",
//	    "type":  "sometimes|in:bug,feature,task",
//	})
//	if v.Fails() {
//	    return v.Errors() // {"errors": {"title": ["The title field is required."]}}
//	}
//
// # Rules
//
//   - required: present and not blank
//   - nullable: an empty value passes and skips the remaining rules
//   - sometimes: same as nullable, for fields that may be omitted
//   - min:n, max:n, between:min,max: length in UTF-8 characters
//   - in:a,b,c and not_in:a,b,c
//   - integer
//   - alpha_dash: letters, digits, dashes and underscores
//   - regex:pattern
//
// Rules for a field run left to right and stop at the first failure.
// Unknown rule names are ignored.
package validation
