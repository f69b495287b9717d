package modules

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Flag is the tri-state activation setting of one module.
type Flag int

const (
	// Unset means no opinion: the module is activated only when required.
	Unset Flag = iota
	Enabled
	Disabled
)

func (f Flag) String() string {
	switch f {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

// FlagKey returns the configuration key holding the flag of a module:
//
//	Services:<FullTypeName>:Enabled
func FlagKey(name string) string {
	return "Services:" + name + ":Enabled"
}

// FlagSource answers flag lookups. Implementations must report absent and
// malformed values as Unset.
type FlagSource interface {
	Flag(key string) Flag
}

// FlagFunc adapts a function to FlagSource.
type FlagFunc func(key string) Flag

func (f FlagFunc) Flag(key string) Flag { return f(key) }

// ParseFlag converts a raw configuration value into a Flag. Nil, empty and
// unparseable values are Unset.
func ParseFlag(v any) Flag {
	if v == nil {
		return Unset
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return Unset
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return Unset
	}
	if b {
		return Enabled
	}
	return Disabled
}

// StaticFlags is an in-memory FlagSource keyed by full flag key. An exact
// key wins; otherwise keys are matched case-insensitively, and when several
// keys differ only by case the lexically smallest one is used.
//
//	modules.StaticFlags{modules.FlagKey(name): "true"}
type StaticFlags map[string]any

func (s StaticFlags) Flag(key string) Flag {
	if v, ok := s[key]; ok {
		return ParseFlag(v)
	}
	for _, k := range slices.Sorted(maps.Keys(s)) {
		if strings.EqualFold(k, key) {
			return ParseFlag(s[k])
		}
	}
	return Unset
}
