package modules

import "reflect"

// EnabledSet is the result of one resolution pass. It only grows while the
// pass runs and is read-only afterwards.
type EnabledSet struct {
	cat        *Catalog
	members    map[reflect.Type]bool
	requiredBy map[reflect.Type]*Candidate
}

func newEnabledSet(cat *Catalog) *EnabledSet {
	return &EnabledSet{
		cat:        cat,
		members:    make(map[reflect.Type]bool),
		requiredBy: make(map[reflect.Type]*Candidate),
	}
}

// Contains reports whether t was activated.
func (s *EnabledSet) Contains(t reflect.Type) bool { return s.members[t] }

// Len returns the number of activated types.
func (s *EnabledSet) Len() int { return len(s.members) }

// Members returns the activated candidates in discovery order.
func (s *EnabledSet) Members() []*Candidate {
	out := make([]*Candidate, 0, len(s.members))
	for _, c := range s.cat.candidates {
		if s.members[c.Type] {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the names of the activated candidates in discovery order.
func (s *EnabledSet) Names() []string {
	members := s.Members()
	out := make([]string, len(members))
	for i, c := range members {
		out[i] = c.Name
	}
	return out
}

// RequiredBy returns the candidate whose requirement pulled t in. It is
// false for explicitly enabled types and for types not in the set.
func (s *EnabledSet) RequiredBy(t reflect.Type) (*Candidate, bool) {
	c, ok := s.requiredBy[t]
	return c, ok
}

type resolver struct {
	cat     *Catalog
	deps    *Dependencies
	flags   FlagSource
	enabled *EnabledSet
}

// Resolve computes the closed set of types to activate.
//
// Every candidate whose flag is Enabled is activated in discovery order.
// Activating a type adds it to the set and then activates every candidate
// satisfying each of its requirements. A Disabled flag always wins, even
// over a requirement of an enabled module. A type is added before its
// requirements are visited, so cycles terminate.
func Resolve(cat *Catalog, deps *Dependencies, flags FlagSource) *EnabledSet {
	r := &resolver{cat: cat, deps: deps, flags: flags, enabled: newEnabledSet(cat)}
	for _, c := range cat.candidates {
		if r.flag(c) == Enabled {
			r.activate(c, nil)
		}
	}
	return r.enabled
}

func (r *resolver) activate(c *Candidate, parent *Candidate) {
	if r.enabled.members[c.Type] {
		return
	}
	if r.flag(c) == Disabled {
		return
	}

	r.enabled.members[c.Type] = true
	if parent != nil {
		r.enabled.requiredBy[c.Type] = parent
	}

	for _, dep := range r.deps.Of(c.Type) {
		for _, impl := range r.cat.Satisfying(dep) {
			r.activate(impl, c)
		}
	}
}

func (r *resolver) flag(c *Candidate) Flag {
	if r.flags == nil {
		return Unset
	}
	return r.flags.Flag(FlagKey(c.Name))
}
