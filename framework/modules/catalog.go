package modules

import (
	"reflect"
	"slices"

	"github.com/km-arc/go-modular/framework/container"
)

// Candidate is a concrete implementation discovered under a marker.
type Candidate struct {
	Descriptor

	// Capabilities holds the capability interfaces the type implements, in
	// family order. The marker itself is included when it is an interface.
	Capabilities []reflect.Type
}

// Catalog is the ordered set of candidates discovered for one marker.
// It is immutable once built.
type Catalog struct {
	marker     reflect.Type
	candidates []*Candidate
	byKey      map[string]*Candidate
	family     []reflect.Type
}

// Discover returns the manifest modules whose type is concrete, named and
// assignable to marker, in manifest order. When two descriptors build the
// same type the first one wins.
func Discover(marker reflect.Type, m *Manifest) *Catalog {
	cat := &Catalog{
		marker: marker,
		byKey:  make(map[string]*Candidate),
	}
	if marker == nil || m == nil {
		return cat
	}

	for _, d := range m.Modules {
		if !concrete(d.Type) || !d.Type.AssignableTo(marker) {
			continue
		}
		key := container.KeyOf(d.Type)
		if _, dup := cat.byKey[key]; dup {
			continue
		}
		c := &Candidate{Descriptor: d}
		cat.candidates = append(cat.candidates, c)
		cat.byKey[key] = c
	}

	cat.family = cat.capabilityFamily(m.Capabilities)
	for _, c := range cat.candidates {
		for _, iface := range cat.family {
			if c.Type.Implements(iface) {
				c.Capabilities = append(c.Capabilities, iface)
			}
		}
	}
	return cat
}

// concrete reports whether t can be instantiated and addressed by name.
// Interfaces are abstract stand-ins; unnamed types have no stable identity.
func concrete(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Interface {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name() != ""
}

// capabilityFamily collects the marker, the manifest capabilities, those
// declared by descriptors with As and every interface a candidate requires,
// keeping only interfaces under the marker.
func (cat *Catalog) capabilityFamily(declared []reflect.Type) []reflect.Type {
	if cat.marker.Kind() != reflect.Interface {
		return nil
	}

	family := []reflect.Type{cat.marker}
	add := func(t reflect.Type) {
		if t == nil {
			return
		}
		if t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Interface || !t.Implements(cat.marker) {
			return
		}
		if !slices.Contains(family, t) {
			family = append(family, t)
		}
	}

	for _, t := range declared {
		add(t)
	}
	for _, c := range cat.candidates {
		for _, t := range c.capabilities {
			add(t)
		}
	}
	for _, c := range cat.candidates {
		for _, t := range c.requirementTypes() {
			add(t)
		}
	}
	return family
}

// Marker returns the type the catalog was discovered for.
func (cat *Catalog) Marker() reflect.Type { return cat.marker }

// Candidates returns the candidates in discovery order.
func (cat *Catalog) Candidates() []*Candidate { return slices.Clone(cat.candidates) }

// Len returns the number of candidates.
func (cat *Catalog) Len() int { return len(cat.candidates) }

// Family returns the capability interfaces bound for enabled candidates.
func (cat *Catalog) Family() []reflect.Type { return slices.Clone(cat.family) }

// Lookup returns the candidate for an exact type.
func (cat *Catalog) Lookup(t reflect.Type) (*Candidate, bool) {
	if t == nil {
		return nil, false
	}
	c, ok := cat.byKey[container.KeyOf(t)]
	if !ok || c.Type != t {
		return nil, false
	}
	return c, true
}

// Satisfying returns, in discovery order, every candidate that implements t
// when t is an interface, or the candidate of exactly type t otherwise.
func (cat *Catalog) Satisfying(t reflect.Type) []*Candidate {
	if t.Kind() != reflect.Interface {
		if c, ok := cat.Lookup(t); ok {
			return []*Candidate{c}
		}
		return nil
	}
	var out []*Candidate
	for _, c := range cat.candidates {
		if c.Type.Implements(t) {
			out = append(out, c)
		}
	}
	return out
}
