package modules

import (
	"reflect"
	"slices"
)

// Dependencies maps every candidate to the ordered list of types it
// requires. It is computed once per activation and never modified.
type Dependencies struct {
	requires map[reflect.Type][]reflect.Type
}

// Extract derives the dependency list of every candidate in the catalog.
//
// The list comes from the declared requirements when a descriptor has them,
// otherwise from the parameters of its primary constructor. Only interfaces
// with at least one method and exact candidate types are kept; slices of
// either count as their element type. Anything else (config structs,
// primitives, loggers) is expected to be bound by other means and is
// dropped without error.
func Extract(cat *Catalog) *Dependencies {
	deps := &Dependencies{requires: make(map[reflect.Type][]reflect.Type, cat.Len())}
	for _, c := range cat.candidates {
		var list []reflect.Type
		for _, t := range c.requirementTypes() {
			if q, ok := cat.qualifies(t); ok {
				list = append(list, q)
			}
		}
		deps.requires[c.Type] = list
	}
	return deps
}

func (cat *Catalog) qualifies(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Kind() == reflect.Interface {
		return t, t.NumMethod() > 0
	}
	_, ok := cat.Lookup(t)
	return t, ok
}

// Of returns the dependency list of t. Unknown types have none.
func (d *Dependencies) Of(t reflect.Type) []reflect.Type {
	return slices.Clone(d.requires[t])
}

// Len returns the number of candidates with a computed list.
func (d *Dependencies) Len() int { return len(d.requires) }
