package node

import "reflect"

// defaultEqual returns the comparer used when an input declares none:
// == for comparable types, reflect.DeepEqual otherwise. Pointers compare
// by identity.
func defaultEqual[V any]() func(a, b V) bool {
	t := reflect.TypeFor[V]()
	switch {
	case t.Kind() == reflect.Interface:
		return func(a, b V) bool {
			va, vb := reflect.ValueOf(any(a)), reflect.ValueOf(any(b))
			if va.IsValid() && vb.IsValid() && va.Type() == vb.Type() && !va.Comparable() {
				return reflect.DeepEqual(any(a), any(b))
			}
			return any(a) == any(b)
		}
	case t.Comparable():
		return func(a, b V) bool { return any(a) == any(b) }
	default:
		return func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
}

// isNil reports whether v is a nil pointer, slice, map, func, channel or
// interface.
func isNil[V any](v V) bool {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// sequenceEqual compares two sequences element-wise. A nil sequence only
// equals another nil sequence.
func sequenceEqual[V any](a, b []V) bool {
	if a == nil {
		return b == nil
	}
	if b == nil || len(a) != len(b) {
		return false
	}
	eq := defaultEqual[V]()
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// withoutNil returns a copy of items with nil elements dropped.
// A nil input stays nil.
func withoutNil[V any](items []V) []V {
	if items == nil {
		return nil
	}
	out := make([]V, 0, len(items))
	for _, it := range items {
		if !isNil(it) {
			out = append(out, it)
		}
	}
	return out
}
