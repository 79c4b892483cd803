package node

// ListInput declares an input bound to a list owned by the instance. Writes
// replace the list's contents with the non-nil items of the written value;
// two writes are equal when their items are equal element-wise.
func ListInput[T, V any](name string, list func(T) *[]V) PinDescription[T] {
	return Input(name,
		func(x T) []V { return *list(x) },
		func(x T, items []V) {
			l := list(x)
			*l = append((*l)[:0], withoutNil(items)...)
		},
		Equal(sequenceEqual[V]),
		Default[[]V](nil),
	)
}

// SliceInput declares an input bound to a slice property of the instance.
// The setter receives a fresh copy without nil items, or nil.
func SliceInput[T, V any](name string, get func(T) []V, set func(T, []V)) PinDescription[T] {
	return Input(name,
		get,
		func(x T, items []V) { set(x, withoutNil(items)) },
		Equal(sequenceEqual[V]),
	)
}
