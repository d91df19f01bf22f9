// Package iterators defines iterator interfaces used by trace queriers.
package iterators

// Iterator is a forward-only iterator over storage elements.
type Iterator[T any] interface {
	// Next returns true, if there is element and fills t.
	Next(t *T) bool
	// Err returns an error caused during iteration, if any.
	Err() error
	// Close closes iterator.
	Close() error
}

var _ Iterator[any] = (*SliceIterator[any])(nil)

// SliceIterator iterates over a slice.
type SliceIterator[T any] struct {
	data []T
	n    int
}

// Slice creates new SliceIterator from given values.
func Slice[T any](vals []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: vals}
}

// Next returns true, if there is element and fills t.
func (i *SliceIterator[T]) Next(t *T) bool {
	if i.n >= len(i.data) {
		return false
	}
	*t = i.data[i.n]
	i.n++
	return true
}

// Err returns an error caused during iteration, if any.
func (i *SliceIterator[T]) Err() error {
	return nil
}

// Close closes iterator.
func (i *SliceIterator[T]) Close() error {
	return nil
}
