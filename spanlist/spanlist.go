/*
Package spanlist implements a segmented append-only container.

A List partitions an append-only sequence of items into segments, one
segment per Earley state set. Items only ever go to the currently open
segment; earlier segments are closed but stay readable. The backing store
is a varray.Array, so item addresses are stable for the lifetime of the
list and reading a closed segment is safe while the open segment grows.

Segment views are lazy: a view of the open segment observes items appended
after the view was taken. Algorithms around Earley parsing depend on this —
the recognizer iterates the open state set while adding items to it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package spanlist

import (
	"fmt"

	"github.com/npillmayer/earlybird/varray"
)

// List is a segmented view over an append-only item store.
//
// The segment layout is kept in starts: segment k covers item indices
// [starts[k], starts[k+1]). starts is empty until the first segment is
// opened; from then on it carries one entry more than there are segments,
// and the final entry tracks the end of the open segment.
type List[T any] struct {
	items  *varray.Array[T]
	starts []uint32
}

// New creates a list with room for capacity items in total, across all
// segments. Returns varray.ErrOom if the reservation fails.
func New[T any](capacity int) (*List[T], error) {
	items, err := varray.New[T](capacity)
	if err != nil {
		return nil, err
	}
	return &List[T]{items: items}, nil
}

// Release returns the backing reservation to the operating system.
func (l *List[T]) Release() error {
	l.starts = nil
	return l.items.Release()
}

// OpenSegment closes the current segment, if any, and opens a new empty one
// at the current tail of the item store.
func (l *List[T]) OpenSegment() {
	tail := uint32(l.items.Len())
	if len(l.starts) == 0 {
		l.starts = append(l.starts, tail)
	}
	l.starts = append(l.starts, tail)
}

// Push appends an item to the open segment. At least one segment must have
// been opened. Returns varray.ErrOutOfCapacity when the reservation is
// exhausted.
func (l *List[T]) Push(item T) error {
	if len(l.starts) < 2 {
		panic("spanlist: push without an open segment")
	}
	if err := l.items.Push(item); err != nil {
		return err
	}
	l.starts[len(l.starts)-1]++
	return nil
}

// Append appends each given item in order, like Push.
func (l *List[T]) Append(items ...T) error {
	for _, item := range items {
		if err := l.Push(item); err != nil {
			return err
		}
	}
	return nil
}

// SegmentCount returns the number of segments, the open one included.
func (l *List[T]) SegmentCount() int {
	if len(l.starts) == 0 {
		return 0
	}
	return len(l.starts) - 1
}

// Len returns the total number of items across all segments.
func (l *List[T]) Len() int {
	return l.items.Len()
}

// Segment returns a view of segment k. Views of closed segments never
// change; the view of the open segment is live and grows with every Push.
func (l *List[T]) Segment(k int) Span[T] {
	if k < 0 || k >= l.SegmentCount() {
		panic(fmt.Sprintf("spanlist: segment %d out of range [0,%d)", k, l.SegmentCount()))
	}
	return Span[T]{list: l, seg: k}
}

// CurrentSegment returns the live view of the open segment.
func (l *List[T]) CurrentSegment() Span[T] {
	return l.Segment(l.SegmentCount() - 1)
}

// Begin returns a segment iterator positioned at segment 0.
func (l *List[T]) Begin() Iterator[T] {
	return Iterator[T]{list: l}
}

// --- Segment views ----------------------------------------------------

// Span is a read-only view of one segment. It is index-based over the
// stable item store, so it stays cheap to copy and safe to hold.
type Span[T any] struct {
	list *List[T]
	seg  int
}

// Len returns the current number of items in the segment. For the open
// segment this advances as items are pushed.
func (s Span[T]) Len() int {
	return int(s.list.starts[s.seg+1] - s.list.starts[s.seg])
}

// Empty is a predicate: does the segment hold no items?
func (s Span[T]) Empty() bool {
	return s.Len() == 0
}

// At returns a pointer to the i-th item of the segment. The pointer stays
// valid until the list is released.
func (s Span[T]) At(i int) *T {
	if i < 0 || i >= s.Len() {
		panic(fmt.Sprintf("spanlist: span index %d out of range [0,%d)", i, s.Len()))
	}
	return s.list.items.At(int(s.list.starts[s.seg]) + i)
}

// Index returns the segment's position within the list.
func (s Span[T]) Index() int {
	return s.seg
}

// --- Segment iterators ------------------------------------------------

// Iterator is a random-access iterator over the segments of a List.
// Iterators support the usual arithmetic: begin+k addresses the state set
// for input position k.
type Iterator[T any] struct {
	list *List[T]
	pos  int
}

// Add returns an iterator advanced by k segments.
func (it Iterator[T]) Add(k int) Iterator[T] {
	return Iterator[T]{list: it.list, pos: it.pos + k}
}

// Sub returns an iterator moved back by k segments.
func (it Iterator[T]) Sub(k int) Iterator[T] {
	return Iterator[T]{list: it.list, pos: it.pos - k}
}

// Diff returns the segment distance it - other.
func (it Iterator[T]) Diff(other Iterator[T]) int {
	return it.pos - other.pos
}

// Pos returns the segment position the iterator addresses.
func (it Iterator[T]) Pos() int {
	return it.pos
}

// Valid is a predicate: does the iterator address an existing segment?
func (it Iterator[T]) Valid() bool {
	return it.list != nil && it.pos >= 0 && it.pos < it.list.SegmentCount()
}

// Span returns the view of the addressed segment.
func (it Iterator[T]) Span() Span[T] {
	return it.list.Segment(it.pos)
}

// Dec moves the iterator back by one segment, in place.
func (it *Iterator[T]) Dec() {
	it.pos--
}

// MoveTo repositions the iterator at segment pos, in place.
func (it *Iterator[T]) MoveTo(pos int) {
	it.pos = pos
}
