/*
Package varray implements a stable-address append-only array.

An Array reserves virtual address space for its full capacity at
construction time and never relocates elements afterwards. Pointers to live
elements therefore stay valid until the array is released, even while
further elements are being appended. Physical memory is committed lazily by
the operating system as pages are touched, so over-sized reservations are
cheap.

This property is load-bearing for the Earley recognizer, which reads
earlier state sets while appending items to the current one.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

*/
package varray

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrOom flags a failed virtual-memory reservation.
var ErrOom = errors.New("virtual-memory reservation failed")

// ErrOutOfCapacity flags an append to a fully populated array.
var ErrOutOfCapacity = errors.New("reserved capacity exhausted")

// Array is an append-only array of T with stable element addresses.
// Construct with
//
//     a, err := varray.New[item](1_000_000)  // room for 1M items
//
// Elements must be free of Go pointers: the backing store is anonymous
// mapped memory which the garbage collector does not scan. New panics on
// pointer-carrying element types, as this is a programming error rather
// than a runtime condition.
//
// An Array does not run element destructors or finalizers; Release unmaps
// the whole reservation as one unit.
type Array[T any] struct {
	mem  []byte // the reservation, page granularity
	data []T    // typed view over mem, len == capacity
	n    int    // live element count
}

// New reserves address space for capacity elements of type T.
// The reservation is rounded up to the page size. Returns ErrOom if the
// operating system refuses the reservation.
func New[T any](capacity int) (*Array[T], error) {
	var zero T
	tT := reflect.TypeOf(&zero).Elem()
	if hasPointers(tT) {
		panic(fmt.Sprintf("varray: element type %s contains pointers", tT))
	}
	esize := int(unsafe.Sizeof(zero))
	if capacity <= 0 || esize == 0 {
		return nil, fmt.Errorf("varray: illegal capacity %d for element size %d: %w",
			capacity, esize, ErrOom)
	}
	pagesize := os.Getpagesize()
	size := capacity * esize
	if r := size % pagesize; r != 0 {
		size += pagesize - r
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, mapFlags)
	if err != nil {
		return nil, fmt.Errorf("varray: mmap of %d bytes: %v: %w", size, err, ErrOom)
	}
	a := &Array[T]{mem: mem}
	a.data = unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), capacity)
	return a, nil
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int {
	return a.n
}

// Cap returns the reserved capacity.
func (a *Array[T]) Cap() int {
	return len(a.data)
}

// Push appends a value. Returns ErrOutOfCapacity if the reservation is
// exhausted.
func (a *Array[T]) Push(value T) error {
	if a.n == len(a.data) {
		return ErrOutOfCapacity
	}
	a.data[a.n] = value
	a.n++
	return nil
}

// Append appends each given value in order. It fails like Push; on failure
// a prefix of values may have been appended.
func (a *Array[T]) Append(values ...T) error {
	for _, v := range values {
		if err := a.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// At returns a pointer to the element at index i. The pointer stays valid
// until Release is called, regardless of further appends. At panics on an
// out-of-range index, mirroring slice access.
func (a *Array[T]) At(i int) *T {
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("varray: index %d out of range [0,%d)", i, a.n))
	}
	return &a.data[i]
}

// Slice returns a view of the live elements [from,to). The view aliases the
// stable backing store.
func (a *Array[T]) Slice(from, to int) []T {
	if from < 0 || to < from || to > a.n {
		panic(fmt.Sprintf("varray: slice bounds [%d,%d) out of range [0,%d)", from, to, a.n))
	}
	return a.data[from:to:to]
}

// Release returns the reservation to the operating system. The array and
// every pointer obtained from At become invalid.
func (a *Array[T]) Release() error {
	if a.mem == nil {
		return nil
	}
	mem := a.mem
	a.mem, a.data, a.n = nil, nil, 0
	return unix.Munmap(mem)
}

// hasPointers reports whether values of type t embed Go pointers, directly
// or transitively.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.Slice, reflect.String:
		return true
	case reflect.Array:
		return hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
