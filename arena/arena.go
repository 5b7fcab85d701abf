// Package arena provides the fixed-size memory region that backs the
// scheduler's bookkeeping.
//
// An Arena is initialised exactly once and never grows, shrinks or frees.
// Every misuse (allocating before Init, initialising twice, running out of
// space) panics: there is no recovery path on a device whose task set is
// sized at build time.
package arena

import (
	"sync/atomic"
	"unsafe"

	"ledfw-go/x/mathx"
)

// HeapSize is the size of the process-wide arena.
const HeapSize = 32 * 1024

// Heap is the process-wide arena. main initialises it before building the
// scheduler.
var Heap = &Arena{}

const (
	panicBeforeInit = "arena: alloc before init"
	panicTwice      = "arena: init called twice"
	panicOOM        = "arena: out of memory"
	panicBadAlign   = "arena: alignment must be a power of two"
	panicSize       = "arena: invalid size"
)

// Arena is a bump allocator over one region. The zero value is
// uninitialised.
type Arena struct {
	ready atomic.Bool
	buf   []byte
	off   uintptr
}

// Init reserves size bytes. It panics if called a second time.
func (a *Arena) Init(size int) {
	if size <= 0 {
		panic(panicSize)
	}
	if a.ready.Load() {
		panic(panicTwice)
	}
	// Back the region with uint64 words so the base is 8-byte aligned.
	words := make([]uint64, mathx.CeilDiv(uint(size), 8))
	a.buf = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
	a.off = 0
	a.ready.Store(true)
}

// Initialized reports whether Init has run.
func (a *Arena) Initialized() bool { return a.ready.Load() }

// Cap returns the region size in bytes, 0 before Init.
func (a *Arena) Cap() int { return len(a.buf) }

// Used returns the bytes handed out so far, including alignment padding.
func (a *Arena) Used() int { return int(a.off) }

// Alloc returns n zeroed bytes aligned to align.
func (a *Arena) Alloc(n int, align uintptr) []byte {
	if !a.ready.Load() {
		panic(panicBeforeInit)
	}
	if n < 0 {
		panic(panicSize)
	}
	if align == 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		panic(panicBadAlign)
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	start := (base+a.off+align-1)&^(align-1) - base
	end := start + uintptr(n)
	if end > uintptr(len(a.buf)) {
		panic(panicOOM)
	}
	a.off = end
	return a.buf[start:end:end]
}

// Make carves a []T of length n out of a. T must not contain pointers: the
// region is a byte slice and the garbage collector does not scan it.
func Make[T any](a *Arena, n int) []T {
	var zero T
	size, align := unsafe.Sizeof(zero), unsafe.Alignof(zero)
	if n == 0 {
		a.Alloc(0, align)
		return []T{}
	}
	b := a.Alloc(n*int(size), align)
	if size == 0 {
		return make([]T, n)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}
