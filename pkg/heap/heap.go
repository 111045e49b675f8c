// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package heap

import (
	"errors"
	"fmt"

	"github.com/motevm/motevm/pkg/heap/internal/arena"
)

// Word is the heap's machine word: wide enough for the native int of
// the 16-bit targets the heap is laid out for. Every header field, int
// field and ref field is exactly one Word.
type Word uint16

const (
	WordSize        = 2
	DefaultCapacity = 3072
)

var (
	// Returned by Alloc. The only recoverable error in the package:
	// the caller may drop its handles, run GC and retry.
	ErrOutOfMemory = errors.New("out of memory")

	// Everything below is panicked, never returned. They are
	// programmer errors and the core does not catch them.
	ErrOutOfSafeHandles = errors.New("out of safe handles")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrNilRef           = errors.New("nil reference")
	ErrStaleHandle      = errors.New("stale handle used across a collection")
)

// A Heap owns one object region and the pin table that forms the
// collector's root set.
type Heap struct {
	Mem  *Memory
	Refs *SafeRefs
}

func New() *Heap {
	return NewSized(DefaultCapacity)
}

// Region offsets travel through ref words, so the region must stay
// addressable by a Word with nullRef left over.
const maxCapacity = int(nullRef) - 1

// Returns a new *Heap with at least the requested capacity in bytes.
//
// The motivating use of this function is building very small heaps so
// tests can fill them quickly. Most users will prefer New().
func NewSized(capacity int) *Heap {
	if capacity <= 0 || capacity > maxCapacity {
		panic(fmt.Errorf("heap capacity %d outside (0, %d]", capacity, maxCapacity))
	}

	conf := arena.NewConfig(uint64(capacity))
	region := arena.Map(conf)

	mem := &Memory{
		region:   region,
		bytes:    region.Data(),
		capacity: int(conf.Capacity),
	}

	refs := &SafeRefs{mem: mem}
	for i := range refs.slots {
		refs.slots[i] = emptySlot
	}

	return &Heap{
		Mem:  mem,
		Refs: refs,
	}
}

// Upgrades a read handle to a mutating handle.
//
// The discipline is the caller's: there must be no other live handle to
// any object for as long as the returned Obj is used to write.
func (h *Heap) Obj(r Ref) Obj {
	if r.IsNil() {
		panic(ErrNilRef)
	}
	r.check()
	return Obj{mem: r.mem, off: r.off, gen: r.gen}
}

// Releases the region backing this heap to the operating system. After
// this method is called the Heap is completely unusable.
func (h *Heap) Destroy() error {
	return h.Mem.region.Unmap()
}
