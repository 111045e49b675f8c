// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package heap

import (
	"fmt"
)

// Obj is the mutating handle: full read/write access to one object's
// fields. At most one Obj should be in use at any time, and none may be
// kept across a collection; the generation stamp turns a violation of
// the second rule into a panic instead of a silent read of relocated
// memory.
type Obj struct {
	mem *Memory
	off int
	gen uint32
}

// Ref is the read handle: an opaque reference to one object. Many may
// be copied and held at once, but like Obj none may be kept across a
// collection. The zero Ref is the nil reference.
type Ref struct {
	mem *Memory
	off int
	gen uint32
}

func (o Obj) check() {
	if o.mem == nil {
		panic(ErrNilRef)
	}
	if o.gen != o.mem.gen {
		panic(fmt.Errorf("%w (handle generation %d, heap generation %d)", ErrStaleHandle, o.gen, o.mem.gen))
	}
}

func (o Obj) NInts() int {
	o.check()
	return o.mem.nIntsAt(o.off)
}

func (o Obj) NRefs() int {
	o.check()
	return o.mem.nRefsAt(o.off)
}

// Object size in bytes: header plus int fields plus ref fields.
// Constant for the object's lifetime.
func (o Obj) Size() int {
	o.check()
	return o.mem.sizeAt(o.off)
}

func (o Obj) GetInt(i int) Word {
	o.check()
	if i < 0 || i >= o.mem.nIntsAt(o.off) {
		panic(ErrIndexOutOfRange)
	}
	return o.mem.word(o.mem.intAddr(o.off, i))
}

func (o Obj) SetInt(i int, v Word) {
	o.check()
	if i < 0 || i >= o.mem.nIntsAt(o.off) {
		panic(ErrIndexOutOfRange)
	}
	o.mem.setWord(o.mem.intAddr(o.off, i), v)
}

// Returns the i'th ref field as a read handle, nil Ref if the field is
// nil. The result is only valid for as long as this Obj is.
func (o Obj) GetRef(i int) Ref {
	o.check()
	if i < 0 || i >= o.mem.nRefsAt(o.off) {
		panic(ErrIndexOutOfRange)
	}
	child, ok := o.mem.refAt(o.off, i)
	if !ok {
		return Ref{}
	}
	return Ref{mem: o.mem, off: child, gen: o.gen}
}

// Stores a reference in the i'th ref field. A zero Ref stores nil.
func (o Obj) SetRef(i int, r Ref) {
	o.check()
	if i < 0 || i >= o.mem.nRefsAt(o.off) {
		panic(ErrIndexOutOfRange)
	}
	if r.IsNil() {
		o.mem.setWord(o.mem.refAddr(o.off, i), nullRef)
		return
	}
	r.check()
	if r.mem != o.mem {
		panic(fmt.Errorf("reference into a different heap"))
	}
	o.mem.setRefAt(o.off, i, r.off)
}

// Downgrades the mutating handle to a read handle.
func (o Obj) Ref() Ref {
	o.check()
	return Ref(o)
}

func (r Ref) IsNil() bool {
	return r.mem == nil
}

func (r Ref) check() {
	if r.mem == nil {
		panic(ErrNilRef)
	}
	if r.gen != r.mem.gen {
		panic(fmt.Errorf("%w (handle generation %d, heap generation %d)", ErrStaleHandle, r.gen, r.mem.gen))
	}
}

// The byte offset of the referent's header inside the region. Only
// meaningful for diagnostics; it changes when the heap is compacted.
func (r Ref) Offset() Word {
	r.check()
	return Word(r.off)
}
