// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package heap

import (
	"encoding/binary"
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/motevm/motevm/pkg/heap/internal/arena"
)

// Object layout, all words little-endian:
//
//	+--------+--------+--------+--------+----------------+----------------+
//	| color  | shift  | nInts  | nRefs  | ints[nInts]    | refs[nRefs]    |
//	+--------+--------+--------+--------+----------------+----------------+
//
// A ref word holds the byte offset of the referent's header, or nullRef.
const (
	hdrColor   = 0
	hdrShift   = 2
	hdrNInts   = 4
	hdrNRefs   = 6
	HeaderSize = 8
)

const (
	colorWhite Word = 0xFFFF
	colorGrey  Word = 1
	colorBlack Word = 2
)

// nullRef can never collide with a real header offset because offsets
// are bounded by the region capacity.
const nullRef Word = 0xFFFF

// Memory is the object region: a packed sequence of objects in
// [0, freeOffset) and unused bytes in [freeOffset, capacity).
type Memory struct {
	region     *arena.Region
	bytes      []byte
	capacity   int
	freeOffset int

	// Bumped by every collection. Obj and Ref handles carry the
	// generation they were created in and refuse to operate once it
	// is stale.
	gen uint32
}

// Allocates an object with the requested field counts and returns a
// mutating handle to it. All int fields read as zero and all ref fields
// read as nil.
//
// Returns ErrOutOfMemory when the object does not fit in the unused
// part of the region. The allocator never collects implicitly; the
// caller decides when handles are dropped and collection is legal.
func (m *Memory) Alloc(nInts, nRefs int) (Obj, error) {
	if nInts < 0 || nRefs < 0 || nInts > int(nullRef) || nRefs > int(nullRef) {
		panic(fmt.Errorf("cannot allocate object with %d int fields and %d ref fields", nInts, nRefs))
	}

	size := objectSize(nInts, nRefs)
	if size > m.capacity-m.freeOffset {
		return Obj{}, ErrOutOfMemory
	}

	off := m.freeOffset
	m.freeOffset += size

	m.setWord(off+hdrColor, colorWhite)
	m.setWord(off+hdrShift, 0)
	m.setWord(off+hdrNInts, Word(nInts))
	m.setWord(off+hdrNRefs, Word(nRefs))

	for i := 0; i < nInts; i++ {
		m.setWord(m.intAddr(off, i), 0)
	}
	for i := 0; i < nRefs; i++ {
		m.setWord(m.refAddr(off, i), nullRef)
	}

	return Obj{mem: m, off: off, gen: m.gen}, nil
}

// The byte offset where the next allocation would start. Equal to the
// sum of the sizes of all objects in the region.
func (m *Memory) FreeOffset() int {
	return m.freeOffset
}

func (m *Memory) Capacity() int {
	return m.capacity
}

// Content hash of the live part of the region. Two heaps with the same
// object sequence, field values and references hash identically, which
// makes this the cheapest way to compare whole heap images. The
// collector's colour and shift header words are not hashed.
func (m *Memory) Checksum() uint64 {
	d := xxhash.New()
	for c := m.objects(); c.next(); {
		d.Write(m.bytes[c.off+hdrNInts : c.off+c.size])
	}
	return d.Sum64()
}

func objectSize(nInts, nRefs int) int {
	return HeaderSize + (nInts+nRefs)*WordSize
}

// Raw word access

func (m *Memory) word(addr int) Word {
	return Word(binary.LittleEndian.Uint16(m.bytes[addr:]))
}

func (m *Memory) setWord(addr int, v Word) {
	binary.LittleEndian.PutUint16(m.bytes[addr:], uint16(v))
}

// Header field access by object offset

func (m *Memory) color(off int) Word       { return m.word(off + hdrColor) }
func (m *Memory) setColor(off int, c Word) { m.setWord(off+hdrColor, c) }
func (m *Memory) shift(off int) int        { return int(m.word(off + hdrShift)) }
func (m *Memory) setShift(off, shift int)  { m.setWord(off+hdrShift, Word(shift)) }
func (m *Memory) nIntsAt(off int) int      { return int(m.word(off + hdrNInts)) }
func (m *Memory) nRefsAt(off int) int      { return int(m.word(off + hdrNRefs)) }

func (m *Memory) sizeAt(off int) int {
	return objectSize(m.nIntsAt(off), m.nRefsAt(off))
}

// Field addressing

func (m *Memory) intAddr(off, i int) int {
	return off + HeaderSize + i*WordSize
}

func (m *Memory) refAddr(off, i int) int {
	return off + HeaderSize + (m.nIntsAt(off)+i)*WordSize
}

// Returns the header offset held in the i'th ref slot, reporting
// whether the slot is non-nil.
func (m *Memory) refAt(off, i int) (int, bool) {
	w := m.word(m.refAddr(off, i))
	if w == nullRef {
		return 0, false
	}
	return int(w), true
}

func (m *Memory) setRefAt(off, i, child int) {
	m.setWord(m.refAddr(off, i), Word(child))
}
