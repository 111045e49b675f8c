package jvm

import (
	"errors"

	"github.com/motevm/motevm/pkg/heap"
)

var (
	ErrIntStackOverflow     = errors.New("int stack overflow")
	ErrIntStackUnderflow    = errors.New("int stack underflow")
	ErrRefStackOverflow     = errors.New("ref stack overflow")
	ErrRefStackUnderflow    = errors.New("ref stack underflow")
	ErrLocalIndexOutOfRange = errors.New("local index out of range")
)

// A Stackframe is one activation record, stored as an ordinary heap
// object so frames are collected with everything else and survive
// compaction via the same ref rewriting.
//
// Int slot layout:
//
//	[PC][INT_SP][REF_SP][N_INT_LOCALS][N_REF_LOCALS][MAX_INT_STK][MAX_REF_STK]
//	[ int stack, maxIntStack slots ][ int locals, localInts slots ]
//
// Ref slot layout:
//
//	[PARENT_FRAME]
//	[ ref stack, maxRefStack slots ][ ref locals, localRefs slots ]
//
// Both stack pointers use the points-to-top convention: push writes
// slot SP+1 then increments, pop reads slot SP then decrements. Stack
// slot 0 is never written, so a stack of max slots holds max-1 values.
type Stackframe struct {
	Obj heap.Obj
}

const (
	idxPC         = 0
	idxIntSP      = 1
	idxRefSP      = 2
	idxNIntLocals = 3
	idxNRefLocals = 4
	idxMaxIntStk  = 5
	idxMaxRefStk  = 6

	intStackBase = 7

	refParentFrame = 0
	refStackBase   = 1
)

// Allocates a frame in mem. Returns heap.ErrOutOfMemory untouched so
// the caller can collect at a safe point and retry.
func NewStackframe(mem *heap.Memory, localInts, maxIntStack, localRefs, maxRefStack int) (Stackframe, error) {
	nInts := intStackBase + maxIntStack + localInts
	nRefs := refStackBase + maxRefStack + localRefs

	obj, err := mem.Alloc(nInts, nRefs)
	if err != nil {
		return Stackframe{}, err
	}

	// Alloc zeroed every field, so PC, both stack pointers, the
	// locals and the parent link are already in their initial state.
	obj.SetInt(idxNIntLocals, heap.Word(localInts))
	obj.SetInt(idxNRefLocals, heap.Word(localRefs))
	obj.SetInt(idxMaxIntStk, heap.Word(maxIntStack))
	obj.SetInt(idxMaxRefStk, heap.Word(maxRefStack))

	return Stackframe{Obj: obj}, nil
}

func (f Stackframe) PC() heap.Word {
	return f.Obj.GetInt(idxPC)
}

func (f Stackframe) SetPC(pc heap.Word) {
	f.Obj.SetInt(idxPC, pc)
}

func (f Stackframe) Parent() heap.Ref {
	return f.Obj.GetRef(refParentFrame)
}

func (f Stackframe) SetParent(r heap.Ref) {
	f.Obj.SetRef(refParentFrame, r)
}

func (f Stackframe) PushInt(v heap.Word) {
	sp := int(f.Obj.GetInt(idxIntSP))
	if sp+1 >= int(f.Obj.GetInt(idxMaxIntStk)) {
		panic(ErrIntStackOverflow)
	}
	f.Obj.SetInt(intStackBase+sp+1, v)
	f.Obj.SetInt(idxIntSP, heap.Word(sp+1))
}

func (f Stackframe) PopInt() heap.Word {
	sp := int(f.Obj.GetInt(idxIntSP))
	if sp == 0 {
		panic(ErrIntStackUnderflow)
	}
	f.Obj.SetInt(idxIntSP, heap.Word(sp-1))
	return f.Obj.GetInt(intStackBase + sp)
}

func (f Stackframe) PushRef(r heap.Ref) {
	sp := int(f.Obj.GetInt(idxRefSP))
	if sp+1 >= int(f.Obj.GetInt(idxMaxRefStk)) {
		panic(ErrRefStackOverflow)
	}
	f.Obj.SetRef(refStackBase+sp+1, r)
	f.Obj.SetInt(idxRefSP, heap.Word(sp+1))
}

func (f Stackframe) PopRef() heap.Ref {
	sp := int(f.Obj.GetInt(idxRefSP))
	if sp == 0 {
		panic(ErrRefStackUnderflow)
	}
	f.Obj.SetInt(idxRefSP, heap.Word(sp-1))
	return f.Obj.GetRef(refStackBase + sp)
}

func (f Stackframe) IntLocal(i int) heap.Word {
	return f.Obj.GetInt(f.intLocalSlot(i))
}

func (f Stackframe) SetIntLocal(i int, v heap.Word) {
	f.Obj.SetInt(f.intLocalSlot(i), v)
}

func (f Stackframe) RefLocal(i int) heap.Ref {
	return f.Obj.GetRef(f.refLocalSlot(i))
}

func (f Stackframe) SetRefLocal(i int, r heap.Ref) {
	f.Obj.SetRef(f.refLocalSlot(i), r)
}

func (f Stackframe) intLocalSlot(i int) int {
	if i < 0 || i >= int(f.Obj.GetInt(idxNIntLocals)) {
		panic(ErrLocalIndexOutOfRange)
	}
	return intStackBase + int(f.Obj.GetInt(idxMaxIntStk)) + i
}

func (f Stackframe) refLocalSlot(i int) int {
	if i < 0 || i >= int(f.Obj.GetInt(idxNRefLocals)) {
		panic(ErrLocalIndexOutOfRange)
	}
	return refStackBase + int(f.Obj.GetInt(idxMaxRefStk)) + i
}
