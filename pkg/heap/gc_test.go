// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package heap_test

import (
	"testing"

	"github.com/motevm/motevm/pkg/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAlloc(t *testing.T, h *heap.Heap, nInts, nRefs int) heap.Obj {
	t.Helper()
	obj, err := h.Mem.Alloc(nInts, nRefs)
	require.NoError(t, err)
	return obj
}

// List nodes are one int and one next ref. Evens prepend, odds append,
// so insertion order 0..4 yields traversal order 4 2 0 1 3.
func buildList(t *testing.T, h *heap.Heap) heap.SafeRef {
	t.Helper()

	prepend := func(list, node heap.SafeRef) heap.SafeRef {
		newHead := h.Obj(h.Refs.Ref(node))
		newHead.SetRef(0, h.Refs.Ref(list))
		h.Refs.Drop(list)
		return node
	}

	appendTo := func(list, node heap.SafeRef) heap.SafeRef {
		finger := h.Obj(h.Refs.Ref(list))
		for !finger.GetRef(0).IsNil() {
			finger = h.Obj(finger.GetRef(0))
		}
		finger.SetRef(0, h.Refs.Ref(node))
		h.Refs.Drop(node)
		return list
	}

	mustAlloc(t, h, 1, 1) // garbage

	head := mustAlloc(t, h, 1, 1)
	head.SetInt(0, 0)
	list := h.Refs.Pin(head.Ref())

	for i := 1; i < 5; i++ {
		mustAlloc(t, h, 1, 1) // garbage

		node := mustAlloc(t, h, 1, 1)
		node.SetInt(0, heap.Word(i))
		pin := h.Refs.Pin(node.Ref())

		if i%2 == 0 {
			list = prepend(list, pin)
		} else {
			list = appendTo(list, pin)
		}
	}

	return list
}

func walkList(h *heap.Heap, list heap.SafeRef) []heap.Word {
	vals := []heap.Word{}
	for finger := h.Refs.Ref(list); !finger.IsNil(); {
		node := h.Obj(finger)
		vals = append(vals, node.GetInt(0))
		finger = node.GetRef(0)
	}
	return vals
}

// A linked list interleaved with garbage survives collection intact,
// with only the head pinned.
func TestGCLinkedListSurvives(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	list := buildList(t, h)
	h.GC()

	assert.Equal(t, []heap.Word{4, 2, 0, 1, 3}, walkList(h, list))

	nodeSize := heap.HeaderSize + 2*heap.WordSize
	assert.Equal(t, 5*nodeSize, h.Mem.FreeOffset())
}

// A pinned object preceded by garbage slides down; the pin is
// rewritten and the contents are untouched.
func TestGCSafeHandleRewritten(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	garbage := mustAlloc(t, h, 4, 0)
	garbageSize := garbage.Size()

	obj := mustAlloc(t, h, 2, 1)
	obj.SetInt(0, 123)
	obj.SetInt(1, 456)
	pin := h.Refs.Pin(obj.Ref())
	before := obj.Ref().Offset()

	h.GC()

	after := h.Refs.Ref(pin)
	assert.Equal(t, before-heap.Word(garbageSize), after.Offset())

	moved := h.Obj(after)
	assert.Equal(t, heap.Word(123), moved.GetInt(0))
	assert.Equal(t, heap.Word(456), moved.GetInt(1))
	assert.True(t, moved.GetRef(0).IsNil())
}

// A pinned object with no garbage below it does not move.
func TestGCUnshiftedObjectKeepsOffset(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	obj := mustAlloc(t, h, 1, 0)
	pin := h.Refs.Pin(obj.Ref())
	before := obj.Ref().Offset()

	h.GC()

	assert.Equal(t, before, h.Refs.Ref(pin).Offset())
}

// Collecting twice with an unchanged root set is the same as
// collecting once.
func TestGCIdempotent(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	list := buildList(t, h)

	h.GC()
	offsetOnce := h.Mem.FreeOffset()
	sumOnce := h.Mem.Checksum()

	h.GC()
	assert.Equal(t, offsetOnce, h.Mem.FreeOffset())
	assert.Equal(t, sumOnce, h.Mem.Checksum())
	assert.Equal(t, []heap.Word{4, 2, 0, 1, 3}, walkList(h, list))
}

// Reachability through an object graph with sharing: everything
// reachable from the pin survives with fields intact, everything else
// is reclaimed, and every surviving ref resolves.
func TestGCPreservesReachableGraph(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	// root -> b -> d, root -> c -> d (d is shared)
	d := mustAlloc(t, h, 1, 0)
	d.SetInt(0, 4)

	mustAlloc(t, h, 8, 8) // garbage

	b := mustAlloc(t, h, 1, 1)
	b.SetInt(0, 2)
	b.SetRef(0, d.Ref())

	c := mustAlloc(t, h, 1, 1)
	c.SetInt(0, 3)
	c.SetRef(0, d.Ref())

	mustAlloc(t, h, 2, 2) // garbage

	root := mustAlloc(t, h, 1, 2)
	root.SetInt(0, 1)
	root.SetRef(0, b.Ref())
	root.SetRef(1, c.Ref())

	pin := h.Refs.Pin(root.Ref())
	liveBytes := d.Size() + b.Size() + c.Size() + root.Size()

	h.GC()

	assert.Equal(t, liveBytes, h.Mem.FreeOffset())

	newRoot := h.Obj(h.Refs.Ref(pin))
	assert.Equal(t, heap.Word(1), newRoot.GetInt(0))

	newB := h.Obj(newRoot.GetRef(0))
	newC := h.Obj(newRoot.GetRef(1))
	assert.Equal(t, heap.Word(2), newB.GetInt(0))
	assert.Equal(t, heap.Word(3), newC.GetInt(0))

	// Both paths reach the same shared object.
	assert.Equal(t, newB.GetRef(0).Offset(), newC.GetRef(0).Offset())
	assert.Equal(t, heap.Word(4), h.Obj(newB.GetRef(0)).GetInt(0))
}

// A cycle does not hang the fixed-point marker and survives as a unit.
func TestGCCycle(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	a := mustAlloc(t, h, 1, 1)
	a.SetInt(0, 10)
	b := mustAlloc(t, h, 1, 1)
	b.SetInt(0, 20)

	a.SetRef(0, b.Ref())
	b.SetRef(0, a.Ref())

	pin := h.Refs.Pin(a.Ref())
	h.GC()

	newA := h.Obj(h.Refs.Ref(pin))
	newB := h.Obj(newA.GetRef(0))
	assert.Equal(t, heap.Word(10), newA.GetInt(0))
	assert.Equal(t, heap.Word(20), newB.GetInt(0))
	assert.Equal(t, newA.Ref().Offset(), newB.GetRef(0).Offset())
}

// An unpinned cycle is garbage despite the internal references.
func TestGCUnreachableCycleReclaimed(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	a := mustAlloc(t, h, 1, 1)
	b := mustAlloc(t, h, 1, 1)
	a.SetRef(0, b.Ref())
	b.SetRef(0, a.Ref())

	h.GC()
	assert.Equal(t, 0, h.Mem.FreeOffset())
}

// Dropping a pin between collections makes the object garbage.
func TestGCDroppedPinReclaimed(t *testing.T) {
	h := heap.New()
	defer h.Destroy()

	obj := mustAlloc(t, h, 1, 0)
	pin := h.Refs.Pin(obj.Ref())

	h.GC()
	assert.Equal(t, heap.HeaderSize+heap.WordSize, h.Mem.FreeOffset())

	h.Refs.Drop(pin)
	h.GC()
	assert.Equal(t, 0, h.Mem.FreeOffset())
}

// Collecting an empty heap is a no-op.
func TestGCEmptyHeap(t *testing.T) {
	h := heap.NewSized(64)
	defer h.Destroy()

	h.GC()
	assert.Equal(t, 0, h.Mem.FreeOffset())
}
