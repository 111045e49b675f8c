// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

// # Usage
//
// The heap package implements a fixed-capacity managed heap for a small
// bytecode interpreter. Objects are packed back to back into a single
// mapped byte region by a bump allocator, and reclaimed by an explicit
// mark-compact collector which slides the survivors down to the base of
// the region and rewrites every reference to them.
//
// Every object is a header followed by a run of 16-bit int fields and a
// run of 16-bit ref fields. Ref fields hold the byte offset of another
// object's header inside the same region, so a heap image is fully
// position-independent state plus one free offset.
//
// There are three ways to hold an object, with different rights and
// different lifetimes:
//
//	var h *heap.Heap = heap.New()
//
//	obj, err := h.Mem.Alloc(3, 2) // Obj: read and write fields
//	ref := obj.Ref()              // Ref: read-only view, freely copyable
//	safe := h.Refs.Pin(ref)       // SafeRef: survives collection
//
// Obj and Ref are direct views onto the region and MUST NOT be held
// across a call to Heap.GC. Each one is stamped with the heap's
// collection generation when it is created, and every access
// re-validates the stamp, so a handle that was illegally kept across a
// collection panics instead of reading relocated memory. A SafeRef is
// an index into a small pin table which the collector treats as the
// root set and rewrites during compaction. Re-derive a fresh Obj after
// any possible collection:
//
//	obj = h.Obj(h.Refs.Ref(safe))
//
// The allocator never collects on its own. When Alloc returns
// ErrOutOfMemory the caller drops its Obj/Ref handles, runs Heap.GC,
// and retries:
//
//	obj, err := h.Mem.Alloc(3, 2)
//	if err != nil {
//		h.GC()
//		obj, err = h.Mem.Alloc(3, 2)
//	}
//
// The heap is single-context state. Nothing in this package is safe for
// concurrent use, and no call ever suspends; this mirrors the
// run-to-completion execution model of the microcontroller targets the
// heap is sized for.
package heap
