// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package heap

// A cursor over the packed object sequence, in heap order. The region
// has no gaps, so each object starts where the previous one ends.
//
//	for c := m.objects(); c.next(); {
//		... c.off, c.size ...
//	}
//
// The cursor reads each object's size from its header before the body
// is visited, so visitors may rewrite fields but must not move objects.
type objectCursor struct {
	mem  *Memory
	off  int
	size int
}

func (m *Memory) objects() objectCursor {
	return objectCursor{mem: m}
}

func (c *objectCursor) next() bool {
	c.off += c.size
	if c.off >= c.mem.freeOffset {
		return false
	}
	c.size = c.mem.sizeAt(c.off)
	return true
}
