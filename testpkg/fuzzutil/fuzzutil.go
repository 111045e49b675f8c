// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package fuzzutil

import (
	"encoding/binary"
	"math/rand"
)

// A ByteConsumer doles out a fuzzer's byte string as small typed
// values. Once the bytes run out every read returns zeros, so a step
// decoder never has to check remaining length.
type ByteConsumer struct {
	bytes []byte
}

func NewByteConsumer(bytes []byte) *ByteConsumer {
	return &ByteConsumer{
		bytes: bytes,
	}
}

func (c *ByteConsumer) Len() int {
	return len(c.bytes)
}

func (c *ByteConsumer) take(size int) []byte {
	consumed := make([]byte, size)
	copy(consumed, c.bytes)

	if len(c.bytes) <= size {
		c.bytes = c.bytes[:0]
	} else {
		c.bytes = c.bytes[size:]
	}
	return consumed
}

func (c *ByteConsumer) Byte() byte {
	return c.take(1)[0]
}

func (c *ByteConsumer) Uint16() uint16 {
	return binary.LittleEndian.Uint16(c.take(2))
}

// A TestRun decodes a whole byte string into steps up front and then
// executes them in order. Steps carry their own expectations and fail
// the test from inside DoStep.
type TestRun struct {
	steps   []Step
	cleanup func()
}

type Step interface {
	DoStep()
}

func NewTestRun(bytes []byte, stepMaker func(*ByteConsumer) Step, cleanup func()) *TestRun {
	tr := &TestRun{
		steps:   make([]Step, 0),
		cleanup: cleanup,
	}

	byteConsumer := NewByteConsumer(bytes)
	for byteConsumer.Len() > 0 {
		tr.steps = append(tr.steps, stepMaker(byteConsumer))
	}
	return tr
}

func (t *TestRun) Run() {
	defer t.cleanup()
	for _, step := range t.steps {
		step.DoStep()
	}
}

// Seed corpus for fuzz tests: deterministic random byte strings across
// a wide spread of lengths.
func MakeRandomTestCases() [][]byte {
	r := rand.New(rand.NewSource(1))
	cases := [][]byte{{}}
	for _, size := range []int{1, 10, 50, 100, 500, 1000, 5000, 10000} {
		bytes := make([]byte, size)
		r.Read(bytes)
		cases = append(cases, bytes)
	}
	return cases
}
