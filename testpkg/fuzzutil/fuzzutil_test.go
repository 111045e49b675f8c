// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package fuzzutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByteConsumer_Byte(t *testing.T) {
	c := NewByteConsumer([]byte{0x01, 0x02})

	assert.Equal(t, byte(0x01), c.Byte())
	assert.Equal(t, byte(0x02), c.Byte())
	assert.Equal(t, 0, c.Len())

	// Exhausted consumers produce zeros
	assert.Equal(t, byte(0), c.Byte())
}

func TestByteConsumer_Uint16(t *testing.T) {
	c := NewByteConsumer([]byte{0x34, 0x12})

	assert.Equal(t, uint16(0x1234), c.Uint16())
	assert.Equal(t, 0, c.Len())
}

func TestByteConsumer_Uint16_short(t *testing.T) {
	c := NewByteConsumer([]byte{0x34})

	// The missing high byte reads as zero
	assert.Equal(t, uint16(0x34), c.Uint16())
	assert.Equal(t, 0, c.Len())
}

type countingStep struct {
	counter *int
}

func (s countingStep) DoStep() {
	*s.counter++
}

func TestTestRun(t *testing.T) {
	steps := 0
	cleaned := false

	tr := NewTestRun([]byte{1, 2, 3}, func(c *ByteConsumer) Step {
		c.Byte()
		return countingStep{counter: &steps}
	}, func() {
		cleaned = true
	})
	tr.Run()

	assert.Equal(t, 3, steps)
	assert.True(t, cleaned)
}
