// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package arena

import (
	"github.com/fmstephe/flib/fmath"
)

type Config struct {
	RequestedCapacity uint64
	//
	Capacity   uint64
	MappedSize uint64
}

// Capacity is the requested capacity rounded up to a whole number of
// 16-bit words. The mapping size is the capacity rounded up to the next
// power of two.
func NewConfig(requestedCapacity uint64) Config {
	capacity := (requestedCapacity + 1) &^ 1

	mappedSize := uint64(fmath.NxtPowerOfTwo(int64(capacity)))

	return Config{
		RequestedCapacity: requestedCapacity,

		Capacity:   capacity,
		MappedSize: mappedSize,
	}
}
