// Copyright 2024 Francis Michael Stephens. All rights reserved.  Use of this
// source code is governed by an MIT license that can be found in the LICENSE
// file.

package arena

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// A Region is a single anonymous memory mapping backing one heap. The
// mapping is sized up to a power of two, but only the first Capacity
// bytes are handed out to the heap.
type Region struct {
	conf Config
	data []byte
}

func Map(conf Config) *Region {
	data, err := unix.Mmap(-1, 0, int(conf.MappedSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		panic(fmt.Errorf("cannot map %#v because %s", conf, err))
	}

	return &Region{
		conf: conf,
		data: data,
	}
}

// Returns the usable byte range of the region, Capacity bytes long.
func (r *Region) Data() []byte {
	return r.data[:r.conf.Capacity]
}

func (r *Region) Config() Config {
	return r.conf
}

// Releases the mapping back to the operating system. After this method
// is called the Region, and any heap built on it, is completely
// unusable.
func (r *Region) Unmap() error {
	data := r.data
	r.data = nil
	return unix.Munmap(data)
}
