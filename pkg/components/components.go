// Package components wires up the optional subsystems compiled into a
// VM image. Components register at program start, in an explicit
// order, and are initialised in exactly that order: no component may
// depend on another being initialised first unless it registered after
// it. Which registered components actually run is decided by the
// build-time configuration file; the VM core never consults this
// package at runtime.
package components

import (
	"fmt"
)

type Component struct {
	Name string
	Init func()
}

var registry []Component

// Appends a component to the init list. Registration order is the init
// order.
func Register(name string, init func()) {
	registry = append(registry, Component{Name: name, Init: init})
}

// Initialises every registered component named in enabled, in
// registration order. A name with no registered component is an error:
// the image was configured to include a subsystem that was not
// compiled in.
func Init(enabled []string) error {
	for _, name := range enabled {
		if !registered(name) {
			return fmt.Errorf("component %q is enabled but not compiled in", name)
		}
	}

	for _, c := range registry {
		if enabledContains(enabled, c.Name) {
			c.Init()
		}
	}
	return nil
}

func registered(name string) bool {
	for _, c := range registry {
		if c.Name == name {
			return true
		}
	}
	return false
}

func enabledContains(enabled []string, name string) bool {
	for _, e := range enabled {
		if e == name {
			return true
		}
	}
	return false
}
