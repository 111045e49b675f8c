// Package jvm holds the execution side of the VM: stack frames laid
// out as heap objects, and the opcode executors that drive them. The
// bytecode surface here is deliberately small; it exists to exercise
// the frame and heap machinery, not to be a complete instruction set.
package jvm

import (
	"github.com/motevm/motevm/pkg/heap"
)

// VM threads one heap and the pin of the currently executing frame.
// The frame pin is the only reference the VM holds across collections.
type VM struct {
	Heap *heap.Heap

	frame heap.SafeRef
}

// Builds a fresh heap, allocates the main frame in it with the given
// local and stack sizes, and pins it as the current frame.
func Create(localInts, maxIntStack, localRefs, maxRefStack int) *VM {
	h := heap.New()

	main, err := NewStackframe(h.Mem, localInts, maxIntStack, localRefs, maxRefStack)
	if err != nil {
		// A fresh heap that cannot hold its main frame is unusable.
		panic(err)
	}

	return &VM{
		Heap:  h,
		frame: h.Refs.Pin(main.Obj.Ref()),
	}
}

// Re-derives the mutating handle for the current frame from its pin.
// Handles do not survive collection, so executors call this after any
// operation that might have collected.
func (vm *VM) CurrentFrame() Stackframe {
	return Stackframe{Obj: vm.Heap.Obj(vm.Heap.Refs.Ref(vm.frame))}
}

// Tears down the VM's heap.
func (vm *VM) Destroy() error {
	return vm.Heap.Destroy()
}
