package jvm

import (
	"errors"

	"github.com/motevm/motevm/pkg/heap"
)

var (
	// The guest program loaded through a null reference. Raised by
	// the executors, not by the heap: the heap just reports a nil
	// ref and the opcode decides what that means.
	ErrNullReference = errors.New("null reference")

	ErrNoParentFrame = errors.New("return with no parent frame")
)

// Pushes an immediate.
func ExecSpush(vm *VM, v heap.Word) {
	vm.CurrentFrame().PushInt(v)
}

// Pops b, pops a, pushes a+b.
func ExecSadd(vm *VM) {
	f := vm.CurrentFrame()

	b := f.PopInt()
	a := f.PopInt()
	f.PushInt(a + b)
}

// Pops an index, pops an array reference, pushes the array's int field
// at that index.
func ExecSaload(vm *VM) {
	f := vm.CurrentFrame()

	idx := f.PopInt()
	ref := f.PopRef()
	if ref.IsNil() {
		panic(ErrNullReference)
	}

	array := vm.Heap.Obj(ref)
	val := array.GetInt(int(idx))

	// One mutating handle at a time: re-derive the frame now that we
	// are done with the array.
	vm.CurrentFrame().PushInt(val)
}

// Pops an int into local i.
func ExecSstore(vm *VM, i int) {
	f := vm.CurrentFrame()
	f.SetIntLocal(i, f.PopInt())
}

// Pushes int local i.
func ExecSload(vm *VM, i int) {
	f := vm.CurrentFrame()
	f.PushInt(f.IntLocal(i))
}

// Pops a ref into ref local i.
func ExecAstore(vm *VM, i int) {
	f := vm.CurrentFrame()
	f.SetRefLocal(i, f.PopRef())
}

// Pushes ref local i.
func ExecAload(vm *VM, i int) {
	f := vm.CurrentFrame()
	f.PushRef(f.RefLocal(i))
}

// Allocates a callee frame, links it to the current frame and makes it
// current. Returns heap.ErrOutOfMemory untouched; the interpreter may
// collect at this safe point and retry.
func ExecInvoke(vm *VM, localInts, maxIntStack, localRefs, maxRefStack int) error {
	callee, err := NewStackframe(vm.Heap.Mem, localInts, maxIntStack, localRefs, maxRefStack)
	if err != nil {
		return err
	}
	callee.SetParent(vm.Heap.Refs.Ref(vm.frame))

	calleePin := vm.Heap.Refs.Pin(callee.Obj.Ref())
	vm.Heap.Refs.Drop(vm.frame)
	vm.frame = calleePin
	return nil
}

// Unlinks the current frame and makes its parent current. The popped
// frame becomes garbage for the next collection.
func ExecReturn(vm *VM) {
	parent := vm.CurrentFrame().Parent()
	if parent.IsNil() {
		panic(ErrNoParentFrame)
	}

	parentPin := vm.Heap.Refs.Pin(parent)
	vm.Heap.Refs.Drop(vm.frame)
	vm.frame = parentPin
}
