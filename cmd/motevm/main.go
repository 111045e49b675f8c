package main

import (
	"flag"
	"fmt"

	"github.com/motevm/motevm/pkg/components"
	"github.com/motevm/motevm/pkg/heap"
	"github.com/motevm/motevm/pkg/jvm"
	"github.com/motevm/motevm/pkg/monitor"
)

var (
	configPathFlag = flag.String("config", "vm-config.toml", "The path to the VM image configuration")
)

func main() {
	flag.Parse()

	monitor.SetTap(monitor.StderrTap)

	// A fatal error anywhere in the core surfaces as a panic. Convert
	// it into the device failure path: tag over the debug channel,
	// then halt.
	defer func() {
		if r := recover(); r != nil {
			monitor.PrintStr("PANIC!")
			monitor.PrintStr(fmt.Sprint(r))
			monitor.Exit(1)
		}
	}()

	conf, err := components.LoadConfig(*configPathFlag)
	if err != nil {
		fmt.Printf("Error reading VM configuration %s\n", err)
		return
	}

	components.Register("jvm", jvm.Init)
	if err := components.Init(conf.Motevm.Components); err != nil {
		fmt.Printf("Error initialising components %s\n", err)
		return
	}

	runListDemo()

	monitor.PrintROMStr("Done")
	monitor.Exit(0)
}

// Builds a five node linked list interleaved with garbage, pins only
// the head, collects, and walks the survivors over the debug channel.
func runListDemo() {
	h := heap.New()
	defer h.Destroy()

	alloc := func(val heap.Word) heap.Obj {
		obj, err := h.Mem.Alloc(1, 1)
		if err != nil {
			panic(err)
		}
		obj.SetInt(0, val)
		return obj
	}

	// Node ints end up in traversal order 4 2 0 1 3: evens prepend,
	// odds append.
	alloc(999) // garbage
	list := h.Refs.Pin(alloc(0).Ref())

	for i := 1; i < 5; i++ {
		alloc(999) // garbage
		node := h.Refs.Pin(alloc(heap.Word(i)).Ref())

		if i%2 == 0 {
			list = prependToList(h, list, node)
		} else {
			list = appendToList(h, list, node)
		}
	}

	monitor.PrintU16(uint16(h.Mem.FreeOffset()))
	h.GC()
	monitor.PrintU16(uint16(h.Mem.FreeOffset()))

	for finger := h.Refs.Ref(list); !finger.IsNil(); {
		node := h.Obj(finger)
		monitor.PrintU16(uint16(node.GetInt(0)))
		finger = node.GetRef(0)
	}

	monitor.PrintU32Hex(uint32(h.Mem.Checksum()))
}

func prependToList(h *heap.Heap, list, node heap.SafeRef) heap.SafeRef {
	newHead := h.Obj(h.Refs.Ref(node))
	newHead.SetRef(0, h.Refs.Ref(list))
	h.Refs.Drop(list)
	return node
}

func appendToList(h *heap.Heap, list, node heap.SafeRef) heap.SafeRef {
	finger := h.Obj(h.Refs.Ref(list))
	for !finger.GetRef(0).IsNil() {
		finger = h.Obj(finger.GetRef(0))
	}
	finger.SetRef(0, h.Refs.Ref(node))
	h.Refs.Drop(node)
	return list
}
