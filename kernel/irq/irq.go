// Package irq owns the receiving side of interrupt delivery: the per-vector
// entry trampolines installed in the IDT and the dispatch of delivered
// vectors to registered kernel handlers.
package irq

import (
	"nutk/kernel"
	"nutk/kernel/kfmt"
)

// vectorCount is the number of interrupt vectors the CPU can deliver.
const vectorCount = 256

var (
	// trampolineAddrs caches the per-vector trampoline addresses. Built
	// lazily so the arena symbol is only referenced when a table is
	// actually constructed.
	trampolineAddrs     [vectorCount]uintptr
	trampolinesResolved bool

	// handlers maps each vector to its registered kernel handler.
	handlers [vectorCount]func()

	trampolineBaseFn = trampolineArenaBase
	panicFn          = kfmt.Panic

	errUnhandledVector = &kernel.Error{
		Code:    kernel.ErrCodeNullPointer,
		Module:  "irq",
		Message: "vector delivered with no registered handler",
	}
)

// TrampolineAddrs returns the entry stub address for every vector, indexed
// by vector number. The returned array is what the IDT builder installs.
func TrampolineAddrs() *[vectorCount]uintptr {
	if !trampolinesResolved {
		base := trampolineBaseFn()
		for vector := range trampolineAddrs {
			trampolineAddrs[vector] = base + uintptr(vector)*trampolineStubSize
		}
		trampolinesResolved = true
	}

	return &trampolineAddrs
}

// HandleInterrupt registers handler as the recipient of the given vector,
// replacing any previous registration.
func HandleInterrupt(vector uint8, handler func()) {
	handlers[vector] = handler
}

// dispatchInterrupt is invoked by the common trampoline path with the
// vector number pushed by the entry stub. A delivered vector with no
// handler is fatal; masking unwanted sources is the controller driver's
// job, not the dispatcher's.
func dispatchInterrupt(vector uint32) {
	handler := handlers[vector&0xff]
	if handler == nil {
		panicFn(errUnhandledVector)
		return
	}

	handler()
}
