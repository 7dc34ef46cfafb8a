package irq

import (
	"testing"

	"nutk/kernel"
	"nutk/kernel/kfmt"
)

func TestTrampolineAddrs(t *testing.T) {
	defer func() {
		trampolineBaseFn = trampolineArenaBase
		trampolinesResolved = false
	}()

	trampolineBaseFn = func() uintptr {
		return 0x200000
	}
	trampolinesResolved = false

	addrs := TrampolineAddrs()

	for vector := 0; vector < vectorCount; vector++ {
		if exp := uintptr(0x200000 + vector*trampolineStubSize); addrs[vector] != exp {
			t.Fatalf("[vector %d] expected trampoline address 0x%x; got 0x%x", vector, exp, addrs[vector])
		}
	}

	// The addresses are resolved once and cached.
	trampolineBaseFn = func() uintptr {
		t.Fatal("expected the trampoline arena base to be resolved only once")
		return 0
	}

	TrampolineAddrs()
}

func TestDispatchInterrupt(t *testing.T) {
	defer func() {
		for vector := range handlers {
			handlers[vector] = nil
		}
	}()

	var gotVector uint32 = 0xffffffff
	HandleInterrupt(0x80, func() {
		gotVector = 0x80
	})

	dispatchInterrupt(0x80)

	if gotVector != 0x80 {
		t.Fatalf("expected the handler for vector 0x80 to run; got 0x%x", gotVector)
	}
}

func TestDispatchInterruptWithoutHandler(t *testing.T) {
	defer func() {
		panicFn = kfmt.Panic
	}()

	var panicErr *kernel.Error
	panicFn = func(e interface{}) {
		panicErr = e.(*kernel.Error)
	}

	dispatchInterrupt(13)

	if panicErr != errUnhandledVector {
		t.Fatalf("expected dispatch of an unhandled vector to panic; got %v", panicErr)
	}
}
