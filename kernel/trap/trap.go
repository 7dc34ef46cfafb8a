// Package trap lets kernel code raise a software interrupt with a vector
// number chosen at run time. The trap instruction takes its vector as a
// compile-time immediate, so a runtime vector cannot be passed to it
// directly; the bridge is an arena of 256 single-vector stubs, one per
// possible immediate, selected by ordinary indexing.
package trap

import (
	"nutk/kernel"
	"nutk/kernel/trace"
)

// MaxInterruptLine is the highest vector number Raise accepts, inclusive.
const MaxInterruptLine = 255

// stubCount is the number of stubs in the arena, one per possible vector.
const stubCount = MaxInterruptLine + 1

var (
	// stubTable maps each vector to the invocation of its arena stub.
	// Populated once by Init during bring-up and never written again;
	// Raise reads it concurrently from any core.
	stubTable     [stubCount]func()
	stubsResolved bool

	trapBaseFn = trapArenaBase
	callStubFn = callStub

	// ErrVectorOutOfRange is returned by Raise for vectors above
	// MaxInterruptLine.
	ErrVectorOutOfRange = &kernel.Error{
		Code:    kernel.ErrCodeUnauthorized,
		Module:  "trap",
		Message: "interrupt vector exceeds the maximum supported line",
	}
)

// Init populates stubTable with one closure per arena stub. The arena has
// a fixed stride, so stub v lives at base + v*trapStubSize; the loop
// guarantees every vector has an entry without naming any of them. The
// bring-up path calls Init on the constructing core before any core may
// call Raise, making the table read-only by the time it is shared.
func Init() {
	if stubsResolved {
		return
	}

	base := trapBaseFn()
	for vector := range stubTable {
		addr := base + uintptr(vector)*trapStubSize
		stubTable[vector] = func() { callStubFn(addr) }
	}
	stubsResolved = true
}

// Raise synchronously executes the trap instruction for the given vector
// and returns once the handler chain returns control. Vectors above
// MaxInterruptLine are rejected without touching the hardware. Callable
// from any core once bring-up completes; Raise only reads the stub table.
func Raise(vector uint32) *kernel.Error {
	trace.Emit(trace.EventRaiseInterruptStart, vector)

	if vector > MaxInterruptLine {
		trace.Emit(trace.EventRaiseInterruptEnd, vector, ErrVectorOutOfRange.Code)
		return ErrVectorOutOfRange
	}

	stubTable[vector]()

	trace.Emit(trace.EventRaiseInterruptEnd, vector, kernel.ErrCodeNone)
	return nil
}
