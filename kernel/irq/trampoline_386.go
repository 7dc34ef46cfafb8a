package irq

// trampolineStubSize is the stride of the trampoline arena: every vector's
// entry stub occupies exactly this many bytes so gate addresses can be
// computed instead of exported one by one.
const trampolineStubSize = 16

// trampolineArenaBase returns the address of vector 0's entry stub. The
// arena is emitted by the assembler as 256 fixed-size stubs; stub v pushes
// its vector number and jumps to the common dispatch path.
func trampolineArenaBase() uintptr
