package trap

// trapStubSize is the stride of the trap stub arena: every vector's stub
// occupies exactly this many bytes so stub addresses can be computed from
// the vector number.
const trapStubSize = 8

// trapArenaBase returns the address of vector 0's trap stub. The arena is
// emitted by the assembler as 256 fixed-size stubs; stub v executes the
// trap instruction with immediate operand v and returns.
func trapArenaBase() uintptr

// callStub performs an indirect call to the stub at the given address. It
// returns once the trap handler chain returns control to the stub.
func callStub(addr uintptr)
