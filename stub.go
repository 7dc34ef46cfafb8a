package main

import "nutk/kernel/kmain"

// main makes a dummy call to the actual kernel main entrypoint function. It
// is intentionally defined to prevent the Go compiler from optimizing away the
// real kernel code.
//
// The rt0 assembly code never calls main; it jumps directly to kmain.Kmain
// after setting up a minimal g0 struct and the boot stack.
func main() {
	kmain.Kmain()
}
