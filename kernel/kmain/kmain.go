// Package kmain contains the kernel entry point reached once the assembly
// bootstrap code has switched to protected mode and set up a minimal stack.
package kmain

import (
	"nutk/device/video/console"
	"nutk/kernel/cpu"
	"nutk/kernel/hal"
	"nutk/kernel/kfmt"
	"nutk/kernel/trace"
)

var cons console.Vga

// Kmain is invoked by every core after the assembly bootstrap completes.
// The bootstrap core attaches the console and constructs the shared CPU
// tables; every core then loads its own table registers, enables interrupt
// handling and enters the idle loop. Kmain does not return.
func Kmain() {
	trace.Emit(trace.EventKickstartStart)

	if cpu.IsBootstrap() {
		cons.Init()
		kfmt.SetOutputSink(&cons)
	}

	kfmt.Printf("[kmain] core %d entering protected-mode bring-up\n", cpu.APICID())

	hal.BringUpCPU()

	trace.Emit(trace.EventKickstartEnd)

	cpu.EnableInterrupts()

	for {
		cpu.Halt()
	}
}
