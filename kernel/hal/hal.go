// Package hal sequences the per-core bring-up of the CPU's protected-mode
// tables: segment table, interrupt gate table and per-core task state.
package hal

import (
	"nutk/kernel/gdt"
	"nutk/kernel/idt"
	"nutk/kernel/irq"
	"nutk/kernel/trace"
	"nutk/kernel/trap"
)

var (
	// tablesConstructed flips once the bootstrap core has built the
	// shared tables; the remaining cores only load them.
	tablesConstructed bool

	gdtInitFn     = gdt.Init
	gdtLoadFn     = gdt.Load
	idtInitFn     = idt.Init
	idtLoadFn     = idt.Load
	tssInitFn     = gdt.InitTSS
	tssActivateFn = gdt.ActivateTSS
	trapInitFn    = trap.Init
	trampolinesFn = irq.TrampolineAddrs
)

// BringUpCPU performs protected-mode bring-up for the calling core. The
// first caller (the bootstrap core) constructs the shared descriptor
// tables and the software-interrupt stub table; every caller then loads
// the table-base registers and task register of its own core. Interrupts must stay disabled until BringUpCPU
// returns. There is no failure path: any inconsistency detected along the
// way goes through the fatal-error sink and does not return.
func BringUpCPU() {
	trace.Emit(trace.EventCPUSetupStart)

	if !tablesConstructed {
		gdtInitFn()
	}
	gdtLoadFn()

	if !tablesConstructed {
		idtInitFn(trampolinesFn())
		tssInitFn()
		trapInitFn()
		tablesConstructed = true
	}
	idtLoadFn()
	tssActivateFn()

	trace.Emit(trace.EventCPUSetupEnd)
}
