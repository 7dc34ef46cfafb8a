// Package idt builds the kernel's interrupt descriptor table: one interrupt
// gate for each of the 256 vectors the CPU can deliver. Like the GDT, the
// table is constructed once by the bootstrap core and loaded by every core.
package idt

import (
	"unsafe"

	"nutk/kernel"
	"nutk/kernel/cpu"
	"nutk/kernel/desc"
	"nutk/kernel/gdt"
	"nutk/kernel/kfmt"
	"nutk/kernel/trace"
)

// gateCount is the number of interrupt vectors the CPU supports; the table
// carries a gate for every one of them.
const gateCount = 256

// Gate field values. Every vector gets a ring-0 32-bit interrupt gate:
// maskable interrupts are disabled on entry, and software dispatch from
// ring 3 is not allowed through the table.
const (
	gateTypeInterrupt32 = uint8(0x0e)
	gateFlagPresent     = uint8(0x80)
)

var (
	// table is the IDT backing memory, addressed by interrupt vector.
	table [gateCount]uint64

	// tablePtr is the pseudo-descriptor image referenced by the lidt
	// instruction.
	tablePtr desc.TablePtr

	loadIDTFn = cpu.LoadIDT
	panicFn   = kfmt.Panic

	errMissingGate = &kernel.Error{
		Code:    kernel.ErrCodeNullPointer,
		Module:  "idt",
		Message: "table contains a non-present gate",
	}
)

// Init populates one interrupt gate per vector, pointing gate v at the
// handler address handlers[v]. Must be called exactly once, by the
// bootstrap core, before any core calls Load.
func Init(handlers *[gateCount]uintptr) {
	trace.Emit(trace.EventSetIDTStart)

	for vector, handler := range handlers {
		table[vector] = desc.Gate(uint32(handler), gdt.KernelCS32, gateTypeInterrupt32, gateFlagPresent)
	}

	trace.Emit(trace.EventSetIDTEnd, uint32(Base()), 0)
	kfmt.Printf("[idt] table initialized at 0x%x\n", uint32(Base()))
}

// Load points the calling core's IDT register at the shared table.
// Construction must have completed before any core calls Load; a table with
// missing gates would triple-fault the machine on the first stray vector,
// so Load treats one as fatal.
func Load() {
	for vector := 0; vector < gateCount; vector++ {
		if _, _, _, flags := desc.GateFields(table[vector]); flags&gateFlagPresent == 0 {
			panicFn(errMissingGate)
			return
		}
	}

	tablePtr = desc.NewTablePtr(gateCount, Base())
	loadIDTFn(uintptr(unsafe.Pointer(&tablePtr)))
}

// Base returns the address of the first table entry.
func Base() uintptr {
	return uintptr(unsafe.Pointer(&table[0]))
}

// GateCount returns the number of gates in the table.
func GateCount() int {
	return gateCount
}

// Gate returns the gate descriptor for the given vector. Read-only; the
// table has no public mutation API after Init.
func Gate(vector int) uint64 {
	return table[vector]
}
