package gdt

import (
	"unsafe"

	"nutk/kernel/cpu"
	"nutk/kernel/kfmt"
	"nutk/kernel/trace"
)

// TSSSize is the size of one hardware task state segment record in bytes.
const TSSSize = tssWords * 4

// tssWords is the record size in 32-bit words. The hardware layout is a
// fixed sequence of 32-bit fields; the record is modeled as a word array
// with explicit offsets instead of a struct so the wire format never depends
// on compiler layout decisions.
const tssWords = 26

// Word offsets of the TSS fields populated by this kernel. The remaining
// fields (previous task link, CR3, the general purpose register file, LDT)
// stay zero: hardware task switching is never used, the records only supply
// the privileged stack on ring transitions. The ring-1/ring-2 stack fields
// are stored but intentionally left zero until a privilege model needing
// them exists.
const (
	tssOffESP0 = 1
	tssOffSS0  = 2
	tssOffES   = 18
	tssOffCS   = 19
	tssOffSS   = 20
	tssOffDS   = 21
	tssOffFS   = 22
	tssOffGS   = 23

	// Word 25 holds a reserved 16-bit field in its low half and the
	// I/O-permission-map base offset in its high half.
	tssOffIOMap = 25
)

// KernelStackSize is the size of the per-core kernel entry stack carved out
// of the stack region below _KERNEL_STACKS_BASE.
const KernelStackSize = 4096

// wordSize is the machine word size; ESP0 points at the last word-aligned
// slot of each core's stack.
const wordSize = 4

var (
	// tssRecords holds one task state record per supported core. Core i
	// exclusively owns record i; after bring-up only the context-switch
	// path mutates a record, and only its owner's.
	tssRecords [MaxCPUCount][tssWords]uint32

	loadTaskRegisterFn = cpu.LoadTaskRegister
	stacksBaseFn       = cpu.KernelStacksBase
	apicIDFn           = cpu.APICID
)

// InitTSS populates the task state record of every supported core: ring-0
// stack selector and pointer, the default segment selectors installed on
// privilege transitions, and an I/O map base equal to the record size so all
// port access is denied outside ring 0. Called once, by the bootstrap core.
func InitTSS() {
	trace.Emit(trace.EventSetTSSStart)

	stacksBase := uint32(stacksBaseFn())

	for i := range tssRecords {
		rec := &tssRecords[i]
		for w := range rec {
			rec[w] = 0
		}

		rec[tssOffSS0] = uint32(KernelDS32)
		rec[tssOffESP0] = stacksBase + KernelStackSize*uint32(i+1) - wordSize

		rec[tssOffES] = uint32(KernelDS32)
		rec[tssOffCS] = uint32(KernelCS32)
		rec[tssOffSS] = uint32(KernelDS32)
		rec[tssOffDS] = uint32(KernelDS32)
		rec[tssOffFS] = uint32(KernelDS32)
		rec[tssOffGS] = uint32(KernelDS32)

		rec[tssOffIOMap] = uint32(TSSSize) << 16
	}

	trace.Emit(trace.EventSetTSSEnd, uint32(tssBase(0)), 0)
	kfmt.Printf("[gdt] tss records initialized at 0x%x\n", uint32(tssBase(0)))
}

// ActivateTSS loads the calling core's task register with its own TSS
// selector. Each core calls this once during bring-up, after InitTSS has
// completed on the bootstrap core.
func ActivateTSS() {
	loadTaskRegisterFn(TSSSelector(apicIDFn()))
}

// SetKernelStack updates the ring-0 stack pointer of the calling core's
// task state record. This is the only post-bring-up mutation of a TSS record
// and is reserved for the context-switch path.
func SetKernelStack(stackTop uint32) {
	tssRecords[apicIDFn()][tssOffESP0] = stackTop
}

// RingZeroStack returns the ring-0 stack selector and pointer stored in the
// given core's task state record.
func RingZeroStack(cpuID uint8) (selector uint16, stackTop uint32) {
	return uint16(tssRecords[cpuID][tssOffSS0]), tssRecords[cpuID][tssOffESP0]
}

// tssBase returns the address of the given core's task state record.
func tssBase(cpuID uint8) uintptr {
	return uintptr(unsafe.Pointer(&tssRecords[cpuID]))
}
