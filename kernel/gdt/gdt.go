// Package gdt builds the kernel's global descriptor table and the per-core
// task state segments embedded in it. The table is constructed exactly once
// by the bootstrap core and is immutable afterwards; every core still loads
// the shared table into its own per-core table-base register.
package gdt

import (
	"unsafe"

	"nutk/kernel"
	"nutk/kernel/cpu"
	"nutk/kernel/desc"
	"nutk/kernel/kfmt"
	"nutk/kernel/trace"
)

// MaxCPUCount is the number of cores this kernel supports. One TSS
// descriptor is reserved in the GDT for each.
const MaxCPUCount = 4

// Segment selectors. A selector is the byte offset of a descriptor in the
// table, so the layout below fixes the table's construction order.
const (
	// NullSelector refers to the mandatory all-zero descriptor at index 0.
	NullSelector = uint16(0x00)

	// KernelCS32 is the kernel's 32-bit code segment selector.
	KernelCS32 = uint16(0x08)

	// KernelDS32 is the kernel's 32-bit data segment selector.
	KernelDS32 = uint16(0x10)

	// KernelCS16 is the kernel's legacy 16-bit code segment selector.
	KernelCS16 = uint16(0x18)

	// KernelDS16 is the kernel's legacy 16-bit data segment selector.
	KernelDS16 = uint16(0x20)

	// UserCS32 is the ring-3 code segment selector.
	UserCS32 = uint16(0x28)

	// UserDS32 is the ring-3 data segment selector.
	UserDS32 = uint16(0x30)

	// TSSSelectorBase is the selector of core 0's TSS descriptor; core i
	// uses TSSSelectorBase + i*8.
	TSSSelectorBase = uint16(0x38)
)

// Descriptor flag bits (high-dword positions, see desc.Segment).
const (
	flagGranularity4K = uint32(0x800000)
	flagSegment32Bit  = uint32(0x400000)
	flagSegment16Bit  = uint32(0x000000)
	flagPresent       = uint32(0x008000)
	flagRing0         = uint32(0x000000)
	flagRing3         = uint32(0x006000)
	flagCodeData      = uint32(0x001000)
	flagSystem        = uint32(0x000000)
)

// Descriptor access-type nibble bits.
const (
	typeExecutable = uint8(0x8)
	typeGrowDown   = uint8(0x0)
	typeReadable   = uint8(0x2)
	typeWritable   = uint8(0x2)
	typeAccessed   = uint8(0x1)
)

// fixedEntryCount counts the null descriptor and the six kernel/user
// segment descriptors that precede the per-core TSS descriptors.
const fixedEntryCount = 7

// entryCount is the total number of descriptors in the table.
const entryCount = fixedEntryCount + MaxCPUCount

// segmentLimit is the 20-bit limit shared by all flat segments. Combined
// with 4 KiB granularity it spans the full 4 GiB address space.
const segmentLimit = uint32(0xfffff)

var (
	// table is the GDT backing memory. It is static so the address handed
	// to the CPU outlives the table's use, and 8-byte aligned by virtue of
	// its element type.
	table [entryCount]uint64

	// tablePtr is the pseudo-descriptor image referenced by the lgdt
	// instruction. Per-core register state but shared image.
	tablePtr desc.TablePtr

	loadGDTFn        = cpu.LoadGDT
	reloadSegmentsFn = cpu.ReloadSegments
	panicFn          = kfmt.Panic

	errNullDescriptor = &kernel.Error{
		Code:    kernel.ErrCodeUnauthorized,
		Module:  "gdt",
		Message: "null descriptor has been overwritten",
	}
)

// Init populates the segment descriptor table: kernel 32-bit code/data,
// legacy 16-bit code/data, user code/data and one TSS descriptor per
// supported core. Must be called exactly once, by the bootstrap core,
// before any core calls Load.
func Init() {
	trace.Emit(trace.EventSetGDTStart)

	for i := range table {
		table[i] = 0
	}

	kernelCodeFlags := flagGranularity4K | flagSegment32Bit | flagRing0 | flagPresent | flagCodeData
	kernelDataFlags := flagGranularity4K | flagSegment32Bit | flagRing0 | flagPresent | flagCodeData
	kernelCode16Flags := flagGranularity4K | flagSegment16Bit | flagRing0 | flagPresent | flagCodeData
	kernelData16Flags := flagGranularity4K | flagSegment16Bit | flagRing0 | flagPresent | flagCodeData
	userCodeFlags := flagGranularity4K | flagSegment32Bit | flagRing3 | flagPresent | flagCodeData
	userDataFlags := flagGranularity4K | flagSegment32Bit | flagRing3 | flagPresent | flagCodeData

	codeType := typeExecutable | typeReadable
	dataType := typeWritable | typeGrowDown

	table[KernelCS32/desc.Size] = desc.Segment(0, segmentLimit, codeType, kernelCodeFlags)
	table[KernelDS32/desc.Size] = desc.Segment(0, segmentLimit, dataType, kernelDataFlags)
	table[KernelCS16/desc.Size] = desc.Segment(0, segmentLimit, codeType, kernelCode16Flags)
	table[KernelDS16/desc.Size] = desc.Segment(0, segmentLimit, dataType, kernelData16Flags)
	table[UserCS32/desc.Size] = desc.Segment(0, segmentLimit, codeType, userCodeFlags)
	table[UserDS32/desc.Size] = desc.Segment(0, segmentLimit, dataType, userDataFlags)

	// TSS descriptors are system descriptors: busy/accessed executable
	// type, byte granularity, limit equal to the record size.
	tssFlags := flagSegment32Bit | flagRing0 | flagPresent | flagSystem
	tssType := typeExecutable | typeAccessed

	for i := 0; i < MaxCPUCount; i++ {
		sel := TSSSelector(uint8(i))
		table[sel/desc.Size] = desc.Segment(uint32(tssBase(uint8(i))), TSSSize, tssType, tssFlags)
	}

	trace.Emit(trace.EventSetGDTEnd, uint32(Base()), 0)
	kfmt.Printf("[gdt] table initialized at 0x%x\n", uint32(Base()))
}

// Load points the calling core's GDT register at the shared table and
// reloads the segment registers with the kernel selectors. Construction must
// have completed before any core calls Load.
func Load() {
	if table[0] != 0 {
		panicFn(errNullDescriptor)
		return
	}

	tablePtr = desc.NewTablePtr(entryCount, Base())
	loadGDTFn(uintptr(unsafe.Pointer(&tablePtr)))
	reloadSegmentsFn(KernelCS32, KernelDS32)
}

// Base returns the address of the first table entry.
func Base() uintptr {
	return uintptr(unsafe.Pointer(&table[0]))
}

// EntryCount returns the number of descriptors in the table.
func EntryCount() int {
	return entryCount
}

// Entry returns the descriptor stored at the given table index. Read-only;
// the table has no public mutation API after Init.
func Entry(index int) uint64 {
	return table[index]
}

// TSSSelector returns the GDT selector of the TSS descriptor owned by the
// given core.
func TSSSelector(cpuID uint8) uint16 {
	return TSSSelectorBase + uint16(cpuID)*desc.Size
}
