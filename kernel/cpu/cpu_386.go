package cpu

var (
	cpuidFn = ID
)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution.
func Halt()

// LoadGDT loads the global descriptor table register with the 6-byte
// pseudo-descriptor stored at descAddr. The table-base register is per-core
// state; every core must issue its own load even when the backing table is
// shared.
func LoadGDT(descAddr uintptr)

// LoadIDT loads the interrupt descriptor table register with the 6-byte
// pseudo-descriptor stored at descAddr.
func LoadIDT(descAddr uintptr)

// LoadTaskRegister loads the task register with the supplied GDT selector.
func LoadTaskRegister(selector uint16)

// ReloadSegments reloads the data segment registers (DS, ES, FS, GS, SS)
// with dataSelector and then performs a far jump to reload CS with
// codeSelector, serializing the instruction stream.
func ReloadSegments(codeSelector, dataSelector uint16)

// KernelStacksBase returns the link-time address of the per-core kernel
// stack region (the _KERNEL_STACKS_BASE linker symbol).
func KernelStacksBase() uintptr

// ID returns information about the CPU and its features. It is implemented
// as a CPUID instruction with EAX=leaf and returns the values in EAX, EBX,
// ECX and EDX.
func ID(leaf uint32) (uint32, uint32, uint32, uint32)

// APICID returns the local APIC ID of the calling core. Cores are handed
// consecutive APIC IDs by the firmware starting with 0 for the bootstrap
// core, so the value doubles as the core index into per-core kernel state.
func APICID() uint8 {
	_, ebx, _, _ := cpuidFn(1)
	return uint8(ebx >> 24)
}

// IsBootstrap returns true if the calling core is the bootstrap core.
func IsBootstrap() bool {
	return APICID() == 0
}

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8
