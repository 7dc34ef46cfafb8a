// Package desc encodes and decodes the 8-byte hardware descriptor records
// stored in the GDT and IDT. The bit layouts are a hardware contract; the
// pack/unpack functions below reproduce them bit-for-bit instead of relying
// on the compiler's native struct layout.
package desc

// Size is the size of a descriptor record in bytes.
const Size = 8

// PtrSize is the size of the pseudo-descriptor image loaded into the
// per-core table-base registers.
const PtrSize = 6

// Segment packs a segment descriptor:
//
//	low dword : base[15:0]<<16 | limit[15:0]
//	high dword: base[31:24] | limit[19:16] | flags | type[3:0]<<8 | base[23:16]
//
// The flags value carries the present/privilege/descriptor-type bits in
// bits [15:12] and the granularity/operand-size/L/AVL bits in bits [23:20];
// all other flag bits are masked off.
func Segment(base, limit uint32, accessType uint8, flags uint32) uint64 {
	lo := (base&0xffff)<<16 | limit&0xffff

	hi := (base >> 16) & 0xff
	hi |= uint32(accessType&0xf) << 8
	hi |= flags & 0x00f0f000
	hi |= limit & 0xf0000
	hi |= base & 0xff000000

	return uint64(lo) | uint64(hi)<<32
}

// SegmentFields unpacks a segment descriptor produced by Segment, recovering
// the original base, limit, type and flag values exactly.
func SegmentFields(entry uint64) (base, limit uint32, accessType uint8, flags uint32) {
	lo := uint32(entry)
	hi := uint32(entry >> 32)

	base = lo>>16 | (hi&0xff)<<16 | hi&0xff000000
	limit = lo&0xffff | hi&0xf0000
	accessType = uint8(hi >> 8 & 0xf)
	flags = hi & 0x00f0f000
	return base, limit, accessType, flags
}

// Gate packs an interrupt gate descriptor:
//
//	low dword : selector<<16 | handler[15:0]
//	high dword: handler[31:16] | flags[7:4]<<8 | type[3:0]<<8
//
// The selector is the code segment the CPU switches to when the gate fires;
// flags carries the present bit and DPL in its high nibble.
func Gate(handler uint32, selector uint16, gateType, flags uint8) uint64 {
	lo := uint32(selector)<<16 | handler&0xffff

	hi := handler & 0xffff0000
	hi |= uint32(flags&0xf0) << 8
	hi |= uint32(gateType&0x0f) << 8

	return uint64(lo) | uint64(hi)<<32
}

// GateFields unpacks a gate descriptor produced by Gate.
func GateFields(entry uint64) (handler uint32, selector uint16, gateType, flags uint8) {
	lo := uint32(entry)
	hi := uint32(entry >> 32)

	handler = lo&0xffff | hi&0xffff0000
	selector = uint16(lo >> 16)
	gateType = uint8(hi>>8) & 0x0f
	flags = uint8(hi>>8) & 0xf0
	return handler, selector, gateType, flags
}

// TablePtr is the in-memory image of the pseudo-descriptor loaded by the
// lgdt/lidt instructions: a 16-bit limit (table byte length minus one)
// followed by the 32-bit table base address, with no padding. A plain Go
// struct would insert two bytes of padding after the limit, so the image is
// serialized into a byte array instead.
type TablePtr [PtrSize]byte

// NewTablePtr builds the pseudo-descriptor for a table of entryCount 8-byte
// descriptors starting at base. The base must reference memory that outlives
// the table's use.
func NewTablePtr(entryCount int, base uintptr) TablePtr {
	limit := uint16(entryCount*Size - 1)

	var p TablePtr
	p[0] = byte(limit)
	p[1] = byte(limit >> 8)
	p[2] = byte(base)
	p[3] = byte(base >> 8)
	p[4] = byte(base >> 16)
	p[5] = byte(base >> 24)
	return p
}

// Limit returns the encoded table byte length minus one.
func (p *TablePtr) Limit() uint16 {
	return uint16(p[0]) | uint16(p[1])<<8
}

// Base returns the encoded table base address.
func (p *TablePtr) Base() uint32 {
	return uint32(p[2]) | uint32(p[3])<<8 | uint32(p[4])<<16 | uint32(p[5])<<24
}
