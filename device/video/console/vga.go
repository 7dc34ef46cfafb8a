// Package console implements the VGA text-mode console the kernel logs to
// during bring-up. The console renders into the legacy text framebuffer at
// 0xB8000 and keeps the hardware cursor in sync through the CRT controller
// ports.
package console

import (
	"reflect"
	"unsafe"

	"nutk/kernel/cpu"
)

const (
	fbPhysAddr = uintptr(0xB8000)

	consWidth  = 80
	consHeight = 25

	// defaultAttr is light grey on black.
	defaultAttr = uint16(0x07)

	clearChar = byte(' ')

	// CRT controller ports and the cursor location register pair.
	crtAddrPort   = uint16(0x3d4)
	crtDataPort   = uint16(0x3d5)
	crtCursorHigh = uint8(0x0e)
	crtCursorLow  = uint8(0x0f)
)

// Vga is an 80x25 text-mode console. It implements io.Writer so it can be
// attached directly as the kfmt output sink.
type Vga struct {
	fb []uint16

	curX, curY uint16

	portWriteFn func(port uint16, val uint8)
}

// Init maps the console to the physical text framebuffer and clears it.
func (cons *Vga) Init() {
	if cons.fb == nil {
		cons.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
			Len:  consWidth * consHeight,
			Cap:  consWidth * consHeight,
			Data: fbPhysAddr,
		}))
	}

	if cons.portWriteFn == nil {
		cons.portWriteFn = cpu.PortWriteByte
	}

	clr := defaultAttr<<8 | uint16(clearChar)
	for i := range cons.fb {
		cons.fb[i] = clr
	}

	cons.curX, cons.curY = 0, 0
	cons.syncCursor()
}

// Dimensions returns the console width and height in characters.
func (cons *Vga) Dimensions() (uint16, uint16) {
	return consWidth, consHeight
}

// Write renders p at the cursor position, interpreting '\n' and '\r' and
// scrolling when the output runs past the last row. It never fails.
func (cons *Vga) Write(p []byte) (int, error) {
	for _, ch := range p {
		switch ch {
		case '\n':
			cons.curX = 0
			cons.curY++
		case '\r':
			cons.curX = 0
		default:
			cons.fb[cons.curY*consWidth+cons.curX] = defaultAttr<<8 | uint16(ch)
			cons.curX++
			if cons.curX == consWidth {
				cons.curX = 0
				cons.curY++
			}
		}

		if cons.curY == consHeight {
			cons.scrollUp()
			cons.curY = consHeight - 1
		}
	}

	cons.syncCursor()
	return len(p), nil
}

// scrollUp moves the console contents up one row and clears the last row.
func (cons *Vga) scrollUp() {
	for i := 0; i < (consHeight-1)*consWidth; i++ {
		cons.fb[i] = cons.fb[i+consWidth]
	}

	clr := defaultAttr<<8 | uint16(clearChar)
	for i := (consHeight - 1) * consWidth; i < consHeight*consWidth; i++ {
		cons.fb[i] = clr
	}
}

// syncCursor programs the hardware cursor location registers to match the
// console's cursor position.
func (cons *Vga) syncCursor() {
	pos := cons.curY*consWidth + cons.curX

	cons.portWriteFn(crtAddrPort, crtCursorHigh)
	cons.portWriteFn(crtDataPort, uint8(pos>>8))
	cons.portWriteFn(crtAddrPort, crtCursorLow)
	cons.portWriteFn(crtDataPort, uint8(pos))
}
