// Package kfmt provides a minimal, allocation-free Printf implementation
// that can be used before the Go runtime is fully initialized, together with
// the kernel's panic facility.
package kfmt

import "io"

// maxNumBufSize defines the buffer size for formatting numbers. 32 digits
// fit any 64-bit value in any supported base.
const maxNumBufSize = 32

var (
	errMissingArg   = []byte("%!(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numFmtBuf [maxNumBufSize]byte

	// singleByte is a shared one-byte buffer used to emit individual
	// characters without triggering a slice allocation.
	singleByte = []byte{0}

	// earlyPrintBuffer captures Printf output emitted before a console
	// sink is attached via SetOutputSink.
	earlyPrintBuffer ringBuffer

	// outputSink is the io.Writer Printf sends its output to. While nil,
	// output is redirected to earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf to w and drains any
// output accumulated in the early print buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// Printf formats its arguments and writes the result to the active output
// sink. The supported verbs are a subset of the fmt package's:
//
//	%s	string or byte slice
//	%o	integer, base 8
//	%d	integer, base 10
//	%x	integer, base 16, lower-case
//	%t	"true" or "false"
//
// An optional decimal width may precede the verb. Strings and base-10
// integers shorter than the width are left-padded with spaces; base-8 and
// base-16 integers are left-padded with zeroes. Printf never allocates: it
// assumes the Go itables may not be initialized yet and only examines the
// built-in string, integer and bool types.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but writes the formatted output to w.
// A nil writer targets the early print buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		nextArgIndex int
		fmtLen       = len(format)
	)

	for i := 0; i < fmtLen; i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		// Scan the optional width.
		padLen := 0
		for i++; i < fmtLen && format[i] >= '0' && format[i] <= '9'; i++ {
			padLen = padLen*10 + int(format[i]-'0')
		}

		if i == fmtLen {
			doWrite(w, errNoVerb)
			break
		}

		switch format[i] {
		case '%':
			writeByte(w, '%')
			continue
		case 'd', 'o', 'x', 's', 't':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if nextArgIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[nextArgIndex]
		nextArgIndex++

		switch format[i] {
		case 'd':
			fmtInt(w, arg, 10, padLen)
		case 'o':
			fmtInt(w, arg, 8, padLen)
		case 'x':
			fmtInt(w, arg, 16, padLen)
		case 's':
			fmtString(w, arg, padLen)
		case 't':
			fmtBool(w, arg)
		}
	}

	if nextArgIndex < len(args) {
		doWrite(w, errExtraArg)
	}
}

// fmtBool prints the textual representation of a bool argument.
func fmtBool(w io.Writer, arg interface{}) {
	switch v := arg.(type) {
	case bool:
		if v {
			doWrite(w, trueValue)
		} else {
			doWrite(w, falseValue)
		}
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtString prints a string or byte-slice argument, left-padded with spaces
// up to padLen.
func fmtString(w io.Writer, arg interface{}, padLen int) {
	switch v := arg.(type) {
	case string:
		for i := padLen - len(v); i > 0; i-- {
			writeByte(w, ' ')
		}
		for i := 0; i < len(v); i++ {
			writeByte(w, v[i])
		}
	case []byte:
		for i := padLen - len(v); i > 0; i-- {
			writeByte(w, ' ')
		}
		doWrite(w, v)
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtInt prints an integer argument of any built-in integer type in the
// requested base. Base-10 values are left-padded with spaces, other bases
// with zeroes.
func fmtInt(w io.Writer, arg interface{}, base, padLen int) {
	var (
		sval     int64
		uval     uint64
		negative bool
	)

	switch v := arg.(type) {
	case uint8:
		uval = uint64(v)
	case uint16:
		uval = uint64(v)
	case uint32:
		uval = uint64(v)
	case uint64:
		uval = v
	case uint:
		uval = uint64(v)
	case uintptr:
		uval = uint64(v)
	case int8:
		sval = int64(v)
	case int16:
		sval = int64(v)
	case int32:
		sval = int64(v)
	case int64:
		sval = v
	case int:
		sval = int64(v)
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if sval < 0 {
		negative = true
		uval = uint64(-sval)
	} else if sval > 0 {
		uval = uint64(sval)
	}

	padChar := byte('0')
	if base == 10 {
		padChar = ' '
	}

	index := len(numFmtBuf)
	for {
		index--
		digit := byte(uval % uint64(base))
		if digit < 10 {
			numFmtBuf[index] = '0' + digit
		} else {
			numFmtBuf[index] = 'a' + digit - 10
		}

		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	if negative {
		index--
		numFmtBuf[index] = '-'
	}

	for pad := padLen - (len(numFmtBuf) - index); pad > 0; pad-- {
		writeByte(w, padChar)
	}

	doWrite(w, numFmtBuf[index:])
}

// writeByte emits a single byte through the shared one-byte buffer.
func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// doWrite sends b to w, falling back to the early print buffer while no
// sink is attached.
func doWrite(w io.Writer, b []byte) {
	if w == nil {
		w = &earlyPrintBuffer
	}
	w.Write(b)
}
