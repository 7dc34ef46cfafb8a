// Package trace implements the kernel's diagnostic event sink: a
// word-oriented, statically allocated buffer to which each module appends
// numbered events with integer payloads. The buffer is binary and meant to
// be extracted and decoded offline; it never passes through the console.
package trace

// Event identifies a traced kernel event.
type Event uint32

// Event identifiers. The numbering is part of the trace format consumed by
// the offline decoder and must stay stable.
const (
	EventKickstartStart      = Event(1)
	EventKickstartEnd        = Event(2)
	EventSetGDTStart         = Event(5)
	EventSetGDTEnd           = Event(6)
	EventSetIDTStart         = Event(7)
	EventSetIDTEnd           = Event(8)
	EventSetTSSStart         = Event(9)
	EventSetTSSEnd           = Event(10)
	EventCPUSetupStart       = Event(11)
	EventCPUSetupEnd         = Event(12)
	EventRaiseInterruptStart = Event(13)
	EventRaiseInterruptEnd   = Event(14)
	EventPanic               = Event(15)
)

const (
	// magic marks an initialized trace buffer for the offline decoder.
	magic = uint32(0x1aceac1d)

	// version is the trace format version.
	version = uint32(1)

	// headerWords is the number of words occupied by the buffer header.
	headerWords = 2

	// bufferWords is the trace buffer capacity in 32-bit words.
	bufferWords = 1024
)

var (
	// buffer is the trace backing memory. Records wrap past the header
	// when the buffer fills up; the decoder resynchronizes on event IDs.
	buffer [bufferWords]uint32

	cursor  int
	enabled bool

	// timestampFn supplies the 64-bit timestamp stored with each record.
	// There is no clock at bring-up time; the time-management module
	// replaces this once a timer source exists.
	timestampFn = func() uint64 { return 0 }
)

// Emit appends one event record to the trace buffer: the event identifier,
// the 64-bit timestamp split into two words, and the integer arguments.
// Emit never fails and never blocks; it is safe to call before any other
// kernel facility is initialized.
func Emit(event Event, args ...uint32) {
	if !enabled {
		initBuffer()
	}

	if cursor+3+len(args) > bufferWords {
		cursor = headerWords
	}

	buffer[cursor] = uint32(event)
	cursor++

	ts := timestampFn()
	buffer[cursor] = uint32(ts)
	buffer[cursor+1] = uint32(ts >> 32)
	cursor += 2

	for _, arg := range args {
		buffer[cursor] = arg
		cursor++
	}
}

// Snapshot returns the written portion of the trace buffer, header
// included. The trace extraction path hands this to the host-side decoder.
func Snapshot() []uint32 {
	if !enabled {
		return nil
	}
	return buffer[:cursor]
}

// SetTimestampSource replaces the timestamp source used for new records.
func SetTimestampSource(fn func() uint64) {
	timestampFn = fn
}

// initBuffer prepares the trace buffer header on first use.
func initBuffer() {
	for i := range buffer {
		buffer[i] = 0
	}

	buffer[0] = magic
	buffer[1] = version
	cursor = headerWords
	enabled = true
}
