package kfmt

import "io"

// ringBufferSize defines the size of the ring buffer that stores Printf
// output emitted before a console sink is attached. It must be a power of 2.
const ringBufferSize = 2048

// ringBuffer buffers early Printf output until SetOutputSink drains it into
// a real console. When the buffer fills up the oldest bytes are dropped.
type ringBuffer struct {
	buffer         [ringBufferSize]byte
	rIndex, wIndex int
	full           bool
}

// Write appends p to the ring buffer, evicting the oldest bytes on overflow.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[rb.wIndex] = b
		rb.wIndex = (rb.wIndex + 1) & (ringBufferSize - 1)
		if rb.full {
			rb.rIndex = rb.wIndex
		} else if rb.rIndex == rb.wIndex {
			rb.full = true
		}
	}

	return len(p), nil
}

// Read reads up to len(p) buffered bytes into p, returning io.EOF once the
// buffer is drained.
func (rb *ringBuffer) Read(p []byte) (n int, err error) {
	if !rb.full && rb.rIndex == rb.wIndex {
		return 0, io.EOF
	}

	for n < len(p) {
		p[n] = rb.buffer[rb.rIndex]
		rb.rIndex = (rb.rIndex + 1) & (ringBufferSize - 1)
		rb.full = false
		n++

		if rb.rIndex == rb.wIndex {
			break
		}
	}

	return n, nil
}
