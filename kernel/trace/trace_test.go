package trace

import "testing"

func reset() {
	enabled = false
	cursor = 0
	timestampFn = func() uint64 { return 0 }
}

func TestEmitRecordLayout(t *testing.T) {
	defer reset()
	reset()

	timestampFn = func() uint64 { return 0x1122334455667788 }

	Emit(EventSetGDTEnd, 0xc0100000, 0)

	if buffer[0] != magic || buffer[1] != version {
		t.Fatalf("expected buffer header %x/%d; got %x/%d", magic, version, buffer[0], buffer[1])
	}

	exp := []uint32{uint32(EventSetGDTEnd), 0x55667788, 0x11223344, 0xc0100000, 0}
	for i, want := range exp {
		if got := buffer[headerWords+i]; got != want {
			t.Errorf("record word %d: expected %x; got %x", i, want, got)
		}
	}

	if cursor != headerWords+len(exp) {
		t.Errorf("expected cursor at %d; got %d", headerWords+len(exp), cursor)
	}
}

func TestEmitWithoutArgs(t *testing.T) {
	defer reset()
	reset()

	Emit(EventCPUSetupStart)

	if got := buffer[headerWords]; got != uint32(EventCPUSetupStart) {
		t.Errorf("expected event %d; got %d", EventCPUSetupStart, got)
	}

	if cursor != headerWords+3 {
		t.Errorf("expected cursor at %d; got %d", headerWords+3, cursor)
	}
}

func TestEmitWrapsPastHeader(t *testing.T) {
	defer reset()
	reset()

	// Fill the buffer to one word short of capacity, then emit a record
	// that cannot fit.
	Emit(EventKickstartStart)
	cursor = bufferWords - 1

	Emit(EventRaiseInterruptEnd, 42, 0)

	if cursor != headerWords+5 {
		t.Fatalf("expected wrapped cursor at %d; got %d", headerWords+5, cursor)
	}

	if got := buffer[headerWords]; got != uint32(EventRaiseInterruptEnd) {
		t.Errorf("expected wrapped record to start at the header; got event %d", got)
	}

	if buffer[0] != magic {
		t.Error("expected wrap-around to preserve the buffer header")
	}
}

func TestSnapshot(t *testing.T) {
	defer reset()
	reset()

	if Snapshot() != nil {
		t.Error("expected nil snapshot before the first event")
	}

	Emit(EventSetIDTStart)

	snap := Snapshot()
	if len(snap) != headerWords+3 {
		t.Fatalf("expected snapshot of %d words; got %d", headerWords+3, len(snap))
	}

	if snap[0] != magic || snap[headerWords] != uint32(EventSetIDTStart) {
		t.Error("expected snapshot to include header and record words")
	}
}
