package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"nutk/kernel"
	"nutk/kernel/cpu"
	"nutk/kernel/trace"
)

func TestPanic(t *testing.T) {
	defer func() {
		cpuHaltFn = cpu.Halt
		outputSink = nil
	}()

	var cpuHaltCalled bool
	cpuHaltFn = func() {
		cpuHaltCalled = true
	}

	t.Run("with kernel error", func(t *testing.T) {
		cpuHaltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		buf.Reset()

		err := &kernel.Error{Code: kernel.ErrCodeUnauthorized, Module: "test", Message: "panic test"}

		Panic(err)

		exp := "\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}

		snap := trace.Snapshot()
		if len(snap) < 4 || snap[len(snap)-4] != uint32(trace.EventPanic) || snap[len(snap)-1] != kernel.ErrCodeUnauthorized {
			t.Fatal("expected Panic to emit a trace event carrying the error code")
		}
	})

	t.Run("with string", func(t *testing.T) {
		cpuHaltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		buf.Reset()

		Panic("that escalated quickly")

		exp := "\n-----------------------------------\n[rt] unrecoverable error: that escalated quickly\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})

	t.Run("with generic error", func(t *testing.T) {
		cpuHaltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		buf.Reset()

		Panic(errors.New("generic failure"))

		exp := "\n-----------------------------------\n[rt] unrecoverable error: generic failure\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})

	t.Run("without error", func(t *testing.T) {
		cpuHaltCalled = false
		var buf bytes.Buffer
		SetOutputSink(&buf)
		buf.Reset()

		Panic(nil)

		exp := "\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !cpuHaltCalled {
			t.Fatal("expected cpu.Halt() to be called by Panic")
		}
	})
}
