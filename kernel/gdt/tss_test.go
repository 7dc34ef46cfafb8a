package gdt

import (
	"testing"

	"nutk/kernel/cpu"
)

func TestInitTSS(t *testing.T) {
	defer func() {
		stacksBaseFn = cpu.KernelStacksBase
	}()

	stacksBaseFn = func() uintptr {
		return 0x1000
	}

	InitTSS()

	expESP0 := [MaxCPUCount]uint32{0x1ffc, 0x2ffc, 0x3ffc, 0x4ffc}

	seen := make(map[uint32]uint8)
	for i := uint8(0); i < MaxCPUCount; i++ {
		rec := &tssRecords[i]

		if rec[tssOffESP0] != expESP0[i] {
			t.Errorf("[core %d] expected ring-0 stack pointer 0x%x; got 0x%x", i, expESP0[i], rec[tssOffESP0])
		}

		if owner, dup := seen[rec[tssOffESP0]]; dup {
			t.Errorf("[core %d] ring-0 stack pointer 0x%x already assigned to core %d", i, rec[tssOffESP0], owner)
		}
		seen[rec[tssOffESP0]] = i

		if rec[tssOffSS0] != uint32(KernelDS32) {
			t.Errorf("[core %d] expected ring-0 stack selector 0x%x; got 0x%x", i, KernelDS32, rec[tssOffSS0])
		}

		if rec[tssOffCS] != uint32(KernelCS32) {
			t.Errorf("[core %d] expected cs selector 0x%x; got 0x%x", i, KernelCS32, rec[tssOffCS])
		}

		for _, off := range []int{tssOffES, tssOffSS, tssOffDS, tssOffFS, tssOffGS} {
			if rec[off] != uint32(KernelDS32) {
				t.Errorf("[core %d] expected data selector 0x%x at word %d; got 0x%x", i, KernelDS32, off, rec[off])
			}
		}

		if exp := uint32(TSSSize) << 16; rec[tssOffIOMap] != exp {
			t.Errorf("[core %d] expected io map base word 0x%x; got 0x%x", i, exp, rec[tssOffIOMap])
		}

		// Rings 1 and 2 are unused; their stack fields must stay zero.
		for w := 3; w < tssOffES; w++ {
			if rec[w] != 0 {
				t.Errorf("[core %d] expected word %d to be zero; got 0x%x", i, w, rec[w])
			}
		}
	}
}

func TestActivateTSS(t *testing.T) {
	defer func() {
		loadTaskRegisterFn = cpu.LoadTaskRegister
		apicIDFn = cpu.APICID
	}()

	for id := uint8(0); id < MaxCPUCount; id++ {
		var loadedSelector uint16
		loadTaskRegisterFn = func(selector uint16) {
			loadedSelector = selector
		}
		apicIDFn = func() uint8 {
			return id
		}

		ActivateTSS()

		if exp := TSSSelector(id); loadedSelector != exp {
			t.Errorf("[core %d] expected task register selector 0x%x; got 0x%x", id, exp, loadedSelector)
		}
	}
}

func TestSetKernelStack(t *testing.T) {
	defer func() {
		stacksBaseFn = cpu.KernelStacksBase
		apicIDFn = cpu.APICID
	}()

	stacksBaseFn = func() uintptr {
		return 0x1000
	}
	apicIDFn = func() uint8 {
		return 2
	}

	InitTSS()
	SetKernelStack(0xdeadbeec)

	if sel, stackTop := RingZeroStack(2); sel != KernelDS32 || stackTop != 0xdeadbeec {
		t.Fatalf("expected ring-0 stack (0x%x, 0xdeadbeec); got (0x%x, 0x%x)", KernelDS32, sel, stackTop)
	}

	// Other cores keep their bring-up stack pointers.
	if _, stackTop := RingZeroStack(1); stackTop != 0x2ffc {
		t.Fatalf("expected core 1 ring-0 stack pointer 0x2ffc; got 0x%x", stackTop)
	}
}
