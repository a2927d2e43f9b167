package emu

import "testing"

func makeHeaderOnlyROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:0x0144], []byte("TEST"))
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0x00 // 32KiB, 2 banks
	rom[0x0149] = 0x00
	return rom
}

func TestNewRejectsUnsupportedCartType(t *testing.T) {
	rom := makeHeaderOnlyROM()
	rom[0x0147] = 0xFF
	if _, err := New(rom); err == nil {
		t.Fatalf("expected an error for unsupported cartridge type")
	}
}

func TestRunForExecutesAtLeastBudgetCycles(t *testing.T) {
	rom := makeHeaderOnlyROM()
	// post-boot PC starts at 0x0100; fill with NOPs.
	for i := 0x100; i < 0x8000; i++ {
		rom[i] = 0x00
	}
	m, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fb := make([]byte, 160*144*4)
	if err := m.RunFor(10, fb); err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if m.CPU.PC < 0x100+10 {
		t.Fatalf("expected PC to have advanced past at least 10 NOPs, got %#04x", m.CPU.PC)
	}
}

func TestPressReleaseRoundTrip(t *testing.T) {
	rom := makeHeaderOnlyROM()
	m, err := New(rom)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Bus.Joypad.Write(0x20) // select D-Pad row
	m.Press(Up)
	if m.Bus.Joypad.Read()&0x04 != 0 {
		t.Fatalf("Up should read 0 (pressed) in D-Pad row")
	}
	m.Release(Up)
	if m.Bus.Joypad.Read()&0x04 == 0 {
		t.Fatalf("Up should read 1 (released) after release")
	}
}
