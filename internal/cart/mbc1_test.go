package cart

import "testing"

func newMBC1ROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b) // bank marker at offset 0 of each bank
	}
	return rom
}

func TestMBC1_RomBankSwitchAndZeroRemap(t *testing.T) {
	m := NewMBC1(newMBC1ROM(8), 8, 0)
	m.Write(0x2000, 0x00) // low5==0 must remap to 1
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("bank after writing 0 got %d want 1 (invariant 5)", got)
	}
	m.Write(0x2000, 0x05)
	if got := m.Read(0x4000); got != 5 {
		t.Fatalf("bank after writing 5 got %d want 5", got)
	}
}

func TestMBC1_RAMEnableGate(t *testing.T) {
	m := NewMBC1(newMBC1ROM(4), 4, 0x2000)
	// Reads are not gated by the enable register; fresh RAM reads 0x00.
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("RAM read before enable got %#02x want 00", got)
	}
	m.Write(0xA000, 0x42) // dropped, RAM disabled
	if got := m.Read(0xA000); got != 0x00 {
		t.Fatalf("write while disabled should be dropped")
	}
	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM read after enable got %#02x want 42", got)
	}
}

func TestMBC1_NoRAMAlwaysFF(t *testing.T) {
	m := NewMBC1(newMBC1ROM(2), 2, 0)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x99)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("cartridge with no RAM should always read FF, got %#02x", got)
	}
}

func TestMBC1_AdvancedModeRAMBank(t *testing.T) {
	m := NewMBC1(newMBC1ROM(4), 4, 4*0x2000)
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // advanced mode
	m.Write(0x4000, 0x02) // RAM bank 2
	m.Write(0xA000, 0x77)
	m.Write(0x4000, 0x00) // back to bank 0
	if got := m.Read(0xA000); got == 0x77 {
		t.Fatalf("bank 0 should not see bank 2's data")
	}
	m.Write(0x4000, 0x02)
	if got := m.Read(0xA000); got != 0x77 {
		t.Fatalf("RAM bank 2 got %#02x want 77", got)
	}
}
