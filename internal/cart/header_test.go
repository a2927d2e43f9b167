package cart

import "testing"

func makeROM(cartType, romCode, ramCode byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:0x0144], []byte("TESTROM"))
	rom[0x0143] = 0x00
	rom[0x0147] = cartType
	rom[0x0148] = romCode
	rom[0x0149] = ramCode
	rom[0x014A] = 0x01
	return rom
}

func TestParseHeader(t *testing.T) {
	rom := makeROM(0x01, 0x03, 0x03)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Title != "TESTROM" {
		t.Fatalf("Title got %q want TESTROM", h.Title)
	}
	if h.ROMBanks != 16 {
		t.Fatalf("ROMBanks got %d want 16", h.ROMBanks)
	}
	if h.RAMBanks != 4 {
		t.Fatalf("RAMBanks got %d want 4", h.RAMBanks)
	}
}

func TestParseHeaderTooSmall(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 0x10)); err == nil {
		t.Fatalf("expected error for too-small ROM")
	}
}

func TestParseHeaderUnsupportedSizeCode(t *testing.T) {
	rom := makeROM(0x00, 0xFE, 0x00)
	if _, err := ParseHeader(rom); err == nil {
		t.Fatalf("expected error for unsupported ROM size code")
	}
}
