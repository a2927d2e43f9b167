package cart

// ROMOnly implements a cartridge with no bank switching and no external RAM
// (header types 0x00/0x08/0x09). Grounded on the teacher's
// internal/cart/rom_only.go.
type ROMOnly struct {
	rom []byte
}

// NewROMOnly wraps rom as a fixed, unbanked cartridge image.
func NewROMOnly(rom []byte) *ROMOnly { return &ROMOnly{rom: rom} }

func (c *ROMOnly) Read(addr uint16) byte {
	if addr < 0x8000 {
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return 0xFF
	}
	// 0xA000-0xBFFF: no external RAM on this cartridge.
	return 0xFF
}

// Write is a no-op: plain ROM has no control registers and no RAM to enable.
func (c *ROMOnly) Write(addr uint16, value byte) {}
