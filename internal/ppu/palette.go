package ppu

// shade maps a 2-bit color index through a BGP/OBPn-style palette register
// to a 2-bit shade (0=lightest, 3=darkest).
func shade(palette byte, colorIndex byte) byte {
	return (palette >> (colorIndex * 2)) & 0x03
}

// DefaultShadeRGBA is the classic four-shade DMG green-grey ramp, index by
// shade value 0..3. Callers may substitute their own ramp since the core
// writes shade-mapped RGBA, not a fixed palette (spec's "caller-configurable
// 32-bit RGBA" requirement).
var DefaultShadeRGBA = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}
