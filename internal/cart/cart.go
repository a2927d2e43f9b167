// Package cart implements cartridge header parsing and the MBC variants the
// bus dispatches ROM/external-RAM reads and writes to. Grounded on the
// teacher's internal/cart package: same Cartridge interface shape, same
// per-type constructor dispatch, generalized to surface a construction error
// per spec.md §7 instead of silently falling back to ROM-only.
package cart

import "fmt"

// Cartridge is the minimal interface the bus needs for ROM/RAM banking.
// Addresses are CPU addresses; the bus only ever dispatches ROM
// (0x0000-0x7FFF) and external RAM (0xA000-0xBFFF) ranges here.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// New decodes the cartridge header and returns the Cartridge implementation
// appropriate to its MBC type. An unsupported cartridge type is a fatal
// construction error per spec.md §4.1/§7 — it is surfaced to the caller
// rather than silently degraded to ROM-only.
func New(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	ramSize := h.RAMBanks * 0x2000
	switch h.CartType {
	case 0x00, 0x08, 0x09:
		return NewROMOnly(rom), nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.ROMBanks, ramSize), nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(rom, h.ROMBanks, ramSize), nil
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return NewMBC5(rom, h.ROMBanks, ramSize), nil
	default:
		return nil, fmt.Errorf("cart: unsupported cartridge type %#02x (%s)", h.CartType, cartTypeString(h.CartType))
	}
}
