package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

// Header holds the fields of the cartridge header this core consumes.
// Grounded on the teacher's internal/cart/header.go parser; trimmed to the
// fields spec.md §6 names as mandatory (CGB flag, type, ROM/RAM size codes,
// destination code) plus a few convenience decodes used for diagnostics.
type Header struct {
	Title       string
	CGBFlag     byte // 0x0143
	CartType    byte // 0x0147
	ROMSizeCode byte // 0x0148
	RAMSizeCode byte // 0x0149
	Destination byte // 0x014A

	ROMBanks       int
	RAMBanks       int
	GlobalChecksum uint16 // 0x014E-0x014F, big-endian
}

// ParseHeader decodes the cartridge header from a raw ROM image.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("cart: ROM too small (%d bytes) to contain header", len(rom))
	}
	title := strings.TrimRight(string(rom[0x0134:0x0144]), "\x00")
	h := &Header{
		Title:       title,
		CGBFlag:     rom[0x0143],
		CartType:    rom[0x0147],
		ROMSizeCode: rom[0x0148],
		RAMSizeCode: rom[0x0149],
		Destination: rom[0x014A],
	}
	var err error
	h.ROMBanks, err = romBankCount(h.ROMSizeCode)
	if err != nil {
		return nil, err
	}
	h.RAMBanks, err = ramBankCount(h.RAMSizeCode)
	if err != nil {
		return nil, err
	}
	h.GlobalChecksum = binaryChecksum(rom)
	return h, nil
}

// HeaderChecksumOK recomputes the header checksum at 0x014D the way the boot
// ROM does, for callers that want to validate a ROM image before loading it.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

func binaryChecksum(rom []byte) uint16 {
	return binary.BigEndian.Uint16(rom[0x014E:0x0150])
}

// romBankCount decodes the 0x0148 ROM size code into a bank count, per the
// standard table spec.md §6 names: {2,4,8,16,32,64,128,256,512,72,80,96}.
func romBankCount(code byte) (int, error) {
	switch code {
	case 0x00:
		return 2, nil
	case 0x01:
		return 4, nil
	case 0x02:
		return 8, nil
	case 0x03:
		return 16, nil
	case 0x04:
		return 32, nil
	case 0x05:
		return 64, nil
	case 0x06:
		return 128, nil
	case 0x07:
		return 256, nil
	case 0x08:
		return 512, nil
	case 0x52:
		return 72, nil
	case 0x53:
		return 80, nil
	case 0x54:
		return 96, nil
	default:
		return 0, fmt.Errorf("cart: unsupported ROM size code %#02x", code)
	}
}

// ramBankCount decodes the 0x0149 RAM size code per spec.md §6:
// {0,0,1,4,16,8} for codes 0x00..0x05.
func ramBankCount(code byte) (int, error) {
	switch code {
	case 0x00:
		return 0, nil
	case 0x01:
		return 0, nil // unofficial, listed for completeness; never produced by retail carts
	case 0x02:
		return 1, nil
	case 0x03:
		return 4, nil
	case 0x04:
		return 16, nil
	case 0x05:
		return 8, nil
	default:
		return 0, fmt.Errorf("cart: unsupported RAM size code %#02x", code)
	}
}

// cartTypeString names a cartridge type for New's unsupported-type error
// message; banking logic does not use it.
func cartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01, 0x02, 0x03:
		return "MBC1"
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return "MBC3"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5"
	default:
		return "unknown"
	}
}
