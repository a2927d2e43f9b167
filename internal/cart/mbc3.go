package cart

// MBC3 implements plain ROM/RAM banking (7-bit ROM bank, 2-bit RAM bank).
// RTC latch/registers are a structural stub per spec.md's Non-goals
// ("MBC2/3/5+ beyond structural stubs"): writes to the RTC-select range
// (RAM-bank values 0x08-0x0C) and the latch register (0x6000-0x7FFF) are
// accepted and ignored rather than rejected, so titles that merely probe for
// an RTC without depending on elapsed time still run. Grounded on the
// teacher's internal/cart/mbc3.go.
type MBC3 struct {
	rom []byte
	ram []byte

	romBanks int
	hasRAM   bool

	romBank    byte // 7 bits, 0 remapped to 1
	ramBank    byte // 0..3 when selecting RAM; RTC selects (0x08-0x0C) resolve to no RAM access
	ramEnable  bool
	rtcSelect  bool
}

// NewMBC3 builds an MBC3 cartridge with RTC registers stubbed out.
func NewMBC3(rom []byte, romBanks, ramSize int) *MBC3 {
	m := &MBC3{rom: rom, romBanks: romBanks, romBank: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
		m.hasRAM = true
	}
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank & 0x7F)
		if bank == 0 {
			bank = 1
		}
		if m.romBanks > 0 {
			bank &= m.romBanks - 1
		}
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.hasRAM || !m.ramEnable || m.rtcSelect {
			return 0xFF
		}
		off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x03 {
			m.ramBank = value & 0x03
			m.rtcSelect = false
		} else {
			// RTC register select (0x08-0x0C): no RTC backing, ignore reads/writes.
			m.rtcSelect = true
		}
	case addr < 0x8000:
		// RTC latch: no-op without an RTC implementation.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.hasRAM || !m.ramEnable || m.rtcSelect {
			return
		}
		off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}
