package cart

// mbc1Mode selects how the secondary 2-bit register is interpreted, per
// spec.md §4.1's write to 0x6000-0x7FFF.
type mbc1Mode byte

const (
	mbc1Simple   mbc1Mode = 0
	mbc1Advanced mbc1Mode = 1
)

// MBC1 implements the MBC1 banking scheme: a 5-bit primary ROM-bank register
// (romBank, 0 remapped to 1) composed with a 2-bit secondary register that
// always extends the 0x4000-0x7FFF ROM bank and, in Advanced mode only, also
// selects the RAM bank and the 0x0000-0x3FFF ROM bank. Grounded on the teacher's
// internal/cart/mbc1.go; the secondary-register composition for >=1MB carts
// follows the published MBC1 behavior noted as an Open Question in spec.md §9
// (DESIGN.md records the resolution).
type MBC1 struct {
	rom []byte
	ram []byte

	romBanks int // total ROM banks, for masking per spec.md §3's invariant
	hasRAM   bool

	romBank    byte // 5-bit primary register, initialized to 1
	secondary  byte // 2-bit secondary register (bank2 / RAM bank)
	ramEnable  bool
	mode       mbc1Mode
}

// NewMBC1 builds an MBC1 cartridge over rom with ramSize bytes of external
// RAM (0 if the cartridge has none).
func NewMBC1(rom []byte, romBanks, ramSize int) *MBC1 {
	m := &MBC1{rom: rom, romBanks: romBanks, romBank: 1}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
		m.hasRAM = true
	}
	return m
}

// effectiveLowBank is the bank mapped at 0x0000-0x3FFF: always 0 in Simple
// mode, or the secondary register's high bits in Advanced mode.
func (m *MBC1) effectiveLowBank() int {
	if m.mode == mbc1Advanced {
		return int(m.secondary&0x03) << 5
	}
	return 0
}

// effectiveHighBank is the bank mapped at 0x4000-0x7FFF, composing the 5-bit
// primary register with the secondary register's high bits (both modes: the
// secondary register always feeds the upper switchable bank; only its effect
// on the *lower* bank differs by mode).
func (m *MBC1) effectiveHighBank() int {
	bank := int(m.romBank&0x1F) | (int(m.secondary&0x03) << 5)
	if m.romBanks > 0 {
		bank &= m.romBanks - 1
	}
	return bank
}

func (m *MBC1) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		off := m.effectiveLowBank()*0x4000 + int(addr)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr < 0x8000:
		off := m.effectiveHighBank()*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.hasRAM {
			return 0xFF
		}
		bank := 0
		if m.mode == mbc1Advanced {
			bank = int(m.secondary & 0x03)
		}
		off := bank*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case addr < 0x4000:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.secondary = value & 0x03
	case addr < 0x8000:
		m.mode = mbc1Mode(value & 0x01)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnable || !m.hasRAM {
			return
		}
		bank := 0
		if m.mode == mbc1Advanced {
			bank = int(m.secondary & 0x03)
		}
		off := bank*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}
