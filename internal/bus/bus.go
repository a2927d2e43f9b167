// Package bus implements the address-dispatch table wiring cartridge, PPU,
// timer, joypad, and the IE/IF interrupt registers into one CPU-visible
// memory space. Grounded on the teacher's internal/bus/bus.go Read/Write
// switch, restructured around the separate timer/joypad/cart/ppu components
// this repo factors out (the teacher keeps timer/joypad state inline on Bus).
package bus

import (
	"io"

	"github.com/gbdmg/core/internal/cart"
	"github.com/gbdmg/core/internal/interrupt"
	"github.com/gbdmg/core/internal/joypad"
	"github.com/gbdmg/core/internal/ppu"
	"github.com/gbdmg/core/internal/timer"
)

// Bus wires CPU-visible address space to its backing components.
type Bus struct {
	Cart   cart.Cartridge
	PPU    *ppu.PPU
	Timer  *timer.Timer
	Joypad *joypad.Joypad

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ie byte // 0xFFFF
	iff byte // 0xFF0F, lower 5 bits used

	apuStub [0x30]byte // 0xFF10-0xFF3F: last-written-byte stub, no synthesis

	sb byte      // 0xFF01 serial data
	sc byte      // 0xFF02 serial control
	sw io.Writer // optional sink for completed serial bytes

	bootROM     []byte
	bootEnabled bool
}

// New wires a Bus around the given cartridge, constructing its own PPU,
// timer, and joypad with each raising interrupts into this Bus's IF register.
func New(c cart.Cartridge) *Bus {
	b := &Bus{Cart: c}
	raise := interrupt.Requester(func(s interrupt.Source) { b.SetIF(s, true) })
	b.PPU = ppu.New(raise)
	b.Timer = timer.New(raise)
	b.Joypad = joypad.New(raise)
	return b
}

// SetBootROM installs an optional boot ROM overlay for 0x0000-0x00FF,
// disabled by the first nonzero CPU write to 0xFF50 (supplemented feature, not in
// the distilled spec's cartridge/bus tables but present in the original
// hardware and in the teacher's bus.go).
func (b *Bus) SetBootROM(rom []byte) {
	b.bootROM = rom
	b.bootEnabled = len(rom) > 0
}

// SetSerialWriter installs an optional sink for completed serial transfers
// (supplemented feature; grounded on the teacher's Bus.sw/SetSerialWriter).
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }

// SetIF sets or clears one IF bit.
func (b *Bus) SetIF(s interrupt.Source, on bool) {
	if on {
		b.iff |= s.Mask()
	} else {
		b.iff &^= s.Mask()
	}
}

// IE returns the current IE register value (masked to 5 bits, upper 3 read
// back as 1 per spec).
func (b *Bus) IE() byte { return 0xE0 | b.ie }

// IF returns the current IF register value, same masking.
func (b *Bus) IF() byte { return 0xE0 | b.iff }

func (b *Bus) Read8(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 && len(b.bootROM) >= 0x100 {
			return b.bootROM[addr]
		}
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.PPU.VRAMRead(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr <= 0xFDFF:
		return b.wram[addr-0xE000]
	case addr <= 0xFE9F:
		return b.PPU.OAMRead(addr)
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | b.sc
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.Timer.Read(addr)
	case addr == 0xFF0F:
		return b.IF()
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.apuStub[addr-0xFF10]
	case addr >= 0xFF40 && addr <= 0xFF4B:
		if addr == 0xFF46 {
			return 0xFF
		}
		return b.PPU.RegRead(addr)
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.IE()
	}
	return 0xFF
}

func (b *Bus) Write8(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.Cart.Write(addr, value)
	case addr <= 0x9FFF:
		b.PPU.VRAMWrite(addr, value)
	case addr <= 0xBFFF:
		b.Cart.Write(addr, value)
	case addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr <= 0xFDFF:
		b.wram[addr-0xE000] = value
	case addr <= 0xFE9F:
		b.PPU.OAMWrite(addr, value)
	case addr <= 0xFEFF:
		// unusable, ignored
	case addr == 0xFF00:
		b.Joypad.Write(value)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			// Serial transfer completes instantaneously; no link partner is
			// modeled (supplemented feature beyond spec's in-scope surface,
			// grounded on the teacher's immediate-completion SC handling).
			if b.sw != nil {
				b.sw.Write([]byte{b.sb})
			}
			b.SetIF(interrupt.Serial, true)
			b.sc &^= 0x80
		}
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.Timer.Write(addr, value)
	case addr == 0xFF0F:
		b.iff = value & 0x1F
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.apuStub[addr-0xFF10] = value
	case addr == 0xFF46:
		b.triggerOAMDMA(value)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.RegWrite(addr, value)
	case addr == 0xFF50:
		if value != 0 {
			b.bootEnabled = false
		}
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value & 0x1F
	}
}

// Read16/Write16 are little-endian word accessors.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (b *Bus) Write16(addr uint16, value uint16) {
	b.Write8(addr, byte(value))
	b.Write8(addr+1, byte(value>>8))
}

// triggerOAMDMA copies 160 bytes from n*0x100 into OAM, modeled as
// instantaneous per spec's known simplification (the teacher models this as
// one byte per T-cycle; spec.md §9 explicitly downgrades it to a burst copy).
func (b *Bus) triggerOAMDMA(n byte) {
	src := uint16(n) << 8
	for i := 0; i < 0xA0; i++ {
		b.PPU.DMAWrite(i, b.Read8(src+uint16(i)))
	}
}

// Tick advances timer and PPU by mCycles, writing any completed scanlines
// into fb. Called by the façade after every CPU step per spec's strict
// CPU-PPU-timer ordering (spec §5).
func (b *Bus) Tick(mCycles int, fb []byte) {
	for i := 0; i < mCycles; i++ {
		for t := 0; t < 4; t++ {
			b.Timer.Tick()
		}
		b.PPU.Tick(fb)
	}
}
