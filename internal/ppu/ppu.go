// Package ppu models VRAM/OAM, the LCDC/STAT register set, and the mode
// state machine, grounded on the teacher's internal/ppu/{ppu.go,scanline.go,
// fetcher.go}. The teacher's fetcher was an isolated scaffold not wired into
// a live renderer; this package finishes that wiring and adds the sprite
// path and BGP/OBPn-to-RGBA mapping the teacher's version never reached.
package ppu

import "github.com/gbdmg/core/internal/interrupt"

// Mode is one of the four PPU modes.
type Mode byte

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeXFER   Mode = 3
)

// PPU renders one frame into a caller-owned RGBA8 framebuffer, 160*144*4 bytes.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc byte
	stat byte
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	dot        int  // T-cycles within the current line, 0..455
	statLine   bool // combined STAT interrupt predicate, edge-tracked
	windowLine int  // internal window line counter, advances only on lines the window was drawn

	shades [4][4]byte // shade index -> RGBA, defaults to DefaultShadeRGBA

	raise interrupt.Requester
}

// New builds a PPU that raises interrupts through raise.
func New(raise interrupt.Requester) *PPU {
	p := &PPU{raise: raise, shades: DefaultShadeRGBA}
	return p
}

// SetShades overrides the shade-index-to-RGBA ramp (spec's caller-configurable palette).
func (p *PPU) SetShades(shades [4][4]byte) { p.shades = shades }

func (p *PPU) Read(addr uint16) byte { return p.vramOrOAMRead(addr) }

func (p *PPU) vramOrOAMRead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return p.oam[addr-0xFE00]
	}
	return 0xFF
}

// VRAMRead is the CPU-facing VRAM read, blocked (returns 0xFF) during XFER.
func (p *PPU) VRAMRead(addr uint16) byte {
	if Mode(p.stat&0x03) == ModeXFER {
		return 0xFF
	}
	return p.vram[addr-0x8000]
}

// VRAMWrite is the CPU-facing VRAM write, dropped during XFER.
func (p *PPU) VRAMWrite(addr uint16, value byte) {
	if Mode(p.stat&0x03) == ModeXFER {
		return
	}
	p.vram[addr-0x8000] = value
}

// OAMRead is the CPU-facing OAM read, blocked during OAM scan and XFER.
func (p *PPU) OAMRead(addr uint16) byte {
	m := Mode(p.stat & 0x03)
	if m == ModeOAM || m == ModeXFER {
		return 0xFF
	}
	return p.oam[addr-0xFE00]
}

// OAMWrite is the CPU-facing OAM write, dropped during OAM scan and XFER.
func (p *PPU) OAMWrite(addr uint16, value byte) {
	m := Mode(p.stat & 0x03)
	if m == ModeOAM || m == ModeXFER {
		return
	}
	p.oam[addr-0xFE00] = value
}

// DMAWrite bypasses the mode gating above: OAM DMA writes land regardless of
// PPU mode, matching real hardware (the CPU itself is bus-locked during DMA).
func (p *PPU) DMAWrite(index int, value byte) { p.oam[index] = value }

// RegRead reads one of LCDC..WX (0xFF40-0xFF4B).
func (p *PPU) RegRead(addr uint16) byte {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

// RegWrite writes one of LCDC..WX. LY (0xFF44) is read-only from the CPU.
func (p *PPU) RegWrite(addr uint16, value byte) {
	switch addr {
	case 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if prev&0x80 != 0 && value&0x80 == 0 {
			p.ly = 0
			p.dot = 0
			p.windowLine = 0
			p.setMode(ModeHBlank)
		} else if prev&0x80 == 0 && value&0x80 != 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(ModeOAM)
		}
		p.evaluateStatLine()
	case 0xFF41:
		p.stat = (p.stat & 0x87) | (value & 0x78)
		p.evaluateStatLine()
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF45:
		p.lyc = value
		p.evaluateStatLine()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

// Enabled reports whether LCDC bit7 (LCD enable) is set.
func (p *PPU) Enabled() bool { return p.lcdc&0x80 != 0 }

// Tick advances the PPU by one M-cycle (4 T-cycles), writing completed
// scanlines into fb (a caller-owned 160*144*4 RGBA8 buffer).
func (p *PPU) Tick(fb []byte) {
	if !p.Enabled() {
		return
	}
	for t := 0; t < 4; t++ {
		p.tickOnce(fb)
	}
}

func (p *PPU) tickOnce(fb []byte) {
	p.dot++

	if p.ly < 144 {
		switch {
		case p.dot < 80:
			p.setMode(ModeOAM)
		case p.dot < 80+172:
			p.setMode(ModeXFER)
		default:
			if p.stat&0x03 == byte(ModeXFER) {
				p.renderScanline(fb)
			}
			p.setMode(ModeHBlank)
		}
	}

	if p.dot >= 456 {
		p.dot = 0
		p.ly++
		if p.ly == 144 {
			if p.raise != nil {
				p.raise(interrupt.VBlank)
			}
			p.setMode(ModeVBlank)
		} else if p.ly > 153 {
			p.ly = 0
			p.windowLine = 0
			p.setMode(ModeOAM)
		} else if p.ly < 144 {
			p.setMode(ModeOAM)
		}
	}
	p.evaluateStatLine()
}

func (p *PPU) setMode(mode Mode) {
	p.stat = (p.stat &^ 0x03) | byte(mode&0x03)
	p.evaluateStatLine()
}

// evaluateStatLine recomputes the combined STAT predicate and raises LCDStat
// only on a false->true transition, per spec's single rising-edge STAT line.
func (p *PPU) evaluateStatLine() {
	lycEq := p.ly == p.lyc
	if lycEq {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}
	mode := Mode(p.stat & 0x03)
	line := (lycEq && p.stat&0x40 != 0) ||
		(mode == ModeOAM && p.stat&0x20 != 0) ||
		(mode == ModeVBlank && p.stat&0x10 != 0) ||
		(mode == ModeHBlank && p.stat&0x08 != 0)

	if line && !p.statLine && p.raise != nil {
		p.raise(interrupt.LCDStat)
	}
	p.statLine = line
}

// renderScanline composes background, window, and sprite layers for the
// current LY into fb, per spec's pixel selection rules.
func (p *PPU) renderScanline(fb []byte) {
	ly := p.ly
	var bg, win [160]byte
	var windowDrawn bool

	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		bg = renderRow(p, mapBase, p.lcdc&0x10 != 0, p.scx, p.scy, ly)
	}

	wxStart := int(p.wx) - 7
	if p.lcdc&0x20 != 0 && ly >= p.wy && wxStart < 160 {
		windowDrawn = true
		mapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			mapBase = 0x9C00
		}
		win = renderWindowRow(p, mapBase, p.lcdc&0x10 != 0, wxStart, byte(p.windowLine))
	}

	tall := p.lcdc&0x04 != 0
	var sprites []spriteEntry
	if p.lcdc&0x02 != 0 {
		sprites = scanOAM(&p.oam, ly, tall)
	}

	for x := 0; x < 160; x++ {
		shadeIdx := byte(0)
		bgColor := byte(0)
		if p.lcdc&0x01 != 0 {
			bgColor = bg[x]
			if windowDrawn && x >= wxStart {
				bgColor = win[x]
			}
			shadeIdx = shade(p.bgp, bgColor)
		}

		if len(sprites) > 0 {
			for _, s := range sprites {
				left := int(s.x) - 8
				if x < left || x >= left+8 {
					continue
				}
				px := x - left
				ci := spriteRowColor(p, s, ly, tall, px)
				if ci == 0 {
					continue
				}
				if attrPriority(s.attr) && bgColor != 0 {
					continue
				}
				pal := p.obp0
				if attrPalette1(s.attr) {
					pal = p.obp1
				}
				shadeIdx = shade(pal, ci)
				break
			}
		}

		rgba := p.shades[shadeIdx]
		off := (x + int(ly)*160) * 4
		if off+4 <= len(fb) {
			copy(fb[off:off+4], rgba[:])
		}
	}

	if windowDrawn {
		p.windowLine++
	}
}
