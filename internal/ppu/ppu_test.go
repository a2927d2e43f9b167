package ppu

import (
	"testing"

	"github.com/gbdmg/core/internal/interrupt"
)

func TestModeSequencePerScanline(t *testing.T) {
	p := New(nil)
	p.RegWrite(0xFF40, 0x80) // LCD on
	fb := make([]byte, 160*144*4)

	if Mode(p.RegRead(0xFF41)&0x03) != ModeOAM {
		t.Fatalf("expected OAM mode at line start")
	}
	for i := 0; i < 20; i++ { // 80 T-cycles = 20 M-cycles
		p.Tick(fb)
	}
	if Mode(p.RegRead(0xFF41)&0x03) != ModeXFER {
		t.Fatalf("expected XFER mode after 80 T-cycles")
	}
	for i := 0; i < 43; i++ { // 172 T-cycles = 43 M-cycles
		p.Tick(fb)
	}
	if Mode(p.RegRead(0xFF41)&0x03) != ModeHBlank {
		t.Fatalf("expected HBlank mode after OAM+XFER")
	}
}

func TestVBlankIRQFiresOnceAtLine144(t *testing.T) {
	fired := 0
	p := New(func(s interrupt.Source) {
		if s == interrupt.VBlank {
			fired++
		}
	})
	p.RegWrite(0xFF40, 0x80)
	fb := make([]byte, 160*144*4)
	for i := 0; i < 114*144; i++ { // 456 T-cycles/line = 114 M-cycles, 144 visible lines
		p.Tick(fb)
	}
	if fired != 1 {
		t.Fatalf("expected exactly one VBlank IRQ entering line 144, got %d", fired)
	}
}

func TestLYCStatIRQRisingEdgeOnly(t *testing.T) {
	fired := 0
	p := New(func(s interrupt.Source) {
		if s == interrupt.LCDStat {
			fired++
		}
	})
	p.RegWrite(0xFF45, 0) // LYC=0, already matches LY=0 at reset
	p.RegWrite(0xFF41, 0x40)
	p.RegWrite(0xFF40, 0x80)
	if fired != 1 {
		t.Fatalf("expected exactly one rising-edge STAT IRQ, got %d", fired)
	}
}

func TestTileDecodeBitOrder(t *testing.T) {
	p := New(nil)
	// Tile 1's row 0 bytes, 0x8000-addressed: lo at 0x8010, hi at 0x8011.
	p.VRAMWrite(0x8010, 0b10110000) // lo
	p.VRAMWrite(0x8011, 0b11100000) // hi
	p.VRAMWrite(0x9800, 1) // tilemap entry selects tile 1

	var q fifo
	f := newTileFetcher(p, &q, true)
	f.fetch(0x9800, 0)

	want := []byte{3, 2, 3, 1, 0, 0, 0, 0} // bit(hi,7-k)<<1 | bit(lo,7-k)
	for k, w := range want {
		got, ok := q.Pop()
		if !ok || got != w {
			t.Fatalf("pixel %d: got %d want %d", k, got, w)
		}
	}
}
