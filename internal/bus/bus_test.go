package bus

import (
	"testing"

	"github.com/gbdmg/core/internal/cart"
)

func newTestBus() *Bus {
	return New(cart.NewROMOnly(make([]byte, 0x8000)))
}

func TestEchoRAMMirrorsWRAMBothWays(t *testing.T) {
	b := newTestBus()
	b.Write8(0xC010, 0x42)
	if got := b.Read8(0xE010); got != 0x42 {
		t.Fatalf("echo read got %#02x want 42", got)
	}
	b.Write8(0xE020, 0x99)
	if got := b.Read8(0xC020); got != 0x99 {
		t.Fatalf("wram after echo write got %#02x want 99", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus()
	if got := b.Read8(0xFEA0); got != 0xFF {
		t.Fatalf("unusable region got %#02x want FF", got)
	}
}

func TestIEAndIFMaskUpperBits(t *testing.T) {
	b := newTestBus()
	b.Write8(0xFFFF, 0xFF)
	if got := b.Read8(0xFFFF); got != 0xFF {
		t.Fatalf("IE readback got %#02x want FF (upper bits forced)", got)
	}
	b.Write8(0xFF0F, 0x3F)
	if got := b.Read8(0xFF0F); got != 0xFF {
		t.Fatalf("IF readback got %#02x want FF (upper bits forced, lower masked to 0x1F)", got)
	}
}

func TestOAMDMACopiesInstantaneously(t *testing.T) {
	b := newTestBus()
	for i := 0; i < 0xA0; i++ {
		b.Write8(0xC000+uint16(i), byte(i+1))
	}
	b.Write8(0xFF46, 0xC0) // source 0xC000
	for i := 0; i < 0xA0; i++ {
		if got := b.Read8(0xFE00 + uint16(i)); got != byte(i+1) {
			t.Fatalf("OAM[%d] got %#02x want %#02x", i, got, i+1)
		}
	}
}

func TestWord16LittleEndian(t *testing.T) {
	b := newTestBus()
	b.Write16(0xC000, 0xBEEF)
	if got := b.Read8(0xC000); got != 0xEF {
		t.Fatalf("low byte got %#02x want EF", got)
	}
	if got := b.Read8(0xC001); got != 0xBE {
		t.Fatalf("high byte got %#02x want BE", got)
	}
	if got := b.Read16(0xC000); got != 0xBEEF {
		t.Fatalf("Read16 got %#04x want BEEF", got)
	}
}
