package interrupt

import "testing"

func TestPendingPriority(t *testing.T) {
	// Timer and Joypad both pending+enabled; Timer has higher priority.
	ie := Timer.Mask() | Joypad.Mask()
	iff := Timer.Mask() | Joypad.Mask()
	s, ok := Pending(ie, iff)
	if !ok || s != Timer {
		t.Fatalf("got %v ok=%v, want Timer", s, ok)
	}
}

func TestPendingNone(t *testing.T) {
	if _, ok := Pending(0xFF, 0x00); ok {
		t.Fatalf("expected no pending interrupt when IF is empty")
	}
}

func TestVectorsAndBits(t *testing.T) {
	cases := []struct {
		s      Source
		bit    uint
		vector uint16
	}{
		{VBlank, 0, 0x40},
		{LCDStat, 1, 0x48},
		{Timer, 2, 0x50},
		{Serial, 3, 0x58},
		{Joypad, 4, 0x60},
	}
	for _, c := range cases {
		if c.s.Bit() != c.bit {
			t.Fatalf("%v: bit got %d want %d", c.s, c.s.Bit(), c.bit)
		}
		if c.s.Vector() != c.vector {
			t.Fatalf("%v: vector got %#04x want %#04x", c.s, c.s.Vector(), c.vector)
		}
	}
}
