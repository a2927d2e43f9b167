package joypad

import (
	"testing"

	"github.com/gbdmg/core/internal/interrupt"
)

func TestUnselectedRowReadsAllOnes(t *testing.T) {
	j := New(nil)
	j.Write(0x30) // both rows deselected
	j.Press(A)
	j.Press(Up)
	if got := j.Read(); got&0x0F != 0x0F {
		t.Fatalf("deselected rows should read 1s, got %#02x", got)
	}
}

func TestDPadRowReflectsPresses(t *testing.T) {
	j := New(nil)
	j.Write(0x20) // select D-Pad (P14 low)
	j.Press(Right)
	if got := j.Read(); got&0x01 != 0 {
		t.Fatalf("Right should read 0 (pressed) in D-Pad row, got %#02x", got)
	}
	j.Release(Right)
	if got := j.Read(); got&0x01 == 0 {
		t.Fatalf("Right should read 1 (released) after release, got %#02x", got)
	}
}

func TestPressTriggersJoypadIRQOnEdge(t *testing.T) {
	fired := 0
	j := New(func(s interrupt.Source) {
		if s == interrupt.Joypad {
			fired++
		}
	})
	j.Write(0x20) // select D-Pad
	j.Press(Down)
	if fired != 1 {
		t.Fatalf("expected one IRQ on first press, got %d", fired)
	}
	j.Press(Down) // already pressed, no new edge
	if fired != 1 {
		t.Fatalf("idempotent press should not re-fire, got %d", fired)
	}
}

func TestUnselectedButtonPressDoesNotFireIRQ(t *testing.T) {
	fired := 0
	j := New(func(s interrupt.Source) { fired++ })
	j.Write(0x10) // select buttons row only (P15 low), D-Pad deselected
	j.Press(Up)   // D-Pad button, but D-Pad row not selected
	if fired != 0 {
		t.Fatalf("press on unselected row should not fire IRQ, got %d", fired)
	}
}
