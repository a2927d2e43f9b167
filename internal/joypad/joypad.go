// Package joypad implements the active-low button matrix and its shadow
// register at 0xFF00, lifted out of the teacher's bus.go joypad fields
// (joypSelect/joypad/joypLower4/updateJoypadIRQ) into its own component.
package joypad

import "github.com/gbdmg/core/internal/interrupt"

// Button identifies one of the eight DMG inputs.
type Button int

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad tracks which buttons are held and the CPU-driven row selector.
type Joypad struct {
	selector byte // last written bits 4-5 of 0xFF00
	pressed  byte // bitmask of Button, 1 = held
	lower4   byte // last computed active-low lower nibble, for edge detection

	raise interrupt.Requester
}

// New builds a Joypad that raises interrupt.Joypad through raise on a
// released-to-pressed edge within the currently selected row.
func New(raise interrupt.Requester) *Joypad {
	j := &Joypad{lower4: 0x0F, raise: raise}
	return j
}

// Press marks a button held. Idempotent.
func (j *Joypad) Press(b Button) {
	j.pressed |= 1 << uint(b)
	j.recompute()
}

// Release marks a button not held. Idempotent.
func (j *Joypad) Release(b Button) {
	j.pressed &^= 1 << uint(b)
	j.recompute()
}

func (j *Joypad) recompute() {
	lower := byte(0x0F)
	if j.selector&0x10 == 0 { // P14 low selects D-Pad
		if j.pressed&(1<<uint(Right)) != 0 {
			lower &^= 0x01
		}
		if j.pressed&(1<<uint(Left)) != 0 {
			lower &^= 0x02
		}
		if j.pressed&(1<<uint(Up)) != 0 {
			lower &^= 0x04
		}
		if j.pressed&(1<<uint(Down)) != 0 {
			lower &^= 0x08
		}
	}
	if j.selector&0x20 == 0 { // P15 low selects buttons
		if j.pressed&(1<<uint(A)) != 0 {
			lower &^= 0x01
		}
		if j.pressed&(1<<uint(B)) != 0 {
			lower &^= 0x02
		}
		if j.pressed&(1<<uint(Select)) != 0 {
			lower &^= 0x04
		}
		if j.pressed&(1<<uint(Start)) != 0 {
			lower &^= 0x08
		}
	}
	// Falling bits (previously 1, now 0) are fresh released->pressed edges.
	if falling := j.lower4 &^ lower; falling != 0 && j.raise != nil {
		j.raise(interrupt.Joypad)
	}
	j.lower4 = lower
}

// Read returns the live 0xFF00 value: bits 6-7 fixed high, the selector
// bits as last written, and the computed active-low matrix in bits 0-3.
func (j *Joypad) Read() byte {
	return 0xC0 | (j.selector & 0x30) | j.lower4
}

// Write updates the row selector (bits 4-5) and recomputes the matrix, since
// changing the selected row can itself expose a fresh edge.
func (j *Joypad) Write(value byte) {
	j.selector = value & 0x30
	j.recompute()
}
