// Package emu is the single-threaded façade sequencing CPU, PPU, and timer
// per spec, replacing the teacher's internal/emu/emu.go "Milestone 0" test
// pattern stub with the real CPU-PPU-timer loop and external interfaces.
package emu

import (
	"github.com/gbdmg/core/internal/bus"
	"github.com/gbdmg/core/internal/cart"
	"github.com/gbdmg/core/internal/cpu"
	"github.com/gbdmg/core/internal/joypad"
)

// Button re-exports the joypad button vocabulary at the façade boundary.
type Button = joypad.Button

const (
	Right  = joypad.Right
	Left   = joypad.Left
	Up     = joypad.Up
	Down   = joypad.Down
	A      = joypad.A
	B      = joypad.B
	Select = joypad.Select
	Start  = joypad.Start
)

// Machine wires a cartridge, bus, and CPU into one runnable core.
type Machine struct {
	Bus *bus.Bus
	CPU *cpu.CPU
}

// New parses romImage's header, constructs the matching cartridge (or
// returns a fatal error for an unsupported MBC type, per spec §4.1), and
// wires it into a fresh Bus and CPU at the typical DMG post-boot state.
func New(romImage []byte) (*Machine, error) {
	c, err := cart.New(romImage)
	if err != nil {
		return nil, err
	}
	b := bus.New(c)
	cp := cpu.New(b)
	cp.ResetNoBoot()
	return &Machine{Bus: b, CPU: cp}, nil
}

// WithBootROM installs a boot ROM overlay and moves the CPU to PC=0 with
// SP=0xFFFE; the other registers keep the post-boot values New set
// (supplemented feature; see spec's expansion notes on boot ROM support).
func (m *Machine) WithBootROM(boot []byte) *Machine {
	m.Bus.SetBootROM(boot)
	m.CPU.PC = 0x0000
	m.CPU.SP = 0xFFFE
	return m
}

// RunFor executes CPU-PPU-timer steps in strict sequence until at least
// mCyclesBudget M-cycles have elapsed, writing any completed scanlines into
// fb (160*144*4 RGBA8, caller-owned). It never stops mid-instruction.
// Returns an error only if the CPU hits an illegal opcode.
func (m *Machine) RunFor(mCyclesBudget int, fb []byte) error {
	spent := 0
	for spent < mCyclesBudget {
		delta, err := m.CPU.Step()
		if err != nil {
			return err
		}
		m.Bus.Tick(delta, fb)
		spent += delta
	}
	return nil
}

// Press marks a button held, raising Joypad IRQ on a released->pressed edge
// within the currently selected row.
func (m *Machine) Press(b Button) { m.Bus.Joypad.Press(b) }

// Release marks a button not held.
func (m *Machine) Release(b Button) { m.Bus.Joypad.Release(b) }
