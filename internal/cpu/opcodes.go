package cpu

import "errors"

var errIllegal = errors.New("illegal opcode")

// execute runs one fetched (non-prefix) opcode and returns its T-cycle cost.
func (c *CPU) execute(op byte) (int, error) {
	// LD r,r' / LD r,(HL) / LD (HL),r / HALT, per teacher's (op>>3)&7, op&7 decode.
	if op >= 0x40 && op <= 0x7F {
		if op == 0x76 {
			c.halted = true
			return 4, nil
		}
		d := (op >> 3) & 7
		s := op & 7
		c.setReg8(d, c.reg8(s))
		if d == 6 || s == 6 {
			return 8, nil
		}
		return 4, nil
	}

	// ALU A,r / A,(HL) for 0x80-0xBF: op>>3&7 selects operation, op&7 selects operand.
	if op >= 0x80 && op <= 0xBF {
		return c.executeALU((op>>3)&7, c.reg8(op&7), op&7 == 6), nil
	}

	switch op {
	case 0x00: // NOP
		return 4, nil
	case 0x10: // STOP (one simplification: behaves as HALT, IME unaffected)
		c.fetch8() // STOP's second byte
		c.halted = true
		return 4, nil

	// LD r,d8
	case 0x06:
		c.B = c.fetch8()
		return 8, nil
	case 0x0E:
		c.C = c.fetch8()
		return 8, nil
	case 0x16:
		c.D = c.fetch8()
		return 8, nil
	case 0x1E:
		c.E = c.fetch8()
		return 8, nil
	case 0x26:
		c.H = c.fetch8()
		return 8, nil
	case 0x2E:
		c.L = c.fetch8()
		return 8, nil
	case 0x3E:
		c.A = c.fetch8()
		return 8, nil
	case 0x36:
		c.write8(c.getHL(), c.fetch8())
		return 12, nil

	// 16-bit loads
	case 0x01:
		c.setBC(c.fetch16())
		return 12, nil
	case 0x11:
		c.setDE(c.fetch16())
		return 12, nil
	case 0x21:
		c.setHL(c.fetch16())
		return 12, nil
	case 0x31:
		c.SP = c.fetch16()
		return 12, nil
	case 0x08: // LD (a16),SP
		c.write16(c.fetch16(), c.SP)
		return 20, nil

	case 0x02:
		c.write8(c.getBC(), c.A)
		return 8, nil
	case 0x12:
		c.write8(c.getDE(), c.A)
		return 8, nil
	case 0x0A:
		c.A = c.read8(c.getBC())
		return 8, nil
	case 0x1A:
		c.A = c.read8(c.getDE())
		return 8, nil

	case 0x22: // LD (HL+),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 8, nil
	case 0x2A: // LD A,(HL+)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 8, nil
	case 0x32: // LD (HL-),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 8, nil
	case 0x3A: // LD A,(HL-)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 8, nil

	case 0xE0: // LDH (a8),A
		c.write8(0xFF00+uint16(c.fetch8()), c.A)
		return 12, nil
	case 0xF0: // LDH A,(a8)
		c.A = c.read8(0xFF00 + uint16(c.fetch8()))
		return 12, nil
	case 0xE2: // LD (C),A
		c.write8(0xFF00+uint16(c.C), c.A)
		return 8, nil
	case 0xF2: // LD A,(C)
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 8, nil
	case 0xEA: // LD (a16),A
		c.write8(c.fetch16(), c.A)
		return 16, nil
	case 0xFA: // LD A,(a16)
		c.A = c.read8(c.fetch16())
		return 16, nil

	// Rotates on A (always clear Z) and flag ops
	case 0x07: // RLCA
		cv := (c.A >> 7) & 1
		c.A = c.A<<1 | cv
		c.setZNHC(false, false, false, cv == 1)
		return 4, nil
	case 0x0F: // RRCA
		cv := c.A & 1
		c.A = c.A>>1 | cv<<7
		c.setZNHC(false, false, false, cv == 1)
		return 4, nil
	case 0x17: // RLA
		cv := (c.A >> 7) & 1
		var cin byte
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A<<1 | cin
		c.setZNHC(false, false, false, cv == 1)
		return 4, nil
	case 0x1F: // RRA
		cv := c.A & 1
		var cin byte
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A>>1 | cin<<7
		c.setZNHC(false, false, false, cv == 1)
		return 4, nil
	case 0x27: // DAA
		a := c.A
		cf := c.F&flagC != 0
		if c.F&flagN == 0 {
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if c.F&flagH != 0 || (a&0x0F) > 9 {
				a += 0x06
			}
		} else {
			if cf {
				a -= 0x60
			}
			if c.F&flagH != 0 {
				a -= 0x06
			}
		}
		c.A = a
		c.setZNHC(c.A == 0, c.F&flagN != 0, false, cf)
		return 4, nil
	case 0x2F: // CPL
		c.A = ^c.A
		c.F = (c.F & (flagZ | flagC)) | flagN | flagH
		return 4, nil
	case 0x37: // SCF
		c.F = (c.F & flagZ) | flagC
		return 4, nil
	case 0x3F: // CCF
		cy := c.F&flagC == 0
		c.setZNHC(c.F&flagZ != 0, false, false, cy)
		return 4, nil

	// INC/DEC r8 via reg index, generalizing the teacher's per-register cases.
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		idx := (op >> 3) & 7
		old := c.reg8(idx)
		v := old + 1
		c.setReg8(idx, v)
		c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		if idx == 6 {
			return 12, nil
		}
		return 4, nil
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		idx := (op >> 3) & 7
		old := c.reg8(idx)
		v := old - 1
		c.setReg8(idx, v)
		c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		if idx == 6 {
			return 12, nil
		}
		return 4, nil

	// ALU immediate
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		return c.executeALU((op>>3)&7, c.fetch8(), false), nil

	// Jumps/calls/returns
	case 0xC3:
		c.PC = c.fetch16()
		return 16, nil
	case 0xE9:
		c.PC = c.getHL()
		return 4, nil
	case 0x18:
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12, nil
	case 0x20, 0x28, 0x30, 0x38:
		off := int8(c.fetch8())
		if c.condition(op) {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 12, nil
		}
		return 8, nil
	case 0xCD:
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 24, nil
	case 0xC9:
		c.PC = c.pop16()
		return 16, nil
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.IME = true
		return 16, nil
	case 0xC2, 0xCA, 0xD2, 0xDA:
		addr := c.fetch16()
		if c.condition(op) {
			c.PC = addr
			return 16, nil
		}
		return 12, nil
	case 0xC4, 0xCC, 0xD4, 0xDC:
		addr := c.fetch16()
		if c.condition(op) {
			c.push16(c.PC)
			c.PC = addr
			return 24, nil
		}
		return 12, nil
	case 0xC0, 0xC8, 0xD0, 0xD8:
		if c.condition(op) {
			c.PC = c.pop16()
			return 20, nil
		}
		return 8, nil
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		c.push16(c.PC)
		c.PC = uint16(op - 0xC7)
		return 16, nil

	// 16-bit INC/DEC, ADD HL,rr
	case 0x03:
		c.setBC(c.getBC() + 1)
		return 8, nil
	case 0x13:
		c.setDE(c.getDE() + 1)
		return 8, nil
	case 0x23:
		c.setHL(c.getHL() + 1)
		return 8, nil
	case 0x33:
		c.SP++
		return 8, nil
	case 0x0B:
		c.setBC(c.getBC() - 1)
		return 8, nil
	case 0x1B:
		c.setDE(c.getDE() - 1)
		return 8, nil
	case 0x2B:
		c.setHL(c.getHL() - 1)
		return 8, nil
	case 0x3B:
		c.SP--
		return 8, nil
	case 0x09, 0x19, 0x29, 0x39:
		var rhs uint16
		switch op {
		case 0x09:
			rhs = c.getBC()
		case 0x19:
			rhs = c.getDE()
		case 0x29:
			rhs = c.getHL()
		case 0x39:
			rhs = c.SP
		}
		hl := c.getHL()
		r := uint32(hl) + uint32(rhs)
		h := (hl&0x0FFF)+(rhs&0x0FFF) > 0x0FFF
		c.setHL(uint16(r))
		c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
		return 8, nil

	// Stack/SP arithmetic with the shared low-byte-carry flag rule.
	case 0xF8: // LD HL,SP+r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(uint16(int32(int16(c.SP)) + int32(off)))
		c.setZNHC(false, false, h, cy)
		return 12, nil
	case 0xF9:
		c.SP = c.getHL()
		return 8, nil
	case 0xE8: // ADD SP,r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.SP = uint16(int32(int16(c.SP)) + int32(off))
		c.setZNHC(false, false, h, cy)
		return 16, nil

	case 0xF3: // DI
		c.IME = false
		c.eiPending = false
		return 4, nil
	case 0xFB: // EI
		c.eiPending = true
		return 4, nil

	case 0xF5:
		c.push16(c.getAF())
		return 16, nil
	case 0xC5:
		c.push16(c.getBC())
		return 16, nil
	case 0xD5:
		c.push16(c.getDE())
		return 16, nil
	case 0xE5:
		c.push16(c.getHL())
		return 16, nil
	case 0xF1:
		c.setAF(c.pop16())
		return 12, nil
	case 0xC1:
		c.setBC(c.pop16())
		return 12, nil
	case 0xD1:
		c.setDE(c.pop16())
		return 12, nil
	case 0xE1:
		c.setHL(c.pop16())
		return 12, nil

	case 0xCB:
		return c.executeCB(c.fetch8())

	default:
		return 0, errIllegal
	}
}

// condition evaluates the cc field of a conditional jump/call/ret opcode:
// bits 4-3 of the opcode select NZ/Z/NC/C.
func (c *CPU) condition(op byte) bool {
	switch (op >> 3) & 3 {
	case 0:
		return c.F&flagZ == 0
	case 1:
		return c.F&flagZ != 0
	case 2:
		return c.F&flagC == 0
	default:
		return c.F&flagC != 0
	}
}

// executeALU applies one of the 8 ALU operations (add/adc/sub/sbc/and/xor/
// or/cp, selected the same way the teacher's 0x80-0xBF switch on op&7 does)
// to A and rhs, returning the instruction's T-cycle cost.
func (c *CPU) executeALU(opGroup byte, rhs byte, viaHL bool) int {
	var r byte
	var z, n, h, cy bool
	switch opGroup {
	case 0:
		r, z, n, h, cy = c.add8(c.A, rhs)
	case 1:
		r, z, n, h, cy = c.adc8(c.A, rhs, c.F&flagC != 0)
	case 2:
		r, z, n, h, cy = c.sub8(c.A, rhs)
	case 3:
		r, z, n, h, cy = c.sbc8(c.A, rhs, c.F&flagC != 0)
	case 4:
		r, z, n, h, cy = c.and8(c.A, rhs)
	case 5:
		r, z, n, h, cy = c.xor8(c.A, rhs)
	case 6:
		r, z, n, h, cy = c.or8(c.A, rhs)
	case 7:
		z, n, h, cy = c.cp8(c.A, rhs)
		r = c.A
	}
	if opGroup != 7 {
		c.A = r
	}
	c.setZNHC(z, n, h, cy)
	if viaHL {
		return 8
	}
	return 4
}

// executeCB runs one CB-prefixed opcode: bits 7-6 select the operation
// group (rotate/shift-swap, BIT, RES, SET), bits 5-3 select bit number or
// sub-op, bits 2-0 select the register/(HL) operand.
func (c *CPU) executeCB(cb byte) (int, error) {
	reg := cb & 7
	group := (cb >> 6) & 3
	y := (cb >> 3) & 7
	cycles := 8
	if reg == 6 {
		cycles = 16
	}

	switch group {
	case 0:
		v := c.reg8(reg)
		var cv byte
		switch y {
		case 0: // RLC
			cv = (v >> 7) & 1
			v = v<<1 | cv
		case 1: // RRC
			cv = v & 1
			v = v>>1 | cv<<7
		case 2: // RL
			cv = (v >> 7) & 1
			var cin byte
			if c.F&flagC != 0 {
				cin = 1
			}
			v = v<<1 | cin
		case 3: // RR
			cv = v & 1
			var cin byte
			if c.F&flagC != 0 {
				cin = 1
			}
			v = v>>1 | cin<<7
		case 4: // SLA
			cv = (v >> 7) & 1
			v <<= 1
		case 5: // SRA
			cv = v & 1
			v = v>>1 | v&0x80
		case 6: // SWAP
			v = v<<4 | v>>4
			c.setZNHC(v == 0, false, false, false)
			c.setReg8(reg, v)
			return cycles, nil
		case 7: // SRL
			cv = v & 1
			v >>= 1
		}
		c.setZNHC(v == 0, false, false, cv == 1)
		c.setReg8(reg, v)
		return cycles, nil
	case 1: // BIT y,r
		v := c.reg8(reg)
		bit := (v >> y) & 1
		c.F = (c.F & flagC) | flagH
		if bit == 0 {
			c.F |= flagZ
		}
		if reg == 6 {
			return 12, nil
		}
		return cycles, nil
	case 2: // RES y,r
		v := c.reg8(reg) &^ (1 << y)
		c.setReg8(reg, v)
		return cycles, nil
	default: // SET y,r
		v := c.reg8(reg) | (1 << y)
		c.setReg8(reg, v)
		return cycles, nil
	}
}
