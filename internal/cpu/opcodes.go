package cpu

// execute fetches and runs one instruction, returning its M-cycle cost.
// All costs below are the device's T-cycle figures divided by 4.
func (c *CPU) execute() (int, error) {
	opPC := c.PC
	op := c.fetch8()

	if undefinedOpcodes[op] {
		return 0, &DecodeError{Opcode: op, PC: opPC}
	}

	switch op {
	case 0x00: // NOP
		return 1, nil

	// LD r,d8
	case 0x06:
		c.B = c.fetch8()
		return 2, nil
	case 0x0E:
		c.C = c.fetch8()
		return 2, nil
	case 0x16:
		c.D = c.fetch8()
		return 2, nil
	case 0x1E:
		c.E = c.fetch8()
		return 2, nil
	case 0x26:
		c.H = c.fetch8()
		return 2, nil
	case 0x2E:
		c.L = c.fetch8()
		return 2, nil
	case 0x3E:
		c.A = c.fetch8()
		return 2, nil

	// LD r,r' / LD (HL),r / LD r,(HL) / HALT
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47,
		0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F,
		0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57,
		0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F,
		0x60, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67,
		0x68, 0x69, 0x6A, 0x6B, 0x6C, 0x6D, 0x6E, 0x6F,
		0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		d := (op >> 3) & 7
		s := op & 7
		c.regSet(d, c.regGet(s))
		if d == 6 || s == 6 {
			return 2, nil
		}
		return 1, nil

	case 0x76: // HALT
		if c.bus.HasIRQ() {
			// A pending-and-enabled interrupt makes HALT a no-op.
		} else {
			c.halted = true
		}
		return 1, nil

	// 16-bit loads
	case 0x01:
		c.setBC(c.fetch16())
		return 3, nil
	case 0x11:
		c.setDE(c.fetch16())
		return 3, nil
	case 0x21:
		c.setHL(c.fetch16())
		return 3, nil
	case 0x31:
		c.SP = c.fetch16()
		return 3, nil
	case 0x08: // LD (a16),SP
		addr := c.fetch16()
		c.write16(addr, c.SP)
		return 5, nil

	case 0x36: // LD (HL),d8
		c.write8(c.getHL(), c.fetch8())
		return 3, nil

	case 0x02:
		c.write8(c.getBC(), c.A)
		return 2, nil
	case 0x12:
		c.write8(c.getDE(), c.A)
		return 2, nil
	case 0x0A:
		c.A = c.read8(c.getBC())
		return 2, nil
	case 0x1A:
		c.A = c.read8(c.getDE())
		return 2, nil

	case 0x22: // LD (HL+),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl + 1)
		return 2, nil
	case 0x2A: // LD A,(HL+)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl + 1)
		return 2, nil
	case 0x32: // LD (HL-),A
		hl := c.getHL()
		c.write8(hl, c.A)
		c.setHL(hl - 1)
		return 2, nil
	case 0x3A: // LD A,(HL-)
		hl := c.getHL()
		c.A = c.read8(hl)
		c.setHL(hl - 1)
		return 2, nil

	case 0xE0: // LDH (FF00+n),A
		n := uint16(c.fetch8())
		c.write8(0xFF00+n, c.A)
		return 3, nil
	case 0xF0: // LDH A,(FF00+n)
		n := uint16(c.fetch8())
		c.A = c.read8(0xFF00 + n)
		return 3, nil
	case 0xE2: // LD (FF00+C),A
		c.write8(0xFF00+uint16(c.C), c.A)
		return 2, nil
	case 0xF2: // LD A,(FF00+C)
		c.A = c.read8(0xFF00 + uint16(c.C))
		return 2, nil

	case 0xEA: // LD (a16),A
		addr := c.fetch16()
		c.write8(addr, c.A)
		return 4, nil
	case 0xFA: // LD A,(a16)
		addr := c.fetch16()
		c.A = c.read8(addr)
		return 4, nil

	// Rotates (accumulator variants always clear Z)
	case 0x07: // RLCA
		cy := (c.A >> 7) & 1
		c.A = c.A<<1 | cy
		c.setZNHC(false, false, false, cy == 1)
		return 1, nil
	case 0x0F: // RRCA
		cy := c.A & 1
		c.A = c.A>>1 | cy<<7
		c.setZNHC(false, false, false, cy == 1)
		return 1, nil
	case 0x17: // RLA
		cy := (c.A >> 7) & 1
		cin := byte(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A<<1 | cin
		c.setZNHC(false, false, false, cy == 1)
		return 1, nil
	case 0x1F: // RRA
		cy := c.A & 1
		cin := byte(0)
		if c.F&flagC != 0 {
			cin = 1
		}
		c.A = c.A>>1 | cin<<7
		c.setZNHC(false, false, false, cy == 1)
		return 1, nil

	case 0x27: // DAA
		a := c.A
		cf := c.F&flagC != 0
		if c.F&flagN == 0 {
			if cf || a > 0x99 {
				a += 0x60
				cf = true
			}
			if c.F&flagH != 0 || a&0x0F > 9 {
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
		return 1, nil
	case 0x2F: // CPL
		c.A = ^c.A
		c.F = (c.F & (flagZ | flagC)) | flagN | flagH
		return 1, nil
	case 0x37: // SCF
		c.F = (c.F & flagZ) | flagC
		return 1, nil
	case 0x3F: // CCF
		c.F = (c.F & (flagZ | flagC)) ^ flagC
		return 1, nil

	// INC/DEC 8-bit
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x3C:
		idx := (op >> 3) & 7
		old := c.regGet(idx)
		v := old + 1
		c.regSet(idx, v)
		c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 1, nil
	case 0x34:
		addr := c.getHL()
		old := c.read8(addr)
		v := old + 1
		c.write8(addr, v)
		c.setZNHC(v == 0, false, old&0x0F == 0x0F, c.F&flagC != 0)
		return 3, nil
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x3D:
		idx := (op >> 3) & 7
		old := c.regGet(idx)
		v := old - 1
		c.regSet(idx, v)
		c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 1, nil
	case 0x35:
		addr := c.getHL()
		old := c.read8(addr)
		v := old - 1
		c.write8(addr, v)
		c.setZNHC(v == 0, true, old&0x0F == 0x00, c.F&flagC != 0)
		return 3, nil

	// ALU reg/imm/(HL)
	case 0x80, 0x81, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87:
		r, z, n, h, cy := c.add8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0x88, 0x89, 0x8A, 0x8B, 0x8C, 0x8D, 0x8E, 0x8F:
		r, z, n, h, cy := c.adc8(c.A, c.regGet(op&7), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0x90, 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		r, z, n, h, cy := c.sub8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0x98, 0x99, 0x9A, 0x9B, 0x9C, 0x9D, 0x9E, 0x9F:
		r, z, n, h, cy := c.sbc8(c.A, c.regGet(op&7), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7:
		r, z, n, h, cy := c.and8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0xA8, 0xA9, 0xAA, 0xAB, 0xAC, 0xAD, 0xAE, 0xAF:
		r, z, n, h, cy := c.xor8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		r, z, n, h, cy := c.or8(c.A, c.regGet(op&7))
		c.A = r
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		z, n, h, cy := c.cp8(c.A, c.regGet(op&7))
		c.setZNHC(z, n, h, cy)
		return aluCycles(op), nil

	case 0xC6:
		r, z, n, h, cy := c.add8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xCE:
		r, z, n, h, cy := c.adc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xD6:
		r, z, n, h, cy := c.sub8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xDE:
		r, z, n, h, cy := c.sbc8(c.A, c.fetch8(), c.F&flagC != 0)
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xE6:
		r, z, n, h, cy := c.and8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xEE:
		r, z, n, h, cy := c.xor8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xF6:
		r, z, n, h, cy := c.or8(c.A, c.fetch8())
		c.A = r
		c.setZNHC(z, n, h, cy)
		return 2, nil
	case 0xFE:
		z, n, h, cy := c.cp8(c.A, c.fetch8())
		c.setZNHC(z, n, h, cy)
		return 2, nil

	// Control flow
	case 0xC3: // JP a16
		c.PC = c.fetch16()
		return 4, nil
	case 0xE9: // JP (HL)
		c.PC = c.getHL()
		return 1, nil
	case 0x18: // JR r8
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 3, nil
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		off := int8(c.fetch8())
		if c.condTaken(op) {
			c.PC = uint16(int32(c.PC) + int32(off))
			return 3, nil
		}
		return 2, nil

	case 0xCD: // CALL a16
		addr := c.fetch16()
		c.push16(c.PC)
		c.PC = addr
		return 6, nil
	case 0xC9: // RET
		c.PC = c.pop16()
		return 4, nil
	case 0xD9: // RETI
		c.PC = c.pop16()
		c.IME = true
		return 4, nil

	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF: // RST t
		c.push16(c.PC)
		c.PC = uint16(op & 0x38)
		return 4, nil

	case 0xC4, 0xCC, 0xD4, 0xDC: // CALL cc,a16
		addr := c.fetch16()
		if c.condTaken(op) {
			c.push16(c.PC)
			c.PC = addr
			return 6, nil
		}
		return 3, nil

	case 0xC0, 0xC8, 0xD0, 0xD8: // RET cc
		if c.condTaken(op) {
			c.PC = c.pop16()
			return 5, nil
		}
		return 2, nil

	case 0xC2, 0xCA, 0xD2, 0xDA: // JP cc,a16
		addr := c.fetch16()
		if c.condTaken(op) {
			c.PC = addr
			return 4, nil
		}
		return 3, nil

	// 16-bit INC/DEC, ADD HL,rr
	case 0x03:
		c.setBC(c.getBC() + 1)
		return 2, nil
	case 0x13:
		c.setDE(c.getDE() + 1)
		return 2, nil
	case 0x23:
		c.setHL(c.getHL() + 1)
		return 2, nil
	case 0x33:
		c.SP++
		return 2, nil
	case 0x0B:
		c.setBC(c.getBC() - 1)
		return 2, nil
	case 0x1B:
		c.setDE(c.getDE() - 1)
		return 2, nil
	case 0x2B:
		c.setHL(c.getHL() - 1)
		return 2, nil
	case 0x3B:
		c.SP--
		return 2, nil
	case 0x09, 0x19, 0x29, 0x39:
		var rr uint16
		switch op {
		case 0x09:
			rr = c.getBC()
		case 0x19:
			rr = c.getDE()
		case 0x29:
			rr = c.getHL()
		case 0x39:
			rr = c.SP
		}
		hl := c.getHL()
		r := uint32(hl) + uint32(rr)
		h := (hl&0x0FFF)+(rr&0x0FFF) > 0x0FFF
		c.setHL(uint16(r))
		c.setZNHC(c.F&flagZ != 0, false, h, r > 0xFFFF)
		return 2, nil

	case 0xF8: // LD HL,SP+r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.setHL(uint16(int32(c.SP) + int32(off)))
		c.setZNHC(false, false, h, cy)
		return 3, nil
	case 0xF9: // LD SP,HL
		c.SP = c.getHL()
		return 2, nil
	case 0xE8: // ADD SP,r8
		off := int8(c.fetch8())
		low := byte(c.SP & 0xFF)
		_, _, _, h, cy := c.add8(low, byte(off))
		c.SP = uint16(int32(c.SP) + int32(off))
		c.setZNHC(false, false, h, cy)
		return 4, nil

	case 0xF3: // DI
		c.IME = false
		c.eiPending = false
		return 1, nil
	case 0xFB: // EI
		c.eiPending = true
		return 1, nil

	case 0xCB:
		return c.executeCB()

	case 0xF5:
		c.push16(c.getAF())
		return 4, nil
	case 0xC5:
		c.push16(c.getBC())
		return 4, nil
	case 0xD5:
		c.push16(c.getDE())
		return 4, nil
	case 0xE5:
		c.push16(c.getHL())
		return 4, nil
	case 0xF1:
		c.setAF(c.pop16())
		return 3, nil
	case 0xC1:
		c.setBC(c.pop16())
		return 3, nil
	case 0xD1:
		c.setDE(c.pop16())
		return 3, nil
	case 0xE1:
		c.setHL(c.pop16())
		return 3, nil

	case 0x10: // STOP, treated as HALT (spec §13 decision)
		c.fetch8() // STOP is followed by a padding byte on real hardware
		c.halted = true
		return 1, nil
	}

	// Unreachable: every byte not in undefinedOpcodes is handled above.
	return 0, &DecodeError{Opcode: op, PC: opPC}
}

// aluCycles is 2 for the (HL) operand form (register index 6), 1
// otherwise.
func aluCycles(op byte) int {
	if op&7 == 6 {
		return 2
	}
	return 1
}

// condTaken evaluates the NZ/Z/NC/C condition encoded in bits 4-3 of a
// conditional opcode.
func (c *CPU) condTaken(op byte) bool {
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

func (c *CPU) executeCB() (int, error) {
	cb := c.fetch8()
	reg := cb & 7
	group := (cb >> 6) & 3
	y := (cb >> 3) & 7

	cycles := 2
	if reg == 6 {
		// BIT b,(HL) reads but never writes back, so it's one M-cycle
		// cheaper than the RLC/RES/SET/etc (HL) forms that do.
		if group == 1 {
			cycles = 3
		} else {
			cycles = 4
		}
	}

	switch group {
	case 0: // rotate/shift/swap
		v := c.regGet(reg)
		var cy byte
		switch y {
		case 0: // RLC
			cy = (v >> 7) & 1
			v = v<<1 | cy
		case 1: // RRC
			cy = v & 1
			v = v>>1 | cy<<7
		case 2: // RL
			cy = (v >> 7) & 1
			cin := byte(0)
			if c.F&flagC != 0 {
				cin = 1
			}
			v = v<<1 | cin
		case 3: // RR
			cy = v & 1
			cin := byte(0)
			if c.F&flagC != 0 {
				cin = 1
			}
			v = v>>1 | cin<<7
		case 4: // SLA
			cy = (v >> 7) & 1
			v <<= 1
		case 5: // SRA
			cy = v & 1
			v = v>>1 | v&0x80
		case 6: // SWAP
			v = v<<4 | v>>4
			c.setZNHC(v == 0, false, false, false)
			c.regSet(reg, v)
			return cycles, nil
		case 7: // SRL
			cy = v & 1
			v >>= 1
		}
		c.regSet(reg, v)
		c.setZNHC(v == 0, false, false, cy == 1)
	case 1: // BIT y,r
		v := c.regGet(reg)
		bit := (v >> y) & 1
		c.F = (c.F & flagC) | flagH
		if bit == 0 {
			c.F |= flagZ
		}
	case 2: // RES y,r
		c.regSet(reg, c.regGet(reg)&^(1<<y))
	case 3: // SET y,r
		c.regSet(reg, c.regGet(reg)|1<<y)
	}
	return cycles, nil
}
