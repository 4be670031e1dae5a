// This file is part of GopherXT.
//
// GopherXT is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherXT is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherXT.  If not, see <https://www.gnu.org/licenses/>.

package cpu

// group 3: TEST/NOT/NEG/MUL/IMUL/DIV/IDIV through the modrm reg field.
func (c *CPU) execGroup3(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	op := int(modrm>>3) & 0x07
	word := opcode&0x01 != 0

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	var v uint16
	if word {
		if v, err = c.readRM16(ea); err != nil {
			return err
		}
	} else {
		b, err := c.readRM8(ea)
		if err != nil {
			return err
		}
		v = uint16(b)
	}

	width := 8
	if word {
		width = 16
	}

	switch op {
	case 0, 1: // TEST rm,imm (1 is the undocumented alias)
		var imm uint16
		if word {
			if imm, err = c.fetch16(); err != nil {
				return err
			}
		} else {
			b, err := c.fetch()
			if err != nil {
				return err
			}
			imm = uint16(b)
		}
		c.logic(v&imm, width)
		return c.cycles(2)

	case 2: // NOT
		return c.writeGroupResult(ea, ^v, word)

	case 3: // NEG
		r := c.sub(0, v, false, width)
		return c.writeGroupResult(ea, r, word)

	case 4: // MUL
		return c.execMul(v, word, false)
	case 5: // IMUL
		return c.execMul(v, word, true)
	case 6: // DIV
		return c.execDiv(v, word, false)
	case 7: // IDIV
		return c.execDiv(v, word, true)
	}
	return nil
}

func (c *CPU) writeGroupResult(ea effAddr, v uint16, word bool) error {
	if !ea.isReg {
		if err := c.cycles(memWritePenalty); err != nil {
			return err
		}
	}
	if word {
		return c.writeRM16(ea, v)
	}
	return c.writeRM8(ea, uint8(v))
}

// execMul performs MUL/IMUL into DX:AX (or AH:AL). Carry and overflow are
// set when the upper half is significant; the other arithmetic flags are
// undefined on the real part and the validator masks them.
func (c *CPU) execMul(v uint16, word bool, signed bool) error {
	if word {
		var r uint32
		if signed {
			r = uint32(int32(int16(c.Regs.R[regAX])) * int32(int16(v)))
		} else {
			r = uint32(c.Regs.R[regAX]) * uint32(v)
		}
		c.Regs.R[regAX] = uint16(r)
		c.Regs.R[regDX] = uint16(r >> 16)

		var upperSignificant bool
		if signed {
			upperSignificant = int32(r) != int32(int16(uint16(r)))
		} else {
			upperSignificant = r>>16 != 0
		}
		c.Regs.setFlag(FlagC, upperSignificant)
		c.Regs.setFlag(FlagO, upperSignificant)
		return c.cycles(120)
	}

	var r uint16
	if signed {
		r = uint16(int16(int8(c.Regs.reg8(0))) * int16(int8(v)))
	} else {
		r = uint16(c.Regs.reg8(0)) * (v & 0xff)
	}
	c.Regs.R[regAX] = r

	var upperSignificant bool
	if signed {
		upperSignificant = int16(r) != int16(int8(uint8(r)))
	} else {
		upperSignificant = r>>8 != 0
	}
	c.Regs.setFlag(FlagC, upperSignificant)
	c.Regs.setFlag(FlagO, upperSignificant)
	return c.cycles(73)
}

// execDiv performs DIV/IDIV of DX:AX (or AX) by the operand. Quotient
// overflow and division by zero raise the type 0 interrupt with the
// original operands intact.
func (c *CPU) execDiv(v uint16, word bool, signed bool) error {
	divideFault := func() error {
		return c.interrupt(0, intrLatency-8-44)
	}

	if word {
		dividend := uint32(c.Regs.R[regDX])<<16 | uint32(c.Regs.R[regAX])
		if v == 0 {
			return divideFault()
		}
		if signed {
			q := int32(dividend) / int32(int16(v))
			if q > 0x7fff || q < -0x8000 {
				return divideFault()
			}
			c.Regs.R[regAX] = uint16(q)
			c.Regs.R[regDX] = uint16(int32(dividend) % int32(int16(v)))
		} else {
			q := dividend / uint32(v)
			if q > 0xffff {
				return divideFault()
			}
			c.Regs.R[regAX] = uint16(q)
			c.Regs.R[regDX] = uint16(dividend % uint32(v))
		}
		return c.cycles(155)
	}

	dividend := c.Regs.R[regAX]
	if v&0xff == 0 {
		return divideFault()
	}
	if signed {
		q := int16(dividend) / int16(int8(v))
		if q > 0x7f || q < -0x80 {
			return divideFault()
		}
		rem := int16(dividend) % int16(int8(v))
		c.Regs.setReg8(0, uint8(q))
		c.Regs.setReg8(4, uint8(rem))
	} else {
		q := dividend / (v & 0xff)
		if q > 0xff {
			return divideFault()
		}
		c.Regs.setReg8(0, uint8(q))
		c.Regs.setReg8(4, uint8(dividend%(v&0xff)))
	}
	return c.cycles(85)
}

// group 4: INC/DEC on a byte operand. The other reg field values are
// undefined and act like INC on the 8088's microcode shared row.
func (c *CPU) execGroup4() error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	op := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[0xfe].cycles + ea.cycles); err != nil {
		return err
	}

	v, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	carry := c.Regs.flag(FlagC)
	var r uint16
	if op == 1 {
		r = c.sub(uint16(v), 1, false, 8)
	} else {
		r = c.add(uint16(v), 1, false, 8)
	}
	c.Regs.setFlag(FlagC, carry)
	return c.writeGroupResult(ea, r, false)
}

// group 5: INC/DEC/CALL/JMP/PUSH on a word operand.
func (c *CPU) execGroup5() error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	op := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[0xff].cycles + ea.cycles); err != nil {
		return err
	}

	switch op {
	case 0, 1: // INC/DEC
		v, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		carry := c.Regs.flag(FlagC)
		var r uint16
		if op == 1 {
			r = c.sub(v, 1, false, 16)
		} else {
			r = c.add(v, 1, false, 16)
		}
		c.Regs.setFlag(FlagC, carry)
		return c.writeGroupResult(ea, r, true)

	case 2: // CALL near indirect
		target, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		if err = c.cycles(8); err != nil {
			return err
		}
		if err = c.push16(c.Regs.IP); err != nil {
			return err
		}
		c.Regs.IP = target
		c.flushQueue()
		return nil

	case 3: // CALL far indirect
		ip, err := c.read16(ea.seg, ea.offset)
		if err != nil {
			return err
		}
		cs, err := c.read16(ea.seg, ea.offset+2)
		if err != nil {
			return err
		}
		if err = c.cycles(16); err != nil {
			return err
		}
		if err = c.push16(c.Regs.S[segCS]); err != nil {
			return err
		}
		if err = c.push16(c.Regs.IP); err != nil {
			return err
		}
		c.Regs.IP = ip
		c.Regs.S[segCS] = cs
		c.flushQueue()
		return nil

	case 4: // JMP near indirect
		target, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		if err = c.cycles(8); err != nil {
			return err
		}
		c.Regs.IP = target
		c.flushQueue()
		return nil

	case 5: // JMP far indirect
		ip, err := c.read16(ea.seg, ea.offset)
		if err != nil {
			return err
		}
		cs, err := c.read16(ea.seg, ea.offset+2)
		if err != nil {
			return err
		}
		if err = c.cycles(12); err != nil {
			return err
		}
		c.Regs.IP = ip
		c.Regs.S[segCS] = cs
		c.flushQueue()
		return nil

	case 6, 7: // PUSH (7 is the undocumented alias)
		v, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		if err = c.cycles(5); err != nil {
			return err
		}
		return c.push16(v)
	}
	return nil
}
