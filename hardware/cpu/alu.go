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

// parity of the low byte of a result. The PF flag is set for even parity.
func parity(v uint8) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// setSZP sets the sign, zero and parity flags from a result. width is 8 or
// 16.
func (c *CPU) setSZP(v uint16, width int) {
	signBit := uint16(1) << (width - 1)
	c.Regs.setFlag(FlagS, v&signBit != 0)
	c.Regs.setFlag(FlagZ, v&(signBit<<1-1) == 0)
	c.Regs.setFlag(FlagP, parity(uint8(v)))
}

// add performs a+b+carry at the given width, setting all arithmetic flags.
func (c *CPU) add(a, b uint16, carry bool, width int) uint16 {
	var cin uint16
	if carry {
		cin = 1
	}
	mask := uint16(1)<<(width-1)<<1 - 1
	r := a&mask + b&mask + cin

	signBit := uint16(1) << (width - 1)
	c.Regs.setFlag(FlagC, uint32(a&mask)+uint32(b&mask)+uint32(cin) > uint32(mask))
	c.Regs.setFlag(FlagO, (a^r)&(b^r)&signBit != 0)
	c.Regs.setFlag(FlagA, (a^b^r)&0x10 != 0)
	c.setSZP(r&mask, width)
	return r & mask
}

// sub performs a-b-borrow at the given width, setting all arithmetic flags.
func (c *CPU) sub(a, b uint16, borrow bool, width int) uint16 {
	var bin uint16
	if borrow {
		bin = 1
	}
	mask := uint16(1)<<(width-1)<<1 - 1
	r := a&mask - b&mask - bin

	signBit := uint16(1) << (width - 1)
	c.Regs.setFlag(FlagC, uint32(b&mask)+uint32(bin) > uint32(a&mask))
	c.Regs.setFlag(FlagO, (a^b)&(a^r)&signBit != 0)
	c.Regs.setFlag(FlagA, (a^b^r)&0x10 != 0)
	c.setSZP(r&mask, width)
	return r & mask
}

// logic sets flags for the bitwise operations: carry and overflow cleared,
// auxiliary carry is undefined on the real part and cleared here. The
// validator masks it.
func (c *CPU) logic(r uint16, width int) uint16 {
	c.Regs.setFlag(FlagC, false)
	c.Regs.setFlag(FlagO, false)
	c.Regs.setFlag(FlagA, false)
	c.setSZP(r, width)
	mask := uint16(1)<<(width-1)<<1 - 1
	return r & mask
}

// aluOp dispatches the operation selected by the ALU group index (also the
// bits 3-5 of the ALU block opcodes). Returns the result; for CMP the
// result is discarded by the caller.
func (c *CPU) aluOp(op int, a, b uint16, width int) uint16 {
	switch op {
	case 0: // ADD
		return c.add(a, b, false, width)
	case 1: // OR
		return c.logic(a|b, width)
	case 2: // ADC
		return c.add(a, b, c.Regs.flag(FlagC), width)
	case 3: // SBB
		return c.sub(a, b, c.Regs.flag(FlagC), width)
	case 4: // AND
		return c.logic(a&b, width)
	case 5: // SUB
		return c.sub(a, b, false, width)
	case 6: // XOR
		return c.logic(a^b, width)
	case 7: // CMP
		c.sub(a, b, false, width)
		return a
	}
	return 0
}

// shift performs the rotate/shift group operation. count is taken mod 256
// as on the real 8088, which has no shift count masking.
func (c *CPU) shift(op int, v uint16, count int, width int) uint16 {
	mask := uint16(1)<<(width-1)<<1 - 1
	signBit := uint16(1) << (width - 1)
	v &= mask

	for i := 0; i < count; i++ {
		switch op {
		case 0: // ROL
			carry := v&signBit != 0
			v = (v << 1) & mask
			if carry {
				v |= 1
			}
			c.Regs.setFlag(FlagC, carry)
		case 1: // ROR
			carry := v&1 != 0
			v >>= 1
			if carry {
				v |= signBit
			}
			c.Regs.setFlag(FlagC, carry)
		case 2: // RCL
			carry := v&signBit != 0
			v = (v << 1) & mask
			if c.Regs.flag(FlagC) {
				v |= 1
			}
			c.Regs.setFlag(FlagC, carry)
		case 3: // RCR
			carry := v&1 != 0
			v >>= 1
			if c.Regs.flag(FlagC) {
				v |= signBit
			}
			c.Regs.setFlag(FlagC, carry)
		case 4, 6: // SHL (6 is the undocumented alias)
			c.Regs.setFlag(FlagC, v&signBit != 0)
			v = (v << 1) & mask
			c.setSZP(v, width)
		case 5: // SHR
			c.Regs.setFlag(FlagC, v&1 != 0)
			v >>= 1
			c.setSZP(v, width)
		case 7: // SAR
			c.Regs.setFlag(FlagC, v&1 != 0)
			sign := v & signBit
			v = v>>1 | sign
			c.setSZP(v, width)
		}
	}

	if count != 0 {
		// overflow is only defined for single-bit shifts; the 8088 computes
		// it on every iteration so the final value is from the last step
		switch op {
		case 0, 2: // ROL, RCL
			c.Regs.setFlag(FlagO, (v&signBit != 0) != c.Regs.flag(FlagC))
		case 1: // ROR
			c.Regs.setFlag(FlagO, (v&signBit != 0) != (v&(signBit>>1) != 0))
		case 3: // RCR
			c.Regs.setFlag(FlagO, (v&signBit != 0) != (v&(signBit>>1) != 0))
		case 4, 6: // SHL
			c.Regs.setFlag(FlagO, (v&signBit != 0) != c.Regs.flag(FlagC))
		case 5: // SHR
			c.Regs.setFlag(FlagO, v&(signBit>>1) != 0)
		case 7: // SAR
			c.Regs.setFlag(FlagO, false)
		}
	}

	return v
}
