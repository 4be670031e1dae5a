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

// decimal adjust after addition/subtraction. the AF/CF interplay follows
// the original microcode, including the corner case where AL overflows
// past 0x99.
func (c *CPU) execDAA(subtract bool) error {
	al := c.Regs.reg8(0)
	oldAL := al
	oldCF := c.Regs.flag(FlagC)

	if c.Regs.flag(FlagA) || al&0x0f > 9 {
		if subtract {
			al -= 6
		} else {
			al += 6
		}
		c.Regs.setFlag(FlagA, true)
	} else {
		c.Regs.setFlag(FlagA, false)
	}
	if oldCF || oldAL > 0x99 {
		if subtract {
			al -= 0x60
		} else {
			al += 0x60
		}
		c.Regs.setFlag(FlagC, true)
	} else {
		c.Regs.setFlag(FlagC, false)
	}

	c.Regs.setReg8(0, al)
	c.setSZP(uint16(al), 8)
	return c.cycles(4)
}

// ascii adjust after addition/subtraction.
func (c *CPU) execAAA(subtract bool) error {
	al := c.Regs.reg8(0)
	ah := c.Regs.reg8(4)

	if c.Regs.flag(FlagA) || al&0x0f > 9 {
		if subtract {
			al -= 6
			ah--
		} else {
			al += 6
			ah++
		}
		c.Regs.setFlag(FlagA, true)
		c.Regs.setFlag(FlagC, true)
	} else {
		c.Regs.setFlag(FlagA, false)
		c.Regs.setFlag(FlagC, false)
	}

	c.Regs.setReg8(0, al&0x0f)
	c.Regs.setReg8(4, ah)
	return c.cycles(4)
}

// AAM divides AL by an arbitrary base, imm 10 in the documented encoding.
// A zero base raises the divide fault like any other division.
func (c *CPU) execAAM() error {
	base, err := c.fetch()
	if err != nil {
		return err
	}
	if base == 0 {
		return c.interrupt(0, intrLatency-8-44)
	}

	al := c.Regs.reg8(0)
	c.Regs.setReg8(4, al/base)
	c.Regs.setReg8(0, al%base)
	c.setSZP(uint16(al%base), 8)
	return c.cycles(opcodes[0xd4].cycles)
}

// AAD multiplies AH by the base and folds it into AL.
func (c *CPU) execAAD() error {
	base, err := c.fetch()
	if err != nil {
		return err
	}
	al := c.Regs.reg8(0) + c.Regs.reg8(4)*base
	c.Regs.setReg8(0, al)
	c.Regs.setReg8(4, 0)
	c.setSZP(uint16(al), 8)
	return c.cycles(opcodes[0xd5].cycles)
}
