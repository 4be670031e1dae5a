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

// execString runs the string instructions, with or without a repeat
// prefix. A repeated instruction samples the interrupt lines between
// iterations; when one is pending the instruction winds back so the repeat
// resumes after the handler returns.
func (c *CPU) execString(opcode uint8) error {
	word := opcode&0x01 != 0
	var delta uint16 = 1
	if word {
		delta = 2
	}
	if c.Regs.flag(FlagD) {
		delta = -delta
	}

	srcSeg := c.operandSeg(segDS)

	one := func() error {
		switch opcode &^ 0x01 {
		case 0xa4: // MOVS
			if word {
				v, err := c.read16(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				if err := c.write16(segES, c.Regs.R[regDI], v); err != nil {
					return err
				}
			} else {
				v, err := c.busRead(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				if err := c.busWrite(segES, c.Regs.R[regDI], v); err != nil {
					return err
				}
			}
			c.Regs.R[regSI] += delta
			c.Regs.R[regDI] += delta
			return c.cycles(2)

		case 0xa6: // CMPS
			if word {
				a, err := c.read16(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				b, err := c.read16(segES, c.Regs.R[regDI])
				if err != nil {
					return err
				}
				c.sub(a, b, false, 16)
			} else {
				a, err := c.busRead(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				b, err := c.busRead(segES, c.Regs.R[regDI])
				if err != nil {
					return err
				}
				c.sub(uint16(a), uint16(b), false, 8)
			}
			c.Regs.R[regSI] += delta
			c.Regs.R[regDI] += delta
			return c.cycles(6)

		case 0xaa: // STOS
			if word {
				if err := c.write16(segES, c.Regs.R[regDI], c.Regs.R[regAX]); err != nil {
					return err
				}
			} else {
				if err := c.busWrite(segES, c.Regs.R[regDI], c.Regs.reg8(0)); err != nil {
					return err
				}
			}
			c.Regs.R[regDI] += delta
			return c.cycles(3)

		case 0xac: // LODS
			if word {
				v, err := c.read16(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				c.Regs.R[regAX] = v
			} else {
				v, err := c.busRead(srcSeg, c.Regs.R[regSI])
				if err != nil {
					return err
				}
				c.Regs.setReg8(0, v)
			}
			c.Regs.R[regSI] += delta
			return c.cycles(4)

		case 0xae: // SCAS
			if word {
				v, err := c.read16(segES, c.Regs.R[regDI])
				if err != nil {
					return err
				}
				c.sub(c.Regs.R[regAX], v, false, 16)
			} else {
				v, err := c.busRead(segES, c.Regs.R[regDI])
				if err != nil {
					return err
				}
				c.sub(uint16(c.Regs.reg8(0)), uint16(v), false, 8)
			}
			c.Regs.R[regDI] += delta
			return c.cycles(7)
		}
		return nil
	}

	if c.repPrefix == 0 {
		return one()
	}

	// repeated form. a repeat with CX zero does nothing at all
	for c.Regs.R[regCX] != 0 {
		if err := one(); err != nil {
			return err
		}
		c.Regs.R[regCX]--

		// CMPS and SCAS terminate early on the Z flag, REPE wanting it
		// set and REPNE clear
		masked := opcode &^ 0x01
		if masked == 0xa6 || masked == 0xae {
			if c.repPrefix == 0xf3 && !c.Regs.flag(FlagZ) {
				break
			}
			if c.repPrefix == 0xf2 && c.Regs.flag(FlagZ) {
				break
			}
		}

		if c.Regs.R[regCX] == 0 {
			break
		}

		// per-iteration overhead and the interrupt window
		if err := c.cycles(2); err != nil {
			return err
		}
		if c.nmi || (c.Regs.flag(FlagI) && c.intr != nil && c.intr.INT()) {
			// wind the instruction pointer back to the prefix so the whole
			// instruction restarts when the handler returns
			c.Regs.IP = c.instrStartIP
			c.flushQueue()
			return nil
		}
	}
	return nil
}
