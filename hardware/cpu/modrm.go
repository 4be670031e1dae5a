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

// effAddr is a resolved modrm r/m operand: either a register or a
// segment:offset pair. The offset arithmetic wraps at 64KB; only the final
// segment:offset to physical translation sees the full 20-bit space.
type effAddr struct {
	isReg bool
	reg   int

	seg    int
	offset uint16

	// effective address calculation time for this addressing mode
	cycles int
}

// defaultSeg is the segment each addressing mode uses when no override
// prefix is active. Everything is DS-relative except the BP-based modes.
func defaultSeg(modrm uint8) int {
	switch modrm & 0xc7 {
	case 0x02, 0x03, 0x42, 0x43, 0x82, 0x83: // BP+SI, BP+DI
		return segSS
	case 0x46, 0x86: // BP+disp
		return segSS
	}
	return segDS
}

// resolveModRM decodes the mod and r/m fields into an effAddr, consuming
// displacement bytes from the instruction stream as needed.
func (c *CPU) resolveModRM(modrm uint8) (effAddr, error) {
	mod := modrm >> 6
	rm := int(modrm & 0x07)

	if mod == 3 {
		return effAddr{isReg: true, reg: rm}, nil
	}

	var base uint16
	var cycles int

	switch rm {
	case 0: // BX+SI
		base = c.Regs.R[regBX] + c.Regs.R[regSI]
		cycles = 7
	case 1: // BX+DI
		base = c.Regs.R[regBX] + c.Regs.R[regDI]
		cycles = 8
	case 2: // BP+SI
		base = c.Regs.R[regBP] + c.Regs.R[regSI]
		cycles = 8
	case 3: // BP+DI
		base = c.Regs.R[regBP] + c.Regs.R[regDI]
		cycles = 7
	case 4:
		base = c.Regs.R[regSI]
		cycles = 5
	case 5:
		base = c.Regs.R[regDI]
		cycles = 5
	case 6:
		if mod == 0 {
			// direct address
			lo, err := c.fetch()
			if err != nil {
				return effAddr{}, err
			}
			hi, err := c.fetch()
			if err != nil {
				return effAddr{}, err
			}
			return effAddr{
				seg:    c.operandSeg(defaultSeg(modrm)),
				offset: uint16(lo) | uint16(hi)<<8,
				cycles: 6,
			}, nil
		}
		base = c.Regs.R[regBP]
		cycles = 5
	case 7:
		base = c.Regs.R[regBX]
		cycles = 5
	}

	switch mod {
	case 1:
		d, err := c.fetch()
		if err != nil {
			return effAddr{}, err
		}
		base += uint16(int16(int8(d)))
		cycles += 4
	case 2:
		lo, err := c.fetch()
		if err != nil {
			return effAddr{}, err
		}
		hi, err := c.fetch()
		if err != nil {
			return effAddr{}, err
		}
		base += uint16(lo) | uint16(hi)<<8
		cycles += 4
	}

	return effAddr{
		seg:    c.operandSeg(defaultSeg(modrm)),
		offset: base,
		cycles: cycles,
	}, nil
}

// operandSeg applies any active segment override prefix to the default
// segment of an addressing mode.
func (c *CPU) operandSeg(def int) int {
	if c.segOverride >= 0 {
		return c.segOverride
	}
	return def
}

// physical translates a segment:offset pair to a 20-bit physical address.
func (c *CPU) physical(seg int, offset uint16) uint32 {
	return (uint32(c.Regs.S[seg])<<4 + uint32(offset)) & (1<<20 - 1)
}
