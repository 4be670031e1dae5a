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

package validator

import (
	"github.com/gopherxt/gopherxt/hardware/cpu"
)

// Several instructions leave some arithmetic flags in an undefined state.
// Real silicon still puts *something* in those bits and the exact values
// vary between steppings, so a raw FLAGS comparison against the reference
// CPU produces false divergences. maskUndefinedFlags clears the undefined
// bits from both sides before comparison.
//
// The emulator deliberately models one particular behaviour for these
// flags. Masking is only for validation; it never feeds back into
// emulation.
func maskUndefinedFlags(opcode uint8, modrm uint8, flags uint16) uint16 {
	switch opcode {
	// logical ops leave AF undefined
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, // OR
		0x20, 0x21, 0x22, 0x23, 0x24, 0x25, // AND
		0x30, 0x31, 0x32, 0x33, 0x34, 0x35, // XOR
		0x84, 0x85, 0xa8, 0xa9: // TEST
		flags &^= cpu.FlagA

	// decimal adjust leaves OF undefined
	case 0x27, 0x2f:
		flags &^= cpu.FlagO

	// ASCII adjust leaves everything but AF and CF undefined
	case 0x37, 0x3f:
		flags &^= cpu.FlagO | cpu.FlagS | cpu.FlagZ | cpu.FlagP

	// AAM/AAD leave OF, AF and CF undefined
	case 0xd4, 0xd5:
		flags &^= cpu.FlagO | cpu.FlagA | cpu.FlagC

	// single bit shifts leave AF undefined; variable shifts leave OF
	// undefined as well
	case 0xd0, 0xd1:
		flags &^= cpu.FlagA
	case 0xd2, 0xd3:
		flags &^= cpu.FlagA | cpu.FlagO

	// immediate count forms of the logical group clear AF for AND/OR/XOR
	case 0x80, 0x81, 0x82, 0x83:
		switch (modrm >> 3) & 0x07 {
		case 1, 4, 6:
			flags &^= cpu.FlagA
		}

	case 0xf6, 0xf7:
		switch (modrm >> 3) & 0x07 {
		case 0, 1: // TEST
			flags &^= cpu.FlagA
		case 4, 5: // MUL/IMUL define only CF and OF
			flags &^= cpu.FlagS | cpu.FlagZ | cpu.FlagA | cpu.FlagP
		case 6, 7: // DIV/IDIV define nothing
			flags &^= cpu.FlagC | cpu.FlagO | cpu.FlagS | cpu.FlagZ | cpu.FlagA | cpu.FlagP
		}
	}

	return flags
}
