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

import (
	"fmt"
	"strings"

	"github.com/gopherxt/gopherxt/hardware/cpu/execution"
)

// DisasmEntry is the result of statically decoding a single instruction.
// It carries no execution state so entries can be produced from a memory
// image without disturbing the machine.
type DisasmEntry struct {
	// any REP/LOCK prefixes, already formatted. empty for most instructions
	Prefix string

	Operator string
	Operand  string

	// number of bytes consumed, including prefixes
	Length int
}

func (e DisasmEntry) String() string {
	s := strings.Builder{}
	if e.Prefix != "" {
		s.WriteString(e.Prefix)
		s.WriteString(" ")
	}
	s.WriteString(e.Operator)
	if e.Operand != "" {
		s.WriteString(" ")
		s.WriteString(e.Operand)
	}
	return s.String()
}

// memory operand templates indexed by the modrm r/m field.
var eaNames = [8]string{"BX+SI", "BX+DI", "BP+SI", "BP+DI", "SI", "DI", "BP", "BX"}

// Disassemble statically decodes the instruction at offset ip. The read
// function provides the bytes; offsets wrap at the segment boundary as
// they do during execution.
func Disassemble(read func(offset uint16) uint8, ip uint16) DisasmEntry {
	e := DisasmEntry{}
	segOverride := -1

	next := func() uint8 {
		v := read(ip + uint16(e.Length))
		e.Length++
		return v
	}

	// prefix bytes
	var opcode uint8
	for {
		opcode = next()
		switch opcode {
		case 0x26:
			segOverride = segES
		case 0x2e:
			segOverride = segCS
		case 0x36:
			segOverride = segSS
		case 0x3e:
			segOverride = segDS
		case 0xf0, 0xf1:
			e.Prefix = "LOCK"
		case 0xf2:
			e.Prefix = "REPNE"
		case 0xf3:
			e.Prefix = "REP"
		default:
			goto decoded
		}
		if e.Length >= execution.MaxInstructionLen {
			e.Operator = "???"
			return e
		}
	}
decoded:

	def := opcodes[opcode]

	var modrm uint8
	hasModRM := def.op1.hasModRM() || def.op2.hasModRM()
	if hasModRM {
		modrm = next()
	}

	e.Operator = Mnemonic(opcode, modrm)

	// the r/m operand string is built before any immediates are consumed
	// because the displacement bytes precede them in the instruction stream
	rm := ""
	if def.op1 == opRM8 || def.op1 == opRM16 || def.op2 == opRM8 || def.op2 == opRM16 {
		rm = formatRM(modrm, segOverride, next)
	}

	format := func(op operand, other operand) string {
		switch op {
		case opRM8, opRM16:
			if modrm>>6 == 0x03 {
				if op == opRM8 {
					return regNames8[modrm&0x07]
				}
				return regNames16[modrm&0x07]
			}
			// annotate operand size when the other operand doesn't imply it
			switch other {
			case opReg8, opReg16, opAL, opAX, opCL:
				return rm
			}
			if op == opRM8 {
				return "BYTE " + rm
			}
			return "WORD " + rm
		case opReg8:
			return regNames8[(modrm>>3)&0x07]
		case opReg16:
			return regNames16[(modrm>>3)&0x07]
		case opSeg:
			return segNames[(modrm>>3)&0x03]
		case opImm8:
			return fmt.Sprintf("%02x", next())
		case opImm16:
			lo := next()
			hi := next()
			return fmt.Sprintf("%04x", uint16(lo)|uint16(hi)<<8)
		case opImmS8:
			return fmt.Sprintf("%04x", uint16(int16(int8(next()))))
		case opRel8:
			d := int8(next())
			return fmt.Sprintf("%04x", ip+uint16(e.Length)+uint16(int16(d)))
		case opRel16:
			lo := next()
			hi := next()
			d := int16(uint16(lo) | uint16(hi)<<8)
			return fmt.Sprintf("%04x", ip+uint16(e.Length)+uint16(d))
		case opPtr32:
			olo := next()
			ohi := next()
			slo := next()
			shi := next()
			return fmt.Sprintf("%04x:%04x", uint16(slo)|uint16(shi)<<8, uint16(olo)|uint16(ohi)<<8)
		case opMoffs8, opMoffs16:
			lo := next()
			hi := next()
			if segOverride >= 0 {
				return fmt.Sprintf("%s:[%04x]", segNames[segOverride], uint16(lo)|uint16(hi)<<8)
			}
			return fmt.Sprintf("[%04x]", uint16(lo)|uint16(hi)<<8)
		case opAL:
			return "AL"
		case opAX:
			return "AX"
		case opCL:
			return "CL"
		case opDX:
			return "DX"
		case opShort8:
			return regNames8[opcode&0x07]
		case opShort16:
			return regNames16[opcode&0x07]
		case opShortSeg:
			return segNames[(opcode>>3)&0x03]
		case opOne:
			return "1"
		}
		return ""
	}

	op1 := format(def.op1, def.op2)
	op2 := format(def.op2, def.op1)

	switch {
	case op1 != "" && op2 != "":
		e.Operand = op1 + "," + op2
	case op1 != "":
		e.Operand = op1
	}

	return e
}

// formatRM builds the string for the modrm r/m operand, consuming any
// displacement bytes.
func formatRM(modrm uint8, segOverride int, next func() uint8) string {
	mod := modrm >> 6
	rm := modrm & 0x07

	if mod == 0x03 {
		// caller selects the 8 or 16 bit name from the operand template
		return ""
	}

	prefix := ""
	if segOverride >= 0 {
		prefix = segNames[segOverride] + ":"
	}

	// direct address
	if mod == 0x00 && rm == 0x06 {
		lo := next()
		hi := next()
		return fmt.Sprintf("%s[%04x]", prefix, uint16(lo)|uint16(hi)<<8)
	}

	base := eaNames[rm]
	switch mod {
	case 0x00:
		return fmt.Sprintf("%s[%s]", prefix, base)
	case 0x01:
		d := int8(next())
		if d < 0 {
			return fmt.Sprintf("%s[%s-%02x]", prefix, base, -int16(d))
		}
		return fmt.Sprintf("%s[%s+%02x]", prefix, base, d)
	default:
		lo := next()
		hi := next()
		return fmt.Sprintf("%s[%s+%04x]", prefix, base, uint16(lo)|uint16(hi)<<8)
	}
}
