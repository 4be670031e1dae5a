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

// operand templates. the decoder uses these to know which bytes follow the
// opcode; the disassembler uses them for formatting.
type operand int

const (
	opNone operand = iota
	opRM8          // r/m operand from a modrm byte, byte sized
	opRM16         // r/m operand from a modrm byte, word sized
	opReg8         // reg field of the modrm byte, byte sized
	opReg16        // reg field of the modrm byte, word sized
	opSeg          // reg field of the modrm byte names a segment register
	opImm8
	opImm16
	opImmS8 // sign extended byte immediate
	opRel8
	opRel16
	opPtr32 // segment:offset immediate pair
	opMoffs8
	opMoffs16
	opAL
	opAX
	opCL
	opDX
	opShort8  // register encoded in the low bits of the opcode, byte
	opShort16 // register encoded in the low bits of the opcode, word
	opShortSeg
	opOne
)

// hasModRM returns true if the operand requires a modrm byte.
func (o operand) hasModRM() bool {
	switch o {
	case opRM8, opRM16, opReg8, opReg16, opSeg:
		return true
	}
	return false
}

// opDef is one row of the opcode table.
type opDef struct {
	mnemonic string
	op1, op2 operand

	// register-form execution time. memory forms and transfers are costed
	// by the execution unit on top of this
	cycles int

	// mnemonic comes from a group table indexed by the modrm reg field
	group int
}

// modrm group numbers.
const (
	groupNone = iota
	groupALU  // 80-83
	groupShift
	groupF6F7
	groupFE
	groupFF
)

var groupALUNames = [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}
var groupShiftNames = [8]string{"ROL", "ROR", "RCL", "RCR", "SHL", "SHR", "SHL", "SAR"}
var groupF6F7Names = [8]string{"TEST", "TEST", "NOT", "NEG", "MUL", "IMUL", "DIV", "IDIV"}
var groupFENames = [8]string{"INC", "DEC", "???", "???", "???", "???", "???", "???"}
var groupFFNames = [8]string{"INC", "DEC", "CALL", "CALL", "JMP", "JMP", "PUSH", "???"}

// opcodes is the full 8088 opcode map, including the undocumented aliases
// (60-6f mirror the conditional jumps, c0/c1/c8/c9 mirror the returns, d6
// is SALC). There are no gaps: every byte value decodes to something, as it
// does on real silicon.
var opcodes = [256]opDef{
	0x00: {"ADD", opRM8, opReg8, 3, groupNone},
	0x01: {"ADD", opRM16, opReg16, 3, groupNone},
	0x02: {"ADD", opReg8, opRM8, 3, groupNone},
	0x03: {"ADD", opReg16, opRM16, 3, groupNone},
	0x04: {"ADD", opAL, opImm8, 4, groupNone},
	0x05: {"ADD", opAX, opImm16, 4, groupNone},
	0x06: {"PUSH", opShortSeg, opNone, 10, groupNone},
	0x07: {"POP", opShortSeg, opNone, 8, groupNone},
	0x08: {"OR", opRM8, opReg8, 3, groupNone},
	0x09: {"OR", opRM16, opReg16, 3, groupNone},
	0x0a: {"OR", opReg8, opRM8, 3, groupNone},
	0x0b: {"OR", opReg16, opRM16, 3, groupNone},
	0x0c: {"OR", opAL, opImm8, 4, groupNone},
	0x0d: {"OR", opAX, opImm16, 4, groupNone},
	0x0e: {"PUSH", opShortSeg, opNone, 10, groupNone},
	0x0f: {"POP", opShortSeg, opNone, 8, groupNone}, // POP CS, 8088 only
	0x10: {"ADC", opRM8, opReg8, 3, groupNone},
	0x11: {"ADC", opRM16, opReg16, 3, groupNone},
	0x12: {"ADC", opReg8, opRM8, 3, groupNone},
	0x13: {"ADC", opReg16, opRM16, 3, groupNone},
	0x14: {"ADC", opAL, opImm8, 4, groupNone},
	0x15: {"ADC", opAX, opImm16, 4, groupNone},
	0x16: {"PUSH", opShortSeg, opNone, 10, groupNone},
	0x17: {"POP", opShortSeg, opNone, 8, groupNone},
	0x18: {"SBB", opRM8, opReg8, 3, groupNone},
	0x19: {"SBB", opRM16, opReg16, 3, groupNone},
	0x1a: {"SBB", opReg8, opRM8, 3, groupNone},
	0x1b: {"SBB", opReg16, opRM16, 3, groupNone},
	0x1c: {"SBB", opAL, opImm8, 4, groupNone},
	0x1d: {"SBB", opAX, opImm16, 4, groupNone},
	0x1e: {"PUSH", opShortSeg, opNone, 10, groupNone},
	0x1f: {"POP", opShortSeg, opNone, 8, groupNone},
	0x20: {"AND", opRM8, opReg8, 3, groupNone},
	0x21: {"AND", opRM16, opReg16, 3, groupNone},
	0x22: {"AND", opReg8, opRM8, 3, groupNone},
	0x23: {"AND", opReg16, opRM16, 3, groupNone},
	0x24: {"AND", opAL, opImm8, 4, groupNone},
	0x25: {"AND", opAX, opImm16, 4, groupNone},
	0x26: {"ES:", opNone, opNone, 2, groupNone},
	0x27: {"DAA", opNone, opNone, 4, groupNone},
	0x28: {"SUB", opRM8, opReg8, 3, groupNone},
	0x29: {"SUB", opRM16, opReg16, 3, groupNone},
	0x2a: {"SUB", opReg8, opRM8, 3, groupNone},
	0x2b: {"SUB", opReg16, opRM16, 3, groupNone},
	0x2c: {"SUB", opAL, opImm8, 4, groupNone},
	0x2d: {"SUB", opAX, opImm16, 4, groupNone},
	0x2e: {"CS:", opNone, opNone, 2, groupNone},
	0x2f: {"DAS", opNone, opNone, 4, groupNone},
	0x30: {"XOR", opRM8, opReg8, 3, groupNone},
	0x31: {"XOR", opRM16, opReg16, 3, groupNone},
	0x32: {"XOR", opReg8, opRM8, 3, groupNone},
	0x33: {"XOR", opReg16, opRM16, 3, groupNone},
	0x34: {"XOR", opAL, opImm8, 4, groupNone},
	0x35: {"XOR", opAX, opImm16, 4, groupNone},
	0x36: {"SS:", opNone, opNone, 2, groupNone},
	0x37: {"AAA", opNone, opNone, 4, groupNone},
	0x38: {"CMP", opRM8, opReg8, 3, groupNone},
	0x39: {"CMP", opRM16, opReg16, 3, groupNone},
	0x3a: {"CMP", opReg8, opRM8, 3, groupNone},
	0x3b: {"CMP", opReg16, opRM16, 3, groupNone},
	0x3c: {"CMP", opAL, opImm8, 4, groupNone},
	0x3d: {"CMP", opAX, opImm16, 4, groupNone},
	0x3e: {"DS:", opNone, opNone, 2, groupNone},
	0x3f: {"AAS", opNone, opNone, 4, groupNone},
	0x40: {"INC", opShort16, opNone, 3, groupNone},
	0x41: {"INC", opShort16, opNone, 3, groupNone},
	0x42: {"INC", opShort16, opNone, 3, groupNone},
	0x43: {"INC", opShort16, opNone, 3, groupNone},
	0x44: {"INC", opShort16, opNone, 3, groupNone},
	0x45: {"INC", opShort16, opNone, 3, groupNone},
	0x46: {"INC", opShort16, opNone, 3, groupNone},
	0x47: {"INC", opShort16, opNone, 3, groupNone},
	0x48: {"DEC", opShort16, opNone, 3, groupNone},
	0x49: {"DEC", opShort16, opNone, 3, groupNone},
	0x4a: {"DEC", opShort16, opNone, 3, groupNone},
	0x4b: {"DEC", opShort16, opNone, 3, groupNone},
	0x4c: {"DEC", opShort16, opNone, 3, groupNone},
	0x4d: {"DEC", opShort16, opNone, 3, groupNone},
	0x4e: {"DEC", opShort16, opNone, 3, groupNone},
	0x4f: {"DEC", opShort16, opNone, 3, groupNone},
	0x50: {"PUSH", opShort16, opNone, 11, groupNone},
	0x51: {"PUSH", opShort16, opNone, 11, groupNone},
	0x52: {"PUSH", opShort16, opNone, 11, groupNone},
	0x53: {"PUSH", opShort16, opNone, 11, groupNone},
	0x54: {"PUSH", opShort16, opNone, 11, groupNone},
	0x55: {"PUSH", opShort16, opNone, 11, groupNone},
	0x56: {"PUSH", opShort16, opNone, 11, groupNone},
	0x57: {"PUSH", opShort16, opNone, 11, groupNone},
	0x58: {"POP", opShort16, opNone, 8, groupNone},
	0x59: {"POP", opShort16, opNone, 8, groupNone},
	0x5a: {"POP", opShort16, opNone, 8, groupNone},
	0x5b: {"POP", opShort16, opNone, 8, groupNone},
	0x5c: {"POP", opShort16, opNone, 8, groupNone},
	0x5d: {"POP", opShort16, opNone, 8, groupNone},
	0x5e: {"POP", opShort16, opNone, 8, groupNone},
	0x5f: {"POP", opShort16, opNone, 8, groupNone},
	0x60: {"JO", opRel8, opNone, 4, groupNone}, // 60-6f alias 70-7f
	0x61: {"JNO", opRel8, opNone, 4, groupNone},
	0x62: {"JB", opRel8, opNone, 4, groupNone},
	0x63: {"JNB", opRel8, opNone, 4, groupNone},
	0x64: {"JZ", opRel8, opNone, 4, groupNone},
	0x65: {"JNZ", opRel8, opNone, 4, groupNone},
	0x66: {"JBE", opRel8, opNone, 4, groupNone},
	0x67: {"JNBE", opRel8, opNone, 4, groupNone},
	0x68: {"JS", opRel8, opNone, 4, groupNone},
	0x69: {"JNS", opRel8, opNone, 4, groupNone},
	0x6a: {"JP", opRel8, opNone, 4, groupNone},
	0x6b: {"JNP", opRel8, opNone, 4, groupNone},
	0x6c: {"JL", opRel8, opNone, 4, groupNone},
	0x6d: {"JNL", opRel8, opNone, 4, groupNone},
	0x6e: {"JLE", opRel8, opNone, 4, groupNone},
	0x6f: {"JNLE", opRel8, opNone, 4, groupNone},
	0x70: {"JO", opRel8, opNone, 4, groupNone},
	0x71: {"JNO", opRel8, opNone, 4, groupNone},
	0x72: {"JB", opRel8, opNone, 4, groupNone},
	0x73: {"JNB", opRel8, opNone, 4, groupNone},
	0x74: {"JZ", opRel8, opNone, 4, groupNone},
	0x75: {"JNZ", opRel8, opNone, 4, groupNone},
	0x76: {"JBE", opRel8, opNone, 4, groupNone},
	0x77: {"JNBE", opRel8, opNone, 4, groupNone},
	0x78: {"JS", opRel8, opNone, 4, groupNone},
	0x79: {"JNS", opRel8, opNone, 4, groupNone},
	0x7a: {"JP", opRel8, opNone, 4, groupNone},
	0x7b: {"JNP", opRel8, opNone, 4, groupNone},
	0x7c: {"JL", opRel8, opNone, 4, groupNone},
	0x7d: {"JNL", opRel8, opNone, 4, groupNone},
	0x7e: {"JLE", opRel8, opNone, 4, groupNone},
	0x7f: {"JNLE", opRel8, opNone, 4, groupNone},
	0x80: {"", opRM8, opImm8, 4, groupALU},
	0x81: {"", opRM16, opImm16, 4, groupALU},
	0x82: {"", opRM8, opImm8, 4, groupALU}, // alias of 80
	0x83: {"", opRM16, opImmS8, 4, groupALU},
	0x84: {"TEST", opRM8, opReg8, 3, groupNone},
	0x85: {"TEST", opRM16, opReg16, 3, groupNone},
	0x86: {"XCHG", opReg8, opRM8, 4, groupNone},
	0x87: {"XCHG", opReg16, opRM16, 4, groupNone},
	0x88: {"MOV", opRM8, opReg8, 2, groupNone},
	0x89: {"MOV", opRM16, opReg16, 2, groupNone},
	0x8a: {"MOV", opReg8, opRM8, 2, groupNone},
	0x8b: {"MOV", opReg16, opRM16, 2, groupNone},
	0x8c: {"MOV", opRM16, opSeg, 2, groupNone},
	0x8d: {"LEA", opReg16, opRM16, 2, groupNone},
	0x8e: {"MOV", opSeg, opRM16, 2, groupNone},
	0x8f: {"POP", opRM16, opNone, 8, groupNone},
	0x90: {"NOP", opNone, opNone, 3, groupNone},
	0x91: {"XCHG", opAX, opShort16, 3, groupNone},
	0x92: {"XCHG", opAX, opShort16, 3, groupNone},
	0x93: {"XCHG", opAX, opShort16, 3, groupNone},
	0x94: {"XCHG", opAX, opShort16, 3, groupNone},
	0x95: {"XCHG", opAX, opShort16, 3, groupNone},
	0x96: {"XCHG", opAX, opShort16, 3, groupNone},
	0x97: {"XCHG", opAX, opShort16, 3, groupNone},
	0x98: {"CBW", opNone, opNone, 2, groupNone},
	0x99: {"CWD", opNone, opNone, 5, groupNone},
	0x9a: {"CALL", opPtr32, opNone, 28, groupNone},
	0x9b: {"WAIT", opNone, opNone, 4, groupNone},
	0x9c: {"PUSHF", opNone, opNone, 10, groupNone},
	0x9d: {"POPF", opNone, opNone, 8, groupNone},
	0x9e: {"SAHF", opNone, opNone, 4, groupNone},
	0x9f: {"LAHF", opNone, opNone, 4, groupNone},
	0xa0: {"MOV", opAL, opMoffs8, 6, groupNone},
	0xa1: {"MOV", opAX, opMoffs16, 6, groupNone},
	0xa2: {"MOV", opMoffs8, opAL, 6, groupNone},
	0xa3: {"MOV", opMoffs16, opAX, 6, groupNone},
	0xa4: {"MOVSB", opNone, opNone, 18, groupNone},
	0xa5: {"MOVSW", opNone, opNone, 18, groupNone},
	0xa6: {"CMPSB", opNone, opNone, 22, groupNone},
	0xa7: {"CMPSW", opNone, opNone, 22, groupNone},
	0xa8: {"TEST", opAL, opImm8, 4, groupNone},
	0xa9: {"TEST", opAX, opImm16, 4, groupNone},
	0xaa: {"STOSB", opNone, opNone, 11, groupNone},
	0xab: {"STOSW", opNone, opNone, 11, groupNone},
	0xac: {"LODSB", opNone, opNone, 12, groupNone},
	0xad: {"LODSW", opNone, opNone, 12, groupNone},
	0xae: {"SCASB", opNone, opNone, 15, groupNone},
	0xaf: {"SCASW", opNone, opNone, 15, groupNone},
	0xb0: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb1: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb2: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb3: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb4: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb5: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb6: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb7: {"MOV", opShort8, opImm8, 4, groupNone},
	0xb8: {"MOV", opShort16, opImm16, 4, groupNone},
	0xb9: {"MOV", opShort16, opImm16, 4, groupNone},
	0xba: {"MOV", opShort16, opImm16, 4, groupNone},
	0xbb: {"MOV", opShort16, opImm16, 4, groupNone},
	0xbc: {"MOV", opShort16, opImm16, 4, groupNone},
	0xbd: {"MOV", opShort16, opImm16, 4, groupNone},
	0xbe: {"MOV", opShort16, opImm16, 4, groupNone},
	0xbf: {"MOV", opShort16, opImm16, 4, groupNone},
	0xc0: {"RET", opImm16, opNone, 20, groupNone}, // alias of c2
	0xc1: {"RET", opNone, opNone, 16, groupNone},  // alias of c3
	0xc2: {"RET", opImm16, opNone, 20, groupNone},
	0xc3: {"RET", opNone, opNone, 16, groupNone},
	0xc4: {"LES", opReg16, opRM16, 16, groupNone},
	0xc5: {"LDS", opReg16, opRM16, 16, groupNone},
	0xc6: {"MOV", opRM8, opImm8, 4, groupNone},
	0xc7: {"MOV", opRM16, opImm16, 4, groupNone},
	0xc8: {"RETF", opImm16, opNone, 25, groupNone}, // alias of ca
	0xc9: {"RETF", opNone, opNone, 26, groupNone},  // alias of cb
	0xca: {"RETF", opImm16, opNone, 25, groupNone},
	0xcb: {"RETF", opNone, opNone, 26, groupNone},
	0xcc: {"INT3", opNone, opNone, 52, groupNone},
	0xcd: {"INT", opImm8, opNone, 51, groupNone},
	0xce: {"INTO", opNone, opNone, 4, groupNone},
	0xcf: {"IRET", opNone, opNone, 32, groupNone},
	0xd0: {"", opRM8, opOne, 2, groupShift},
	0xd1: {"", opRM16, opOne, 2, groupShift},
	0xd2: {"", opRM8, opCL, 8, groupShift},
	0xd3: {"", opRM16, opCL, 8, groupShift},
	0xd4: {"AAM", opImm8, opNone, 83, groupNone},
	0xd5: {"AAD", opImm8, opNone, 60, groupNone},
	0xd6: {"SALC", opNone, opNone, 4, groupNone}, // undocumented
	0xd7: {"XLAT", opNone, opNone, 11, groupNone},
	0xd8: {"ESC", opRM16, opNone, 2, groupNone},
	0xd9: {"ESC", opRM16, opNone, 2, groupNone},
	0xda: {"ESC", opRM16, opNone, 2, groupNone},
	0xdb: {"ESC", opRM16, opNone, 2, groupNone},
	0xdc: {"ESC", opRM16, opNone, 2, groupNone},
	0xdd: {"ESC", opRM16, opNone, 2, groupNone},
	0xde: {"ESC", opRM16, opNone, 2, groupNone},
	0xdf: {"ESC", opRM16, opNone, 2, groupNone},
	0xe0: {"LOOPNZ", opRel8, opNone, 5, groupNone},
	0xe1: {"LOOPZ", opRel8, opNone, 6, groupNone},
	0xe2: {"LOOP", opRel8, opNone, 5, groupNone},
	0xe3: {"JCXZ", opRel8, opNone, 6, groupNone},
	0xe4: {"IN", opAL, opImm8, 10, groupNone},
	0xe5: {"IN", opAX, opImm8, 10, groupNone},
	0xe6: {"OUT", opImm8, opAL, 10, groupNone},
	0xe7: {"OUT", opImm8, opAX, 10, groupNone},
	0xe8: {"CALL", opRel16, opNone, 19, groupNone},
	0xe9: {"JMP", opRel16, opNone, 15, groupNone},
	0xea: {"JMP", opPtr32, opNone, 15, groupNone},
	0xeb: {"JMP", opRel8, opNone, 15, groupNone},
	0xec: {"IN", opAL, opDX, 8, groupNone},
	0xed: {"IN", opAX, opDX, 8, groupNone},
	0xee: {"OUT", opDX, opAL, 8, groupNone},
	0xef: {"OUT", opDX, opAX, 8, groupNone},
	0xf0: {"LOCK", opNone, opNone, 2, groupNone},
	0xf1: {"LOCK", opNone, opNone, 2, groupNone}, // alias of f0
	0xf2: {"REPNE", opNone, opNone, 2, groupNone},
	0xf3: {"REP", opNone, opNone, 2, groupNone},
	0xf4: {"HLT", opNone, opNone, 2, groupNone},
	0xf5: {"CMC", opNone, opNone, 2, groupNone},
	0xf6: {"", opRM8, opNone, 3, groupF6F7},
	0xf7: {"", opRM16, opNone, 3, groupF6F7},
	0xf8: {"CLC", opNone, opNone, 2, groupNone},
	0xf9: {"STC", opNone, opNone, 2, groupNone},
	0xfa: {"CLI", opNone, opNone, 2, groupNone},
	0xfb: {"STI", opNone, opNone, 2, groupNone},
	0xfc: {"CLD", opNone, opNone, 2, groupNone},
	0xfd: {"STD", opNone, opNone, 2, groupNone},
	0xfe: {"", opRM8, opNone, 3, groupFE},
	0xff: {"", opRM16, opNone, 3, groupFF},
}

// Mnemonic returns the mnemonic for an opcode, resolving group opcodes
// through the modrm reg field.
func Mnemonic(opcode uint8, modrm uint8) string {
	def := opcodes[opcode]
	reg := (modrm >> 3) & 0x07
	switch def.group {
	case groupALU:
		return groupALUNames[reg]
	case groupShift:
		return groupShiftNames[reg]
	case groupF6F7:
		return groupF6F7Names[reg]
	case groupFE:
		return groupFENames[reg]
	case groupFF:
		return groupFFNames[reg]
	}
	return def.mnemonic
}
