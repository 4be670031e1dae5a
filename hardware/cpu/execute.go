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

// memory operand penalty: the execution-unit clocks a memory operand costs
// beyond the bus cycles themselves, per the documented timing tables.
const (
	memReadPenalty  = 2
	memWritePenalty = 5
)

// readRM8 reads the operand named by an effAddr.
func (c *CPU) readRM8(ea effAddr) (uint8, error) {
	if ea.isReg {
		return c.Regs.reg8(ea.reg), nil
	}
	return c.busRead(ea.seg, ea.offset)
}

func (c *CPU) writeRM8(ea effAddr, v uint8) error {
	if ea.isReg {
		c.Regs.setReg8(ea.reg, v)
		return nil
	}
	return c.busWrite(ea.seg, ea.offset, v)
}

func (c *CPU) readRM16(ea effAddr) (uint16, error) {
	if ea.isReg {
		return c.Regs.R[ea.reg], nil
	}
	return c.read16(ea.seg, ea.offset)
}

func (c *CPU) writeRM16(ea effAddr, v uint16) error {
	if ea.isReg {
		c.Regs.R[ea.reg] = v
		return nil
	}
	return c.write16(ea.seg, ea.offset, v)
}

// condition evaluates the conditional jump condition encoded in the low
// four bits of the Jcc opcodes.
func (c *CPU) condition(cc uint8) bool {
	var r bool
	switch cc >> 1 {
	case 0: // O
		r = c.Regs.flag(FlagO)
	case 1: // B
		r = c.Regs.flag(FlagC)
	case 2: // Z
		r = c.Regs.flag(FlagZ)
	case 3: // BE
		r = c.Regs.flag(FlagC) || c.Regs.flag(FlagZ)
	case 4: // S
		r = c.Regs.flag(FlagS)
	case 5: // P
		r = c.Regs.flag(FlagP)
	case 6: // L
		r = c.Regs.flag(FlagS) != c.Regs.flag(FlagO)
	case 7: // LE
		r = c.Regs.flag(FlagZ) || (c.Regs.flag(FlagS) != c.Regs.flag(FlagO))
	}
	if cc&1 != 0 {
		return !r
	}
	return r
}

// execute decodes and runs one instruction, prefixes included.
func (c *CPU) execute() error {
	c.instrStartIP = c.Regs.IP

	opcode, err := c.fetch()
	if err != nil {
		return err
	}

	// prefix bytes. each costs two clocks
prefixes:
	for {
		switch opcode {
		case 0x26:
			c.segOverride = segES
		case 0x2e:
			c.segOverride = segCS
		case 0x36:
			c.segOverride = segSS
		case 0x3e:
			c.segOverride = segDS
		case 0xf0, 0xf1: // LOCK. no other bus master to lock against
		case 0xf2, 0xf3:
			c.repPrefix = opcode
		default:
			break prefixes
		}
		c.prefixLen++
		if err = c.cycles(2); err != nil {
			return err
		}
		if opcode, err = c.fetch(); err != nil {
			return err
		}
	}

	def := opcodes[opcode]

	switch {
	// ALU register/memory block
	case opcode < 0x40 && opcode&0x07 < 4:
		return c.execALUModRM(opcode)
	case opcode < 0x40 && opcode&0x07 < 6:
		return c.execALUAccImm(opcode)

	case opcode < 0x20 && opcode&0x07 == 6: // PUSH seg
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		return c.push16(c.Regs.S[opcode>>3])
	case opcode < 0x20 && opcode&0x07 == 7: // POP seg (inc. POP CS)
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.Regs.S[opcode>>3] = v
		if opcode>>3 == segCS {
			c.flushQueue()
		}
		c.intrInhibit = true
		return nil

	case opcode == 0x27 || opcode == 0x2f:
		return c.execDAA(opcode == 0x2f)
	case opcode == 0x37 || opcode == 0x3f:
		return c.execAAA(opcode == 0x3f)

	case opcode >= 0x40 && opcode < 0x48: // INC r16
		r := int(opcode & 0x07)
		carry := c.Regs.flag(FlagC)
		c.Regs.R[r] = c.add(c.Regs.R[r], 1, false, 16)
		c.Regs.setFlag(FlagC, carry)
		return c.cycles(def.cycles)
	case opcode >= 0x48 && opcode < 0x50: // DEC r16
		r := int(opcode & 0x07)
		carry := c.Regs.flag(FlagC)
		c.Regs.R[r] = c.sub(c.Regs.R[r], 1, false, 16)
		c.Regs.setFlag(FlagC, carry)
		return c.cycles(def.cycles)

	case opcode >= 0x50 && opcode < 0x58: // PUSH r16
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		return c.push16(c.Regs.R[opcode&0x07])
	case opcode >= 0x58 && opcode < 0x60: // POP r16
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.Regs.R[opcode&0x07] = v
		return nil

	case opcode >= 0x60 && opcode < 0x80: // Jcc rel8
		return c.execJcc(opcode)

	case opcode >= 0x80 && opcode < 0x84:
		return c.execALUGroupImm(opcode)

	case opcode == 0x84 || opcode == 0x85: // TEST rm,reg
		return c.execTestModRM(opcode)
	case opcode == 0x86 || opcode == 0x87: // XCHG reg,rm
		return c.execXchgModRM(opcode)
	case opcode >= 0x88 && opcode < 0x8c: // MOV
		return c.execMovModRM(opcode)
	case opcode == 0x8c || opcode == 0x8e: // MOV rm,sreg / MOV sreg,rm
		return c.execMovSeg(opcode)
	case opcode == 0x8d: // LEA
		return c.execLEA()
	case opcode == 0x8f: // POP rm16
		return c.execPopRM()

	case opcode >= 0x90 && opcode < 0x98: // NOP / XCHG AX,r16
		r := int(opcode & 0x07)
		c.Regs.R[regAX], c.Regs.R[r] = c.Regs.R[r], c.Regs.R[regAX]
		return c.cycles(def.cycles)

	case opcode == 0x98: // CBW
		c.Regs.R[regAX] = uint16(int16(int8(c.Regs.R[regAX])))
		return c.cycles(def.cycles)
	case opcode == 0x99: // CWD
		if c.Regs.R[regAX]&0x8000 != 0 {
			c.Regs.R[regDX] = 0xffff
		} else {
			c.Regs.R[regDX] = 0
		}
		return c.cycles(def.cycles)

	case opcode == 0x9a: // CALL far
		return c.execCallFar()
	case opcode == 0x9b: // WAIT. TEST pin never asserted
		return c.cycles(def.cycles)
	case opcode == 0x9c: // PUSHF
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		return c.push16(c.Regs.Flags | flagsAlways)
	case opcode == 0x9d: // POPF
		if err = c.cycles(def.cycles - 8); err != nil {
			return err
		}
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.Regs.Flags = v | flagsAlways
		return nil
	case opcode == 0x9e: // SAHF
		c.Regs.Flags = c.Regs.Flags&0xff00 | uint16(c.Regs.reg8(4))&0xd5 | flagsAlways&0x00ff
		return c.cycles(def.cycles)
	case opcode == 0x9f: // LAHF
		c.Regs.setReg8(4, uint8(c.Regs.Flags))
		return c.cycles(def.cycles)

	case opcode >= 0xa0 && opcode < 0xa4: // MOV moffs
		return c.execMovMoffs(opcode)
	case opcode == 0xa8 || opcode == 0xa9: // TEST acc,imm
		return c.execTestAccImm(opcode)
	case opcode >= 0xa4 && opcode < 0xb0: // string ops
		return c.execString(opcode)

	case opcode >= 0xb0 && opcode < 0xb8: // MOV r8,imm8
		v, err := c.fetch()
		if err != nil {
			return err
		}
		c.Regs.setReg8(int(opcode&0x07), v)
		return c.cycles(def.cycles)
	case opcode >= 0xb8 && opcode < 0xc0: // MOV r16,imm16
		v, err := c.fetch16()
		if err != nil {
			return err
		}
		c.Regs.R[opcode&0x07] = v
		return c.cycles(def.cycles)

	case opcode == 0xc0 || opcode == 0xc2: // RET imm16
		return c.execRetNear(true)
	case opcode == 0xc1 || opcode == 0xc3: // RET
		return c.execRetNear(false)
	case opcode == 0xc4 || opcode == 0xc5: // LES / LDS
		return c.execLoadFarPointer(opcode)
	case opcode == 0xc6 || opcode == 0xc7: // MOV rm,imm
		return c.execMovRMImm(opcode)
	case opcode == 0xc8 || opcode == 0xca: // RETF imm16
		return c.execRetFar(true)
	case opcode == 0xc9 || opcode == 0xcb: // RETF
		return c.execRetFar(false)

	case opcode == 0xcc: // INT3
		return c.interrupt(3, def.cycles-44)
	case opcode == 0xcd: // INT imm8
		v, err := c.fetch()
		if err != nil {
			return err
		}
		return c.interrupt(v, def.cycles-44)
	case opcode == 0xce: // INTO
		if c.Regs.flag(FlagO) {
			return c.interrupt(4, 53-44)
		}
		return c.cycles(def.cycles)
	case opcode == 0xcf: // IRET
		return c.execIret()

	case opcode >= 0xd0 && opcode < 0xd4: // shift group
		return c.execShiftGroup(opcode)
	case opcode == 0xd4: // AAM
		return c.execAAM()
	case opcode == 0xd5: // AAD
		return c.execAAD()
	case opcode == 0xd6: // SALC
		if c.Regs.flag(FlagC) {
			c.Regs.setReg8(0, 0xff)
		} else {
			c.Regs.setReg8(0, 0x00)
		}
		return c.cycles(def.cycles)
	case opcode == 0xd7: // XLAT
		if err = c.cycles(def.cycles - 4); err != nil {
			return err
		}
		off := c.Regs.R[regBX] + uint16(c.Regs.reg8(0))
		v, err := c.busRead(c.operandSeg(segDS), off)
		if err != nil {
			return err
		}
		c.Regs.setReg8(0, v)
		return nil

	case opcode >= 0xd8 && opcode < 0xe0: // ESC: coprocessor never fitted
		return c.execEsc()

	case opcode >= 0xe0 && opcode < 0xe4: // LOOPcc / JCXZ
		return c.execLoop(opcode)

	case opcode == 0xe4 || opcode == 0xe5: // IN acc,imm8
		port, err := c.fetch()
		if err != nil {
			return err
		}
		return c.execIn(opcode&1 != 0, uint16(port), def.cycles)
	case opcode == 0xe6 || opcode == 0xe7: // OUT imm8,acc
		port, err := c.fetch()
		if err != nil {
			return err
		}
		return c.execOut(opcode&1 != 0, uint16(port), def.cycles)
	case opcode == 0xec || opcode == 0xed: // IN acc,DX
		return c.execIn(opcode&1 != 0, c.Regs.R[regDX], def.cycles)
	case opcode == 0xee || opcode == 0xef: // OUT DX,acc
		return c.execOut(opcode&1 != 0, c.Regs.R[regDX], def.cycles)

	case opcode == 0xe8: // CALL rel16
		return c.execCallNear()
	case opcode == 0xe9: // JMP rel16
		rel, err := c.fetch16()
		if err != nil {
			return err
		}
		if err = c.cycles(def.cycles); err != nil {
			return err
		}
		c.Regs.IP += rel
		c.flushQueue()
		return nil
	case opcode == 0xea: // JMP far
		ip, err := c.fetch16()
		if err != nil {
			return err
		}
		cs, err := c.fetch16()
		if err != nil {
			return err
		}
		if err = c.cycles(def.cycles); err != nil {
			return err
		}
		c.Regs.IP = ip
		c.Regs.S[segCS] = cs
		c.flushQueue()
		return nil
	case opcode == 0xeb: // JMP rel8
		rel, err := c.fetch()
		if err != nil {
			return err
		}
		if err = c.cycles(def.cycles); err != nil {
			return err
		}
		c.Regs.IP += uint16(int16(int8(rel)))
		c.flushQueue()
		return nil

	case opcode == 0xf4: // HLT
		c.halted = true
		return c.cycles(def.cycles)
	case opcode == 0xf5: // CMC
		c.Regs.setFlag(FlagC, !c.Regs.flag(FlagC))
		return c.cycles(def.cycles)

	case opcode == 0xf6 || opcode == 0xf7:
		return c.execGroup3(opcode)

	case opcode == 0xf8: // CLC
		c.Regs.setFlag(FlagC, false)
		return c.cycles(def.cycles)
	case opcode == 0xf9: // STC
		c.Regs.setFlag(FlagC, true)
		return c.cycles(def.cycles)
	case opcode == 0xfa: // CLI
		c.Regs.setFlag(FlagI, false)
		return c.cycles(def.cycles)
	case opcode == 0xfb: // STI
		c.Regs.setFlag(FlagI, true)
		c.intrInhibit = true
		return c.cycles(def.cycles)
	case opcode == 0xfc: // CLD
		c.Regs.setFlag(FlagD, false)
		return c.cycles(def.cycles)
	case opcode == 0xfd: // STD
		c.Regs.setFlag(FlagD, true)
		return c.cycles(def.cycles)

	case opcode == 0xfe:
		return c.execGroup4()
	case opcode == 0xff:
		return c.execGroup5()
	}

	// unreachable: the table covers all 256 byte values
	return c.cycles(def.cycles)
}

func (c *CPU) execALUModRM(opcode uint8) error {
	op := int(opcode>>3) & 0x07
	word := opcode&0x01 != 0
	toReg := opcode&0x02 != 0

	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	if word {
		rm, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		var r uint16
		if toReg {
			r = c.aluOp(op, c.Regs.R[reg], rm, 16)
			if op != 7 {
				c.Regs.R[reg] = r
			}
			return nil
		}
		r = c.aluOp(op, rm, c.Regs.R[reg], 16)
		if op == 7 {
			return nil
		}
		if !ea.isReg {
			if err = c.cycles(memWritePenalty); err != nil {
				return err
			}
		}
		return c.writeRM16(ea, r)
	}

	rm, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	if toReg {
		r := c.aluOp(op, uint16(c.Regs.reg8(reg)), uint16(rm), 8)
		if op != 7 {
			c.Regs.setReg8(reg, uint8(r))
		}
		return nil
	}
	r := c.aluOp(op, uint16(rm), uint16(c.Regs.reg8(reg)), 8)
	if op == 7 {
		return nil
	}
	if !ea.isReg {
		if err = c.cycles(memWritePenalty); err != nil {
			return err
		}
	}
	return c.writeRM8(ea, uint8(r))
}

func (c *CPU) execALUAccImm(opcode uint8) error {
	op := int(opcode>>3) & 0x07
	if opcode&0x01 != 0 {
		imm, err := c.fetch16()
		if err != nil {
			return err
		}
		r := c.aluOp(op, c.Regs.R[regAX], imm, 16)
		if op != 7 {
			c.Regs.R[regAX] = r
		}
	} else {
		imm, err := c.fetch()
		if err != nil {
			return err
		}
		r := c.aluOp(op, uint16(c.Regs.reg8(0)), uint16(imm), 8)
		if op != 7 {
			c.Regs.setReg8(0, uint8(r))
		}
	}
	return c.cycles(opcodes[opcode].cycles)
}

func (c *CPU) execALUGroupImm(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	op := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	if opcode&0x01 != 0 { // word destination
		rm, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		var imm uint16
		if opcode == 0x83 {
			b, err := c.fetch()
			if err != nil {
				return err
			}
			imm = uint16(int16(int8(b)))
		} else {
			if imm, err = c.fetch16(); err != nil {
				return err
			}
		}
		r := c.aluOp(op, rm, imm, 16)
		if op == 7 {
			return nil
		}
		if !ea.isReg {
			if err = c.cycles(memWritePenalty); err != nil {
				return err
			}
		}
		return c.writeRM16(ea, r)
	}

	rm, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	imm, err := c.fetch()
	if err != nil {
		return err
	}
	r := c.aluOp(op, uint16(rm), uint16(imm), 8)
	if op == 7 {
		return nil
	}
	if !ea.isReg {
		if err = c.cycles(memWritePenalty); err != nil {
			return err
		}
	}
	return c.writeRM8(ea, uint8(r))
}

func (c *CPU) execTestModRM(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	if opcode&0x01 != 0 {
		rm, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		c.logic(rm&c.Regs.R[reg], 16)
		return nil
	}
	rm, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	c.logic(uint16(rm&c.Regs.reg8(reg)), 8)
	return nil
}

func (c *CPU) execTestAccImm(opcode uint8) error {
	if opcode&0x01 != 0 {
		imm, err := c.fetch16()
		if err != nil {
			return err
		}
		c.logic(c.Regs.R[regAX]&imm, 16)
	} else {
		imm, err := c.fetch()
		if err != nil {
			return err
		}
		c.logic(uint16(c.Regs.reg8(0)&imm), 8)
	}
	return c.cycles(opcodes[opcode].cycles)
}

func (c *CPU) execXchgModRM(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	if opcode&0x01 != 0 {
		rm, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		if err = c.writeRM16(ea, c.Regs.R[reg]); err != nil {
			return err
		}
		c.Regs.R[reg] = rm
		return nil
	}
	rm, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	if err = c.writeRM8(ea, c.Regs.reg8(reg)); err != nil {
		return err
	}
	c.Regs.setReg8(reg, rm)
	return nil
}

func (c *CPU) execMovModRM(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	word := opcode&0x01 != 0
	toReg := opcode&0x02 != 0

	if word {
		if toReg {
			v, err := c.readRM16(ea)
			if err != nil {
				return err
			}
			c.Regs.R[reg] = v
			return nil
		}
		return c.writeRM16(ea, c.Regs.R[reg])
	}
	if toReg {
		v, err := c.readRM8(ea)
		if err != nil {
			return err
		}
		c.Regs.setReg8(reg, v)
		return nil
	}
	return c.writeRM8(ea, c.Regs.reg8(reg))
}

func (c *CPU) execMovSeg(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	seg := int(modrm>>3) & 0x03

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}

	if opcode == 0x8c {
		return c.writeRM16(ea, c.Regs.S[seg])
	}

	v, err := c.readRM16(ea)
	if err != nil {
		return err
	}
	c.Regs.S[seg] = v
	if seg == segCS {
		c.flushQueue()
	}
	// a mov to SS (or any segment register) holds off interrupt sampling
	// for one instruction so SS:SP pairs can be loaded atomically
	c.intrInhibit = true
	return nil
}

func (c *CPU) execLEA() error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if !ea.isReg {
		c.Regs.R[reg] = ea.offset
	}
	// LEA with a register operand is undefined; the 8088 loads the last
	// computed EA. Leaving the register alone is close enough for the
	// software that never does this
	return c.cycles(opcodes[0x8d].cycles + ea.cycles)
}

func (c *CPU) execPopRM() error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	if err = c.cycles(opcodes[0x8f].cycles + ea.cycles - 8); err != nil {
		return err
	}
	v, err := c.pop16()
	if err != nil {
		return err
	}
	return c.writeRM16(ea, v)
}

func (c *CPU) execJcc(opcode uint8) error {
	rel, err := c.fetch()
	if err != nil {
		return err
	}
	if c.condition(opcode & 0x0f) {
		// taken branch: 16 clocks and a queue flush
		if err = c.cycles(16); err != nil {
			return err
		}
		c.Regs.IP += uint16(int16(int8(rel)))
		c.flushQueue()
		return nil
	}
	return c.cycles(opcodes[opcode].cycles)
}

func (c *CPU) execLoop(opcode uint8) error {
	rel, err := c.fetch()
	if err != nil {
		return err
	}

	var taken bool
	switch opcode {
	case 0xe0: // LOOPNZ
		c.Regs.R[regCX]--
		taken = c.Regs.R[regCX] != 0 && !c.Regs.flag(FlagZ)
	case 0xe1: // LOOPZ
		c.Regs.R[regCX]--
		taken = c.Regs.R[regCX] != 0 && c.Regs.flag(FlagZ)
	case 0xe2: // LOOP
		c.Regs.R[regCX]--
		taken = c.Regs.R[regCX] != 0
	case 0xe3: // JCXZ
		taken = c.Regs.R[regCX] == 0
	}

	if taken {
		if err = c.cycles(opcodes[opcode].cycles + 13); err != nil {
			return err
		}
		c.Regs.IP += uint16(int16(int8(rel)))
		c.flushQueue()
		return nil
	}
	return c.cycles(opcodes[opcode].cycles)
}

func (c *CPU) execMovMoffs(opcode uint8) error {
	offset, err := c.fetch16()
	if err != nil {
		return err
	}
	seg := c.operandSeg(segDS)

	if err = c.cycles(opcodes[opcode].cycles - 4); err != nil {
		return err
	}

	switch opcode {
	case 0xa0:
		v, err := c.busRead(seg, offset)
		if err != nil {
			return err
		}
		c.Regs.setReg8(0, v)
	case 0xa1:
		v, err := c.read16(seg, offset)
		if err != nil {
			return err
		}
		c.Regs.R[regAX] = v
	case 0xa2:
		return c.busWrite(seg, offset, c.Regs.reg8(0))
	case 0xa3:
		return c.write16(seg, offset, c.Regs.R[regAX])
	}
	return nil
}

func (c *CPU) execMovRMImm(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	if err = c.cycles(opcodes[opcode].cycles + ea.cycles); err != nil {
		return err
	}
	if opcode == 0xc7 {
		v, err := c.fetch16()
		if err != nil {
			return err
		}
		return c.writeRM16(ea, v)
	}
	v, err := c.fetch()
	if err != nil {
		return err
	}
	return c.writeRM8(ea, v)
}

func (c *CPU) execLoadFarPointer(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	reg := int(modrm>>3) & 0x07

	if err = c.cycles(opcodes[opcode].cycles + ea.cycles - 16); err != nil {
		return err
	}

	off, err := c.read16(ea.seg, ea.offset)
	if err != nil {
		return err
	}
	seg, err := c.read16(ea.seg, ea.offset+2)
	if err != nil {
		return err
	}
	c.Regs.R[reg] = off
	if opcode == 0xc4 {
		c.Regs.S[segES] = seg
	} else {
		c.Regs.S[segDS] = seg
	}
	return nil
}

func (c *CPU) execCallNear() error {
	rel, err := c.fetch16()
	if err != nil {
		return err
	}
	if err = c.cycles(opcodes[0xe8].cycles - 8); err != nil {
		return err
	}
	if err = c.push16(c.Regs.IP); err != nil {
		return err
	}
	c.Regs.IP += rel
	c.flushQueue()
	return nil
}

func (c *CPU) execCallFar() error {
	ip, err := c.fetch16()
	if err != nil {
		return err
	}
	cs, err := c.fetch16()
	if err != nil {
		return err
	}
	if err = c.cycles(opcodes[0x9a].cycles - 16); err != nil {
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
}

func (c *CPU) execRetNear(hasImm bool) error {
	var imm uint16
	var err error
	if hasImm {
		if imm, err = c.fetch16(); err != nil {
			return err
		}
	}
	if err = c.cycles(opcodes[0xc3].cycles - 8); err != nil {
		return err
	}
	ip, err := c.pop16()
	if err != nil {
		return err
	}
	c.Regs.IP = ip
	c.Regs.R[regSP] += imm
	c.flushQueue()
	return nil
}

func (c *CPU) execRetFar(hasImm bool) error {
	var imm uint16
	var err error
	if hasImm {
		if imm, err = c.fetch16(); err != nil {
			return err
		}
	}
	if err = c.cycles(opcodes[0xcb].cycles - 16); err != nil {
		return err
	}
	ip, err := c.pop16()
	if err != nil {
		return err
	}
	cs, err := c.pop16()
	if err != nil {
		return err
	}
	c.Regs.IP = ip
	c.Regs.S[segCS] = cs
	c.Regs.R[regSP] += imm
	c.flushQueue()
	return nil
}

func (c *CPU) execIret() error {
	if err := c.cycles(opcodes[0xcf].cycles - 24); err != nil {
		return err
	}
	ip, err := c.pop16()
	if err != nil {
		return err
	}
	cs, err := c.pop16()
	if err != nil {
		return err
	}
	fl, err := c.pop16()
	if err != nil {
		return err
	}
	c.Regs.IP = ip
	c.Regs.S[segCS] = cs
	c.Regs.Flags = fl | flagsAlways
	c.flushQueue()
	return nil
}

func (c *CPU) execShiftGroup(opcode uint8) error {
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	op := int(modrm>>3) & 0x07

	count := 1
	if opcode >= 0xd2 {
		count = int(c.Regs.reg8(1)) // CL
	}

	// variable shifts cost four clocks per bit shifted
	extra := 0
	if opcode >= 0xd2 {
		extra = 4 * count
	}
	if err = c.cycles(opcodes[opcode].cycles + ea.cycles + extra); err != nil {
		return err
	}

	if opcode&0x01 != 0 {
		v, err := c.readRM16(ea)
		if err != nil {
			return err
		}
		r := c.shift(op, v, count, 16)
		if !ea.isReg {
			if err = c.cycles(memWritePenalty); err != nil {
				return err
			}
		}
		return c.writeRM16(ea, r)
	}
	v, err := c.readRM8(ea)
	if err != nil {
		return err
	}
	r := c.shift(op, uint16(v), count, 8)
	if !ea.isReg {
		if err = c.cycles(memWritePenalty); err != nil {
			return err
		}
	}
	return c.writeRM8(ea, uint8(r))
}

func (c *CPU) execEsc() error {
	// coprocessor opcodes fetch their memory operand and discard it
	modrm, err := c.fetch()
	if err != nil {
		return err
	}
	ea, err := c.resolveModRM(modrm)
	if err != nil {
		return err
	}
	if err = c.cycles(2 + ea.cycles); err != nil {
		return err
	}
	if !ea.isReg {
		if _, err = c.readRM16(ea); err != nil {
			return err
		}
	}
	return nil
}

func (c *CPU) execIn(word bool, port uint16, cyc int) error {
	if err := c.cycles(cyc - 4); err != nil {
		return err
	}
	lo, err := c.portIn(port)
	if err != nil {
		return err
	}
	if word {
		hi, err := c.portIn(port + 1)
		if err != nil {
			return err
		}
		c.Regs.R[regAX] = uint16(lo) | uint16(hi)<<8
		return nil
	}
	c.Regs.setReg8(0, lo)
	return nil
}

func (c *CPU) execOut(word bool, port uint16, cyc int) error {
	if err := c.cycles(cyc - 4); err != nil {
		return err
	}
	if err := c.portOut(port, c.Regs.reg8(0)); err != nil {
		return err
	}
	if word {
		return c.portOut(port+1, uint8(c.Regs.R[regAX]>>8))
	}
	return nil
}
