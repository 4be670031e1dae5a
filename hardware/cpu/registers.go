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
)

// Flag bits in the FLAGS register.
const (
	FlagC uint16 = 0x0001
	FlagP uint16 = 0x0004
	FlagA uint16 = 0x0010
	FlagZ uint16 = 0x0040
	FlagS uint16 = 0x0080
	FlagT uint16 = 0x0100
	FlagI uint16 = 0x0200
	FlagD uint16 = 0x0400
	FlagO uint16 = 0x0800
)

// flagsAlways is the set of bits hardwired high on the 8088. Bits 12-15
// read as 1, as does the reserved bit 1.
const flagsAlways uint16 = 0xf002

// register indices used by the reg field of the modrm byte and by the
// short-form opcodes.
const (
	regAX = iota
	regCX
	regDX
	regBX
	regSP
	regBP
	regSI
	regDI
)

// segment register indices.
const (
	segES = iota
	segCS
	segSS
	segDS
)

// Exported indices into the R and S arrays, for callers outside the
// package: the machine, the validator and the debugger.
const (
	AX = regAX
	CX = regCX
	DX = regDX
	BX = regBX
	SP = regSP
	BP = regBP
	SI = regSI
	DI = regDI

	ES = segES
	CS = segCS
	SS = segSS
	DS = segDS
)

var regNames16 = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}
var regNames8 = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}
var segNames = [4]string{"ES", "CS", "SS", "DS"}

// Registers is the complete user-visible register file.
type Registers struct {
	// general registers indexed by the reg constants
	R [8]uint16

	// segment registers indexed by the seg constants
	S [4]uint16

	IP    uint16
	Flags uint16
}

// reset restores the power-on register state of the 8088: CS:IP at
// ffff:0000 so the first fetch hits the top paragraph of the address space,
// everything else cleared.
func (r *Registers) reset() {
	for i := range r.R {
		r.R[i] = 0
	}
	for i := range r.S {
		r.S[i] = 0
	}
	r.S[segCS] = 0xffff
	r.IP = 0x0000
	r.Flags = flagsAlways
}

// reg8 reads an 8-bit register by modrm index: AL CL DL BL AH CH DH BH.
func (r *Registers) reg8(idx int) uint8 {
	if idx < 4 {
		return uint8(r.R[idx])
	}
	return uint8(r.R[idx-4] >> 8)
}

func (r *Registers) setReg8(idx int, v uint8) {
	if idx < 4 {
		r.R[idx] = r.R[idx]&0xff00 | uint16(v)
	} else {
		r.R[idx-4] = r.R[idx-4]&0x00ff | uint16(v)<<8
	}
}

// flag returns the named flag as a bool.
func (r *Registers) flag(f uint16) bool {
	return r.Flags&f != 0
}

func (r *Registers) setFlag(f uint16, v bool) {
	if v {
		r.Flags |= f
	} else {
		r.Flags &^= f
	}
}

func (r Registers) String() string {
	s := strings.Builder{}
	for i, n := range regNames16 {
		s.WriteString(fmt.Sprintf("%s=%04x ", n, r.R[i]))
	}
	for i, n := range segNames {
		s.WriteString(fmt.Sprintf("%s=%04x ", n, r.S[i]))
	}
	s.WriteString(fmt.Sprintf("IP=%04x FL=%04x", r.IP, r.Flags))
	return s.String()
}
