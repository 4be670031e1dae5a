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

// FrameSize is the size of a register frame on the wire.
const FrameSize = 28

// the order registers appear in a frame. this matches the load/store
// layout of the harness firmware and must not change independently of it.
// AX, BX, CX, DX, SS, SP, FLAGS, IP, CS, DS, ES, BP, SI, DI.

// RegsToFrame encodes a register file into the 28 byte wire frame.
func RegsToFrame(buf []byte, regs cpu.Registers) {
	put := func(idx int, v uint16) {
		buf[idx] = uint8(v)
		buf[idx+1] = uint8(v >> 8)
	}

	put(0, regs.R[cpu.AX])
	put(2, regs.R[cpu.BX])
	put(4, regs.R[cpu.CX])
	put(6, regs.R[cpu.DX])
	put(8, regs.S[cpu.SS])
	put(10, regs.R[cpu.SP])
	put(12, regs.Flags)
	put(14, regs.IP)
	put(16, regs.S[cpu.CS])
	put(18, regs.S[cpu.DS])
	put(20, regs.S[cpu.ES])
	put(22, regs.R[cpu.BP])
	put(24, regs.R[cpu.SI])
	put(26, regs.R[cpu.DI])
}

// FrameToRegs decodes a 28 byte wire frame into a register file.
func FrameToRegs(buf []byte) cpu.Registers {
	get := func(idx int) uint16 {
		return uint16(buf[idx]) | uint16(buf[idx+1])<<8
	}

	regs := cpu.Registers{}
	regs.R[cpu.AX] = get(0)
	regs.R[cpu.BX] = get(2)
	regs.R[cpu.CX] = get(4)
	regs.R[cpu.DX] = get(6)
	regs.S[cpu.SS] = get(8)
	regs.R[cpu.SP] = get(10)
	regs.Flags = get(12)
	regs.IP = get(14)
	regs.S[cpu.CS] = get(16)
	regs.S[cpu.DS] = get(18)
	regs.S[cpu.ES] = get(20)
	regs.R[cpu.BP] = get(22)
	regs.R[cpu.SI] = get(24)
	regs.R[cpu.DI] = get(26)

	return regs
}
