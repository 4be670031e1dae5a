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

package hardware_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/hardware/cpu"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

// timerProgram initialises the PIC for base vector 8, programs PIT channel
// 0 as a rate generator and halts with interrupts enabled. The vector 8
// handler increments AX and halts again.
var timerProgram = []byte{
	0xb0, 0x13, 0xe6, 0x20, // MOV AL,13; OUT 20,AL   ICW1
	0xb0, 0x08, 0xe6, 0x21, // MOV AL,08; OUT 21,AL   ICW2: base 8
	0xb0, 0x01, 0xe6, 0x21, // MOV AL,01; OUT 21,AL   ICW4
	0xb0, 0x36, 0xe6, 0x43, // MOV AL,36; OUT 43,AL   ch0 mode 3 lohi
	0xb0, 0x40, 0xe6, 0x40, // MOV AL,40; OUT 40,AL   reload lo
	0xb0, 0x00, 0xe6, 0x40, // MOV AL,00; OUT 40,AL   reload hi: N=64
	0xfb,       // STI
	0xf4,       // HLT
	0xeb, 0xfd, // JMP back to the HLT
}

var timerHandler = []byte{
	0x40,       // INC AX
	0xb0, 0x20, // MOV AL,20
	0xe6, 0x20, // OUT 20,AL   EOI
	0xcf, // IRET
}

func setupMachine(t *testing.T) *hardware.Machine {
	t.Helper()
	m, err := hardware.NewMachine(screen.Model5160, screen.AdapterCGA, nil)
	test.ExpectSuccess(t, err)

	for i, v := range timerProgram {
		m.Bus.Poke(uint32(0x100+i), v)
	}
	for i, v := range timerHandler {
		m.Bus.Poke(uint32(0x500+i), v)
	}
	// vector 8 -> 0000:0500
	m.Bus.Poke(8*4+0, 0x00)
	m.Bus.Poke(8*4+1, 0x05)
	m.Bus.Poke(8*4+2, 0x00)
	m.Bus.Poke(8*4+3, 0x00)

	m.CPU.Regs.S[cpu.SS] = 0
	m.CPU.Regs.R[cpu.SP] = 0xfffe
	m.CPU.Jump(0, 0x100)
	return m
}

func TestTimerInterrupt(t *testing.T) {
	m := setupMachine(t)

	// run well past one timer period: N=64 PIT clocks is 256 CPU ticks
	test.ExpectSuccess(t, m.RunForTicks(4000))

	// the handler has run at least once and control returned to the HLT
	if m.CPU.Regs.R[cpu.AX] == 0 {
		t.Fatalf("timer interrupt never delivered")
	}
}

func TestDeterminism(t *testing.T) {
	a := setupMachine(t)
	b := setupMachine(t)

	test.ExpectSuccess(t, a.RunForTicks(10000))
	test.ExpectSuccess(t, b.RunForTicks(10000))

	test.ExpectEquality(t, a.Ticks(), b.Ticks())
	test.ExpectEquality(t, a.CPU.Regs.String(), b.CPU.Regs.String())
	test.ExpectEquality(t, a.CPU.TotalCycles, b.CPU.TotalCycles)
	test.ExpectEquality(t, a.Screen.GetCoords(), b.Screen.GetCoords())
}

func TestResetRoundTrip(t *testing.T) {
	m := setupMachine(t)
	test.ExpectSuccess(t, m.RunForTicks(5000))
	test.ExpectSuccess(t, m.Reset())

	test.ExpectEquality(t, m.Ticks(), 0)
	test.ExpectEquality(t, m.CPU.Regs.S[cpu.CS], 0xffff)
	test.ExpectEquality(t, m.CPU.Regs.IP, 0)
	test.ExpectEquality(t, m.Screen.GetCoords().Frame, 0)

	// a reset machine replays identically to a fresh one
	fresh := setupMachine(t)

	for i, v := range timerProgram {
		m.Bus.Poke(uint32(0x100+i), v)
	}
	for i, v := range timerHandler {
		m.Bus.Poke(uint32(0x500+i), v)
	}
	m.Bus.Poke(8*4+1, 0x05)
	m.CPU.Regs.S[cpu.SS] = 0
	m.CPU.Regs.R[cpu.SP] = 0xfffe
	m.CPU.Jump(0, 0x100)

	test.ExpectSuccess(t, m.RunForTicks(10000))
	test.ExpectSuccess(t, fresh.RunForTicks(10000))
	test.ExpectEquality(t, m.CPU.Regs.String(), fresh.CPU.Regs.String())
}

func TestRunForFrameCount(t *testing.T) {
	m := setupMachine(t)

	// program the CRTC so the raster actually scans
	for _, w := range [][2]uint8{
		{0, 56}, {1, 40}, {2, 45}, {3, 10},
		{4, 31}, {6, 25}, {7, 28}, {9, 7},
	} {
		m.Video.PortWrite(0x3d4, w[0])
		m.Video.PortWrite(0x3d5, w[1])
	}
	m.Video.PortWrite(0x3d8, 0x08)

	test.ExpectSuccess(t, m.RunForFrameCount(2))
	test.ExpectEquality(t, m.Screen.GetCoords().Frame, 2)
}

func TestRunEnds(t *testing.T) {
	m := setupMachine(t)

	n := 0
	err := m.Run(func() (bool, error) {
		n++
		return n < 3, nil
	})
	test.ExpectSuccess(t, curated.Is(err, hardware.Ended))
}

func TestTurbo(t *testing.T) {
	stock := setupMachine(t)
	turbo := setupMachine(t)
	test.ExpectSuccess(t, turbo.SetTurbo(2))

	for _, m := range []*hardware.Machine{stock, turbo} {
		for _, w := range [][2]uint8{
			{0, 56}, {1, 40}, {2, 45}, {3, 10},
			{4, 31}, {6, 25}, {7, 28}, {9, 7},
		} {
			m.Video.PortWrite(0x3d4, w[0])
			m.Video.PortWrite(0x3d5, w[1])
		}
		m.Video.PortWrite(0x3d8, 0x08)
	}

	test.ExpectSuccess(t, stock.RunForTicks(4000))
	test.ExpectSuccess(t, turbo.RunForTicks(4000))

	// device time runs at half speed relative to the turbo CPU, so the
	// raster covers about half as many scanlines in the same CPU tick count
	stockLine := stock.Screen.GetCoords().Scanline
	turboLine := turbo.Screen.GetCoords().Scanline
	test.ExpectSuccess(t, turboLine < stockLine)
	test.ExpectSuccess(t, turboLine >= stockLine/2-1)

	test.ExpectFailure(t, stock.SetTurbo(0))
}
