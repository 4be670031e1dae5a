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

package debugger_test

import (
	"strings"
	"testing"

	"github.com/gopherxt/gopherxt/debugger"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

func setupMachine(t *testing.T, program []byte) *hardware.Machine {
	t.Helper()

	m, err := hardware.NewMachine(screen.Model5160, screen.AdapterCGA, nil)
	test.ExpectSuccess(t, err)

	for i, v := range program {
		m.Bus.Poke(uint32(0x100+i), v)
	}
	m.CPU.Jump(0, 0x100)

	return m
}

func TestStepTrace(t *testing.T) {
	m := setupMachine(t, []byte{
		0xb8, 0x34, 0x12, // MOV AX,1234
		0x40, // INC AX
	})

	dbg := debugger.NewDebugger(m)
	trace := &strings.Builder{}
	dbg.Trace = trace

	test.ExpectSuccess(t, dbg.Step())
	test.ExpectSuccess(t, dbg.Step())

	test.ExpectSuccess(t, strings.Contains(trace.String(), "MOV AX,1234"))
	test.ExpectSuccess(t, strings.Contains(trace.String(), "INC AX"))
	test.ExpectEquality(t, m.CPU.Regs.R[0], uint16(0x1235))
}

func TestRunUntil(t *testing.T) {
	m := setupMachine(t, []byte{
		0xb9, 0x05, 0x00, // MOV CX,0005
		0x49,       // DEC CX
		0x75, 0xfd, // JNZ 0103
		0x90, // NOP
	})

	dbg := debugger.NewDebugger(m)
	test.ExpectSuccess(t, dbg.RunUntil(0, 0x106))
	test.ExpectEquality(t, m.CPU.Regs.IP, uint16(0x106))
	test.ExpectEquality(t, m.CPU.Regs.R[1], uint16(0)) // CX
}

func TestDumpMemory(t *testing.T) {
	m := setupMachine(t, []byte{'H', 'e', 'l', 'l', 'o'})
	dbg := debugger.NewDebugger(m)

	s := &strings.Builder{}
	test.ExpectSuccess(t, dbg.DumpMemory(s, 0x100, 16))

	test.ExpectSuccess(t, strings.HasPrefix(s.String(), "00100 "))
	test.ExpectSuccess(t, strings.Contains(s.String(), "48 65 6c 6c 6f"))
	test.ExpectSuccess(t, strings.Contains(s.String(), "Hello"))
}

func TestDumpRegisters(t *testing.T) {
	m := setupMachine(t, []byte{0x90})
	dbg := debugger.NewDebugger(m)

	s := &strings.Builder{}
	test.ExpectSuccess(t, dbg.DumpRegisters(s))
	test.ExpectSuccess(t, strings.Contains(s.String(), "IP=0100"))
}