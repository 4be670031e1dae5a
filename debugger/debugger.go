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

// Package debugger wraps a machine with simple interactive-less debugging
// helpers: single stepping with a trace line per instruction, breakpoints
// on code addresses, and state dumps. It is deliberately small; inspection
// beyond this is better done in tests or with the statsview server.
package debugger

import (
	"fmt"
	"io"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/disassembly"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/hardware/cpu"
)

// limit on RunUntil before giving up on the breakpoint.
const breakpointLimit = 50000000

// Debugger wraps a machine.
type Debugger struct {
	m *hardware.Machine

	// trace lines are written here if non-nil
	Trace io.Writer
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type.
func NewDebugger(m *hardware.Machine) *Debugger {
	return &Debugger{m: m}
}

// Step the machine by one instruction. The trace line describes the
// instruction that is about to execute.
func (dbg *Debugger) Step() error {
	if dbg.Trace != nil {
		regs := dbg.m.CPU.Regs
		dsm := disassembly.FromBus(dbg.m.Bus, regs.S[cpu.CS], regs.IP, 1)
		fmt.Fprintf(dbg.Trace, "%s\n", dsm.Entries[0].String())
	}

	return dbg.m.Step()
}

// RunUntil steps the machine until execution reaches cs:ip. Gives up with
// an error after a generous instruction limit.
func (dbg *Debugger) RunUntil(cs, ip uint16) error {
	for i := 0; i < breakpointLimit; i++ {
		regs := dbg.m.CPU.Regs
		if regs.S[cpu.CS] == cs && regs.IP == ip {
			return nil
		}
		if err := dbg.Step(); err != nil {
			return err
		}
	}
	return curated.Errorf("debugger: breakpoint %04x:%04x never reached", cs, ip)
}
