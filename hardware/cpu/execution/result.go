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

// Package execution tracks the result of instruction execution: the raw
// bytes, the bus cycles issued and the tick count. The validator compares
// Result values against the traces returned by real silicon; the debugger
// and disassembler use them for display.
package execution

import (
	"fmt"
	"strings"
)

// BusOpType classifies a single bus cycle.
type BusOpType int

// List of bus cycle types. CodeFetch covers prefetcher activity; the others
// are execution-unit traffic.
const (
	CodeFetch BusOpType = iota
	MemRead
	MemWrite
	IORead
	IOWrite
	IntAck
)

func (b BusOpType) String() string {
	switch b {
	case CodeFetch:
		return "CODE"
	case MemRead:
		return "MEMR"
	case MemWrite:
		return "MEMW"
	case IORead:
		return "IOR"
	case IOWrite:
		return "IOW"
	case IntAck:
		return "INTA"
	}
	return "???"
}

// BusOp is one bus cycle: type, physical address (or port) and the byte
// transferred.
type BusOp struct {
	Type BusOpType
	Addr uint32
	Data uint8
}

func (b BusOp) String() string {
	return fmt.Sprintf("%s %05x %02x", b.Type, b.Addr, b.Data)
}

// maximum instruction length on the 8088. anything longer is a decoder bug.
const MaxInstructionLen = 6

// Result records the execution of one instruction.
type Result struct {
	// physical address of the first byte
	Address uint32

	// the instruction bytes as decoded, including prefixes
	Bytes []uint8

	// every bus cycle the instruction caused, in issue order. prefetcher
	// fetches are interleaved exactly as they happened
	BusOps []BusOp

	// ticks consumed, including prefetcher stalls
	Cycles int

	// instruction caused a jump, call, interrupt or other control transfer
	// (and therefore a queue flush)
	Flush bool
}

// Reset prepares the Result for reuse, keeping allocations.
func (r *Result) Reset(address uint32) {
	r.Address = address
	r.Bytes = r.Bytes[:0]
	r.BusOps = r.BusOps[:0]
	r.Cycles = 0
	r.Flush = false
}

func (r Result) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%05x:", r.Address))
	for _, b := range r.Bytes {
		s.WriteString(fmt.Sprintf(" %02x", b))
	}
	s.WriteString(fmt.Sprintf(" [%d cycles]", r.Cycles))
	return s.String()
}
