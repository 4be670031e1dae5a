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

// Package disassembly is a static 8088 disassembler built on the CPU's
// decode tables. Disassembly is linear: it decodes consecutive
// instructions from a starting address without following control flow.
// Good enough for ROM listings and validator traces, but it will happily
// disassemble data tables as though they were code.
package disassembly

import (
	"fmt"
	"io"
	"strings"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/hardware/cpu"
)

// Entry is a single disassembled instruction.
type Entry struct {
	CS, IP uint16
	Bytes  []uint8
	Result cpu.DisasmEntry
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%04x:%04x  ", e.CS, e.IP))
	for _, b := range e.Bytes {
		s.WriteString(fmt.Sprintf("%02x ", b))
	}
	for i := len(e.Bytes); i < 7; i++ {
		s.WriteString("   ")
	}
	s.WriteString(" ")
	s.WriteString(e.Result.String())
	return s.String()
}

// Disassembly is an ordered list of entries decoded from one pass over a
// region of memory.
type Disassembly struct {
	Entries []Entry
}

// FromBus decodes count instructions from cs:ip, reading through Peek so
// the pass has no side effects on the machine.
func FromBus(b *bus.Bus, cs, ip uint16, count int) *Disassembly {
	read := func(offset uint16) uint8 {
		return b.Peek(uint32(cs)<<4 + uint32(offset))
	}
	return disassemble(read, cs, ip, count)
}

// FromData decodes a raw memory image as though it were loaded at cs:ip.
// The whole image is decoded.
func FromData(data []byte, cs, ip uint16) *Disassembly {
	read := func(offset uint16) uint8 {
		idx := int(offset) - int(ip)
		if idx < 0 || idx >= len(data) {
			return 0
		}
		return data[idx]
	}

	// worst case is one instruction per byte
	dsm := disassemble(read, cs, ip, len(data))

	// trim entries that ran off the end of the image
	for i, e := range dsm.Entries {
		if int(e.IP)-int(ip)+len(e.Bytes) > len(data) {
			dsm.Entries = dsm.Entries[:i]
			break
		}
	}

	return dsm
}

func disassemble(read func(uint16) uint8, cs, ip uint16, count int) *Disassembly {
	dsm := &Disassembly{Entries: make([]Entry, 0, count)}

	for i := 0; i < count; i++ {
		r := cpu.Disassemble(read, ip)

		e := Entry{CS: cs, IP: ip, Result: r}
		for j := 0; j < r.Length; j++ {
			e.Bytes = append(e.Bytes, read(ip+uint16(j)))
		}
		dsm.Entries = append(dsm.Entries, e)

		ip += uint16(r.Length)
	}

	return dsm
}

// Write the disassembly, one entry per line.
func (dsm *Disassembly) Write(w io.Writer) error {
	for _, e := range dsm.Entries {
		if _, err := io.WriteString(w, e.String()+"\n"); err != nil {
			return curated.Errorf("disassembly: %v", err)
		}
	}
	return nil
}

// Grep returns the entries whose formatted instruction contains the
// search string. Matching is case insensitive.
func (dsm *Disassembly) Grep(search string) []Entry {
	search = strings.ToUpper(search)
	m := []Entry{}
	for _, e := range dsm.Entries {
		if strings.Contains(strings.ToUpper(e.Result.String()), search) {
			m = append(m, e)
		}
	}
	return m
}
