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

package debugger

import (
	"fmt"
	"io"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/gopherxt/gopherxt/curated"
)

// DumpRegisters writes the register file and current screen coordinates.
func (dbg *Debugger) DumpRegisters(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%s  cycles=%d\n",
		dbg.m.CPU.Regs.String(), dbg.m.Screen.GetCoords(), dbg.m.CPU.TotalCycles)
	if err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	return nil
}

// DumpMemory writes a hex dump of physical memory. Reads through Peek so
// devices do not see the access.
func (dbg *Debugger) DumpMemory(w io.Writer, start uint32, length int) error {
	for base := start &^ 0x0f; base < start+uint32(length); base += 16 {
		s := strings.Builder{}
		s.WriteString(fmt.Sprintf("%05x ", base))

		ascii := strings.Builder{}
		for i := uint32(0); i < 16; i++ {
			v := dbg.m.Bus.Peek(base + i)
			s.WriteString(fmt.Sprintf(" %02x", v))
			if v >= 0x20 && v < 0x7f {
				ascii.WriteByte(v)
			} else {
				ascii.WriteByte('.')
			}
		}

		if _, err := fmt.Fprintf(w, "%s  %s\n", s.String(), ascii.String()); err != nil {
			return curated.Errorf("debugger: %v", err)
		}
	}
	return nil
}

// DumpMachine writes a graphviz visualisation of the entire machine
// aggregate. The output is large; feed it to dot.
func (dbg *Debugger) DumpMachine(w io.Writer) {
	memviz.Map(w, dbg.m)
}
