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

package ppi_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/ppi"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

func TestKeyboardShiftRegister(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0x2d)

	test.ExpectEquality(t, p.KeyboardIRQ(), false)

	test.ExpectSuccess(t, p.PushScancode(0x1c))
	test.ExpectEquality(t, p.KeyboardIRQ(), true)
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x1c)

	// a second scancode is refused while the register is full
	test.ExpectFailure(t, p.PushScancode(0x9c))

	// the keyboard clear bit empties the register and drops IRQ1
	p.PortWrite(ppi.PortB, ppi.PortBKeyboardClr)
	test.ExpectEquality(t, p.KeyboardIRQ(), false)
	p.PortWrite(ppi.PortB, 0)

	test.ExpectSuccess(t, p.PushScancode(0x9c))
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x9c)
}

func TestGates(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)

	test.ExpectEquality(t, p.SpeakerGate(), false)
	test.ExpectEquality(t, p.Timer2Gate(), false)

	p.PortWrite(ppi.PortB, ppi.PortBSpeakerGate|ppi.PortBTimer2Gate)
	test.ExpectEquality(t, p.SpeakerGate(), true)
	test.ExpectEquality(t, p.Timer2Gate(), true)
}

func TestSwitchBlocks5150(t *testing.T) {
	p := ppi.NewPPI(screen.Model5150, 0xa5)

	// keyboard enable bit selects switches on port A
	p.PortWrite(ppi.PortB, ppi.PortBKeyboardEn)
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0xa5)

	// port C reads one nibble of the switch block at a time
	p.PortWrite(ppi.PortB, 0)
	test.ExpectEquality(t, p.PortRead(ppi.PortC)&0x0f, 0x05)
	p.PortWrite(ppi.PortB, ppi.PortBSwitchSelect)
	test.ExpectEquality(t, p.PortRead(ppi.PortC)&0x0f, 0x0a)
}

func TestTimer2OutReadback(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)

	test.ExpectEquality(t, p.PortRead(ppi.PortC)&0x20, 0)
	p.Timer2Out = true
	test.ExpectEquality(t, p.PortRead(ppi.PortC)&0x20, 0x20)
}

func TestControlWriteClearsPorts(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)

	p.PortWrite(ppi.PortB, ppi.PortBSpeakerGate)
	p.PortWrite(ppi.PortControl, 0x99)
	test.ExpectEquality(t, p.SpeakerGate(), false)
	test.ExpectEquality(t, p.PortRead(ppi.PortControl), 0x99)
}
