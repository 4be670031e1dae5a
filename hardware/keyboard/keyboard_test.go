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

package keyboard_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/keyboard"
	"github.com/gopherxt/gopherxt/hardware/ppi"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

func TestScancodeDelivery(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)
	kb := keyboard.NewKeyboard(p)

	test.ExpectSuccess(t, kb.KeyDown("A"))

	// delivered on the first tick: the shift register is free and there is
	// no pending delay
	kb.Step()
	test.ExpectSuccess(t, p.KeyboardIRQ())
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x1e)
}

func TestSerialDelay(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)
	kb := keyboard.NewKeyboard(p)

	test.ExpectSuccess(t, kb.KeyDown("A"))
	test.ExpectSuccess(t, kb.KeyUp("A"))

	kb.Step()
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x1e)

	// acknowledge the scancode the way the BIOS does
	p.PortWrite(ppi.PortB, ppi.PortBKeyboardClr)
	p.PortWrite(ppi.PortB, 0)
	test.ExpectFailure(t, p.KeyboardIRQ())

	// the break code must not arrive before the serial delay has elapsed
	for i := 0; i < 1000; i++ {
		kb.Step()
	}
	test.ExpectFailure(t, p.KeyboardIRQ())

	for i := 0; i < 5000; i++ {
		kb.Step()
	}
	test.ExpectSuccess(t, p.KeyboardIRQ())
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x9e)
}

func TestUnrecognisedKey(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)
	kb := keyboard.NewKeyboard(p)
	test.ExpectFailure(t, kb.KeyDown("NoSuchKey"))
}

func TestHeldScancode(t *testing.T) {
	p := ppi.NewPPI(screen.Model5160, 0)
	kb := keyboard.NewKeyboard(p)

	test.ExpectSuccess(t, kb.Type("H", "I"))

	kb.Step()
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x23)

	// without an acknowledge the register holds the first scancode no
	// matter how long we wait
	for i := 0; i < 20000; i++ {
		kb.Step()
	}
	test.ExpectEquality(t, p.PortRead(ppi.PortA), 0x23)
}
