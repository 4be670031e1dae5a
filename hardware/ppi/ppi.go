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

// Package ppi implements the 8255 programmable peripheral interface as wired
// in the 5150 and 5160: port A carries the keyboard shift register (or the
// DIP switches on the 5150, selected by a bit on port B), port B carries
// control bits (speaker gate, timer 2 gate, keyboard clear) and port C reads
// back switch blocks and the timer 2 output.
package ppi

import (
	"fmt"

	"github.com/gopherxt/gopherxt/screen"
)

// PPI port assignments on the XT.
const (
	PortA       = 0x60
	PortB       = 0x61
	PortC       = 0x62
	PortControl = 0x63
)

// Port B control bits.
const (
	PortBTimer2Gate   = 0x01
	PortBSpeakerGate  = 0x02
	PortBSwitchSelect = 0x04 // 5150: select switch block half on port C
	PortBCassetteOff  = 0x08
	PortBNMIParity    = 0x10
	PortBNMIIO        = 0x20
	PortBKeyboardClr  = 0x40 // hold keyboard clock low, clearing the shift register
	PortBKeyboardEn   = 0x80 // 5150: select switches rather than keyboard on port A
)

// PPI implements the 8255 as wired on the XT planar.
type PPI struct {
	model screen.Model

	// the DIP switch settings, fixed at construction
	switches uint8

	// the three ports. portA is only meaningful when the keyboard shift
	// register holds a scancode
	portB uint8

	// keyboard shift register and its full flag. the XT keyboard interface
	// holds one scancode at a time; IRQ1 stays asserted while it's full
	scancode uint8
	kbFull   bool

	// control register as written through port 0x63. all three ports keep
	// their XT directions regardless; the register only matters for read
	// back and for the reconfigure side effect of clearing the ports
	control uint8

	// pit channel 2 output, wired to a port C read bit
	Timer2Out bool
}

// NewPPI is the preferred method of initialisation for the PPI type. The
// switches argument carries the DIP switch settings: installed RAM, video
// type, number of drives.
func NewPPI(model screen.Model, switches uint8) *PPI {
	ppi := &PPI{model: model, switches: switches}
	ppi.Reset()
	return ppi
}

// Reset returns the chip to its power-on state. The switches are physical
// and survive.
func (ppi *PPI) Reset() {
	ppi.portB = 0
	ppi.scancode = 0
	ppi.kbFull = false
	ppi.control = 0x99 // mode 0, A and C input; the XT BIOS writes this value
	ppi.Timer2Out = false
}

func (ppi *PPI) String() string {
	return fmt.Sprintf("B=%08b scancode=%#02x full=%v", ppi.portB, ppi.scancode, ppi.kbFull)
}

// PushScancode loads the keyboard shift register. Returns false if the
// register is still occupied by a previous scancode; the real interface
// would lose the byte too.
func (ppi *PPI) PushScancode(code uint8) bool {
	if ppi.kbFull || ppi.portB&PortBKeyboardClr != 0 {
		return false
	}
	ppi.scancode = code
	ppi.kbFull = true
	return true
}

// KeyboardIRQ returns the state of the IRQ1 line: high while the shift
// register holds a scancode.
func (ppi *PPI) KeyboardIRQ() bool {
	return ppi.kbFull
}

// SpeakerGate returns the state of the speaker enable bit on port B.
func (ppi *PPI) SpeakerGate() bool {
	return ppi.portB&PortBSpeakerGate != 0
}

// Timer2Gate returns the state of the PIT channel 2 gate bit on port B.
func (ppi *PPI) Timer2Gate() bool {
	return ppi.portB&PortBTimer2Gate != 0
}

// PortRead implements the bus.PortDevice interface.
func (ppi *PPI) PortRead(port uint16) uint8 {
	switch port {
	case PortA:
		if ppi.model == screen.Model5150 && ppi.portB&PortBKeyboardEn != 0 {
			return ppi.switches
		}
		if ppi.kbFull {
			return ppi.scancode
		}
		return 0
	case PortB:
		return ppi.portB
	case PortC:
		var v uint8
		if ppi.model == screen.Model5150 {
			// switch block halves selected by a port B bit
			if ppi.portB&PortBSwitchSelect != 0 {
				v = ppi.switches >> 4
			} else {
				v = ppi.switches & 0x0f
			}
		} else {
			v = ppi.switches & 0x0f
		}
		if ppi.Timer2Out {
			v |= 0x20
		}
		return v
	case PortControl:
		return ppi.control
	}
	return 0xff
}

// PortWrite implements the bus.PortDevice interface.
func (ppi *PPI) PortWrite(port uint16, data uint8) {
	switch port {
	case PortB:
		// raising the keyboard clear bit empties the shift register and
		// drops IRQ1
		if data&PortBKeyboardClr != 0 {
			ppi.scancode = 0
			ppi.kbFull = false
		}
		ppi.portB = data
	case PortControl:
		if data&0x80 != 0 {
			// mode set: reconfigures all three port directions atomically
			// and clears the output latches
			ppi.control = data
			ppi.portB = 0
		}
		// bit set/reset commands address port C which has no output bits
		// wired on the XT
	}
}
