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

package pic

import (
	"fmt"

	"github.com/gopherxt/gopherxt/logger"
)

// PIC port assignments on the XT.
const (
	PortCommand = 0x20
	PortData    = 0x21
)

// Well known request lines on the XT.
const (
	IRQ0Timer    = 0
	IRQ1Keyboard = 1
	IRQ5Disk     = 5
	IRQ6Floppy   = 6
)

// number of ticks between an IMR write and the re-evaluation of the INT
// line. the 8259A datasheet is not explicit about this delay; it has been
// measured against real hardware with the validator harness and one tick is
// what the boot sequences that care about it require.
const imrSettleTicks = 1

// PIC implements the 8259A programmable interrupt controller.
type PIC struct {
	// interrupt request register. a bit is set when a device asserts an
	// unmasked or masked request line; masking is applied at resolution
	// time, not at latch time
	irr uint8

	// in-service register
	isr uint8

	// interrupt mask register
	imr uint8

	// base vector number programmed with ICW2. 0x08 on the XT
	vectorBase uint8

	// initialisation sequence state. icwStep 0 means initialised
	icwStep  int
	needICW4 bool

	// previous level of each request line for edge detection
	lines uint8

	// OCW3 selects whether a command-port read returns the IRR or the ISR
	readISR bool

	// number of ticks before a fresh IMR write takes effect
	imrSettle int
	imrNext   uint8

	// INT output as seen by the CPU. re-evaluated on Step()
	intOutput bool
}

// NewPIC is the preferred method of initialisation for the PIC type.
func NewPIC() *PIC {
	return &PIC{vectorBase: 0x08}
}

// Reset returns the controller to its power-on state. The real chip requires
// an ICW sequence before it does anything useful.
func (p *PIC) Reset() {
	*p = PIC{vectorBase: p.vectorBase}
}

func (p *PIC) String() string {
	return fmt.Sprintf("IRR=%08b ISR=%08b IMR=%08b INT=%v", p.irr, p.isr, p.imr, p.intOutput)
}

// SetIRQ drives one of the eight request lines. The 8259A in the XT is
// edge-triggered: a request latches on the rising edge of the line.
func (p *PIC) SetIRQ(line int, level bool) {
	bit := uint8(1) << line
	if level && p.lines&bit == 0 {
		// a mask write cannot retroactively clear a latched request, so the
		// latch takes no notice of the IMR
		p.irr |= bit
	}
	if level {
		p.lines |= bit
	} else {
		p.lines &^= bit
	}
}

// Step re-evaluates the INT output. Called by the machine once per tick,
// after devices have had their chance to assert request lines.
func (p *PIC) Step() {
	if p.imrSettle > 0 {
		p.imrSettle--
		if p.imrSettle == 0 {
			p.imr = p.imrNext
		}
	}
	p.intOutput = p.highestPending() != -1
}

// INT returns the state of the INT output line.
func (p *PIC) INT() bool {
	return p.intOutput
}

// highestPending returns the highest priority unmasked pending request, or
// -1. Fixed priority: line 0 is highest. A request does not interrupt an
// equal or higher priority request already in service.
func (p *PIC) highestPending() int {
	for line := 0; line < 8; line++ {
		bit := uint8(1) << line
		if p.isr&bit != 0 {
			// an equal or higher priority interrupt is in service
			return -1
		}
		if p.irr&bit != 0 && p.imr&bit == 0 {
			return line
		}
	}
	return -1
}

// Acknowledge is the CPU's INTA sequence: the highest priority pending
// request moves from the IRR to the ISR and the vector number is returned.
//
// If nothing is pending by the time the acknowledge arrives the 8259A
// supplies IRQ7's vector; the spurious interrupt the XT BIOS is careful to
// handle.
func (p *PIC) Acknowledge() uint8 {
	line := p.highestPending()
	if line == -1 {
		logger.Log("pic", "spurious interrupt acknowledge")
		return p.vectorBase + 7
	}

	bit := uint8(1) << line
	p.irr &^= bit
	p.isr |= bit
	p.intOutput = p.highestPending() != -1

	return p.vectorBase + uint8(line)
}

// PortWrite implements the bus.PortDevice interface.
func (p *PIC) PortWrite(port uint16, data uint8) {
	switch port {
	case PortCommand:
		if data&0x10 != 0 {
			// ICW1 restarts the initialisation sequence
			p.icwStep = 1
			p.needICW4 = data&0x01 != 0
			p.irr = 0
			p.isr = 0
			p.imr = 0
			p.imrSettle = 0
			p.readISR = false
			return
		}
		if data&0x08 != 0 {
			// OCW3
			switch data & 0x03 {
			case 0x02:
				p.readISR = false
			case 0x03:
				p.readISR = true
			}
			return
		}
		// OCW2
		p.ocw2(data)

	case PortData:
		switch p.icwStep {
		case 1:
			// ICW2: vector base. low three bits ignored
			p.vectorBase = data & 0xf8
			if p.needICW4 {
				p.icwStep = 2
			} else {
				p.icwStep = 0
			}
		case 2:
			// single mode on the XT: no ICW3. this write is ICW4 and ends
			// the sequence
			p.icwStep = 0
		default:
			// OCW1: mask register write. takes effect after the settle
			// delay; an already latched request is unaffected
			p.imrNext = data
			p.imrSettle = imrSettleTicks
		}
	}
}

func (p *PIC) ocw2(data uint8) {
	switch (data >> 5) & 0x07 {
	case 0x01:
		// non-specific EOI: clear the highest priority in-service bit
		for line := 0; line < 8; line++ {
			bit := uint8(1) << line
			if p.isr&bit != 0 {
				p.isr &^= bit
				return
			}
		}
	case 0x03:
		// specific EOI
		p.isr &^= 1 << (data & 0x07)
	default:
		// rotation modes are not used by the XT BIOS or by anything we've
		// run; log and ignore
		logger.Logf("pic", "unsupported OCW2 %02x", data)
	}
}

// PortRead implements the bus.PortDevice interface.
func (p *PIC) PortRead(port uint16) uint8 {
	switch port {
	case PortCommand:
		if p.readISR {
			return p.isr
		}
		return p.irr
	case PortData:
		return p.imr
	}
	return 0xff
}
