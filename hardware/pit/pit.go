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

package pit

import (
	"fmt"
)

// PIT port assignments on the XT.
const (
	PortCounter0 = 0x40
	PortCounter1 = 0x41
	PortCounter2 = 0x42
	PortControl  = 0x43
)

// Mode is a channel's counting mode, 0 to 5 as defined by the datasheet.
type Mode int

// List of channel modes.
const (
	ModeInterruptOnTerminal Mode = iota
	ModeHardwareOneShot
	ModeRateGenerator
	ModeSquareWave
	ModeSoftwareStrobe
	ModeHardwareStrobe
)

func (m Mode) String() string {
	switch m {
	case ModeInterruptOnTerminal:
		return "mode 0 (interrupt on terminal count)"
	case ModeHardwareOneShot:
		return "mode 1 (hardware one-shot)"
	case ModeRateGenerator:
		return "mode 2 (rate generator)"
	case ModeSquareWave:
		return "mode 3 (square wave)"
	case ModeSoftwareStrobe:
		return "mode 4 (software strobe)"
	case ModeHardwareStrobe:
		return "mode 5 (hardware strobe)"
	}
	panic("unknown PIT mode")
}

// access mode from control word bits 4 and 5.
type accessMode int

const (
	accessLatch accessMode = iota
	accessLoOnly
	accessHiOnly
	accessLoHi
)

// Channel is one of the PIT's three counters.
type Channel struct {
	Mode   Mode
	access accessMode

	// the reload value most recently written by the CPU. a reload of 0
	// counts as 65536
	Reload uint16

	// current count. counting only begins once the CPU has completed a
	// reload-value write sequence
	count    uint16
	counting bool

	// value held by the counter latch command. reads return the latched
	// value until both bytes have been read
	latch     uint16
	latched   bool
	readHiNext bool

	// lo/hi write sequence state
	writeHiNext bool
	loByte      uint8

	// Gate input. defaults to high; only channel 2's gate is wired anywhere
	// on the XT
	Gate bool

	// Out is the channel's output line
	Out bool

	// a gate rising edge arms modes 1 and 5 and reloads modes 2 and 3
	gateRise bool

	// mode 3 flips the output every half period; count the half periods
	// with the full reload on each flip
	sqwHigh bool
}

func (ch *Channel) String() string {
	return fmt.Sprintf("%s reload=%#04x count=%#04x out=%v gate=%v",
		ch.Mode, ch.Reload, ch.count, ch.Out, ch.Gate)
}

// effective count for a reload of zero is 65536. uint16 arithmetic gives us
// that for free as long as the decrement happens before the terminal test.
func (ch *Channel) reload() {
	ch.count = ch.Reload
}

// SetGate drives the channel's gate input.
func (ch *Channel) SetGate(gate bool) {
	if gate && !ch.Gate {
		ch.gateRise = true
	}
	ch.Gate = gate
}

// one PIT clock.
func (ch *Channel) step() {
	switch ch.Mode {
	case ModeInterruptOnTerminal:
		// out goes low on control write and high on terminal count, where it
		// stays until the next reload write. gate low pauses counting
		if !ch.counting || !ch.Gate {
			return
		}
		ch.count--
		if ch.count == 0 {
			ch.Out = true
		}

	case ModeHardwareOneShot:
		// out goes low on the gate trigger and high on terminal count
		if ch.gateRise && ch.counting {
			ch.gateRise = false
			ch.reload()
			ch.Out = false
		}
		if !ch.counting || ch.Out {
			return
		}
		ch.count--
		if ch.count == 0 {
			ch.Out = true
		}

	case ModeRateGenerator:
		// out is high except for the single clock before reload. gate low
		// forces out high and holds the count; the rising edge reloads
		if !ch.counting {
			return
		}
		if !ch.Gate {
			ch.Out = true
			return
		}
		if ch.gateRise {
			ch.gateRise = false
			ch.reload()
			ch.Out = true
			return
		}
		ch.count--
		switch ch.count {
		case 1:
			ch.Out = false
		case 0:
			ch.Out = true
			ch.reload()
		}

	case ModeSquareWave:
		// out is high for ceil(n/2) clocks and low for floor(n/2). modelled
		// by counting down by two and flipping at terminal
		if !ch.counting {
			return
		}
		if !ch.Gate {
			ch.Out = true
			ch.sqwHigh = true
			return
		}
		if ch.gateRise {
			ch.gateRise = false
			ch.reload()
			ch.Out = true
			ch.sqwHigh = true
			return
		}
		dec := uint16(2)
		if ch.count == 1 {
			dec = 1
		}
		// odd reload: high phase lasts one clock longer than the low phase
		if ch.Reload&1 == 1 && ch.count == ch.Reload {
			dec = 1
		}
		ch.count -= dec
		if ch.count == 0 {
			ch.sqwHigh = !ch.sqwHigh
			ch.Out = ch.sqwHigh
			ch.reload()
		}

	case ModeSoftwareStrobe:
		// out is high; strobes low for one clock on terminal count
		if !ch.counting || !ch.Gate {
			return
		}
		ch.Out = true
		ch.count--
		if ch.count == 0 {
			ch.Out = false
			ch.counting = false
		}

	case ModeHardwareStrobe:
		// as mode 4 but started by the gate trigger
		if ch.gateRise {
			ch.gateRise = false
			ch.reload()
		}
		if !ch.counting {
			return
		}
		ch.Out = true
		ch.count--
		if ch.count == 0 {
			ch.Out = false
			ch.counting = false
		}
	}
}

// PIT implements the 8253 programmable interval timer.
type PIT struct {
	Channels [3]*Channel
}

// NewPIT is the preferred method of initialisation for the PIT type.
func NewPIT() *PIT {
	p := &PIT{}
	for i := range p.Channels {
		p.Channels[i] = &Channel{Gate: true}
	}
	return p
}

// Reset returns the PIT to its power-on state. The 8253 datasheet says the
// mode of each channel is undefined at power-on; the observable XT behaviour
// is that nothing counts until the BIOS programs it, which is what an
// all-zero channel gives us.
func (p *PIT) Reset() {
	for i := range p.Channels {
		gate := p.Channels[i].Gate
		*p.Channels[i] = Channel{Gate: gate}
	}
}

func (p *PIT) String() string {
	return fmt.Sprintf("ch0: %s\nch1: %s\nch2: %s", p.Channels[0], p.Channels[1], p.Channels[2])
}

// Step advances all three counters by one PIT clock. Called by the machine
// every fourth CPU tick.
func (p *PIT) Step() {
	for i := range p.Channels {
		p.Channels[i].step()
	}
}

// PortWrite implements the bus.PortDevice interface.
func (p *PIT) PortWrite(port uint16, data uint8) {
	switch port {
	case PortControl:
		p.writeControl(data)
	case PortCounter0, PortCounter1, PortCounter2:
		p.writeCounter(p.Channels[port-PortCounter0], data)
	}
}

// PortRead implements the bus.PortDevice interface.
func (p *PIT) PortRead(port uint16) uint8 {
	switch port {
	case PortCounter0, PortCounter1, PortCounter2:
		return p.readCounter(p.Channels[port-PortCounter0])
	}
	// the control register cannot be read back on the 8253
	return 0xff
}

func (p *PIT) writeControl(data uint8) {
	if data>>6 == 0x03 {
		// read-back is an 8254 command; the 8253 ignores it
		return
	}
	ch := p.Channels[data>>6]

	access := accessMode((data >> 4) & 0x03)
	if access == accessLatch {
		// counter latch command. latches the current count without
		// disturbing anything else
		if !ch.latched {
			ch.latch = ch.count
			ch.latched = true
			ch.readHiNext = false
		}
		return
	}

	mode := Mode((data >> 1) & 0x07)
	if mode > ModeHardwareStrobe {
		// modes 6 and 7 alias to 2 and 3
		mode -= 4
	}

	gate := ch.Gate
	*ch = Channel{Mode: mode, access: access, Gate: gate}

	// mode 0 drops the output immediately on the control write; every other
	// mode idles high
	ch.Out = mode != ModeInterruptOnTerminal
	ch.sqwHigh = true
}

func (p *PIT) writeCounter(ch *Channel, data uint8) {
	if ch.access == accessLatch {
		// no control word has programmed this channel yet
		return
	}

	switch ch.access {
	case accessLoOnly:
		ch.Reload = uint16(data)
	case accessHiOnly:
		ch.Reload = uint16(data) << 8
	case accessLoHi:
		if !ch.writeHiNext {
			ch.loByte = data
			ch.writeHiNext = true
			// a new reload sequence stops a mode 0 count mid-flight
			if ch.Mode == ModeInterruptOnTerminal {
				ch.counting = false
				ch.Out = false
			}
			return
		}
		ch.writeHiNext = false
		ch.Reload = uint16(data)<<8 | uint16(ch.loByte)
	}

	ch.reload()
	ch.counting = true
}

func (p *PIT) readCounter(ch *Channel) uint8 {
	v := ch.count
	if ch.latched {
		v = ch.latch
	}

	switch ch.access {
	case accessLoOnly:
		ch.latched = false
		return uint8(v)
	case accessHiOnly:
		ch.latched = false
		return uint8(v >> 8)
	default:
		if !ch.readHiNext {
			ch.readHiNext = true
			return uint8(v)
		}
		ch.readHiNext = false
		ch.latched = false
		return uint8(v >> 8)
	}
}
