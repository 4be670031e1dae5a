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

package dma

import (
	"fmt"

	"github.com/gopherxt/gopherxt/hardware/bus"
)

// DMA controller and page register ports on the XT.
const (
	PortBase     = 0x00 // 0x00-0x0f: the 8237 itself
	PortPageBase = 0x80 // 0x80-0x83: page registers (and the POST latch)
)

// number of ticks a single byte transfer holds the bus for. the 8237 runs a
// four state S1-S4 cycle like the CPU's own bus cycles.
const stealTicksPerByte = 4

// RefreshChannel is the channel wired to the PIT for DRAM refresh.
const RefreshChannel = 0

// Peripheral is the device end of a DMA channel.
type Peripheral interface {
	// DMARead supplies a byte for a device-to-memory transfer
	DMARead() uint8

	// DMAWrite accepts a byte from a memory-to-device transfer
	DMAWrite(data uint8)

	// TerminalCount signals that the channel's count has expired
	TerminalCount()
}

// transfer type from mode register bits 2-3.
const (
	transferVerify = 0x00
	transferWrite  = 0x04 // device to memory
	transferRead   = 0x08 // memory to device
)

type channel struct {
	baseAddr  uint16
	curAddr   uint16
	baseCount uint16
	curCount  uint16

	mode   uint8
	page   uint8
	masked bool

	// request line as driven by the device (or the refresh trigger)
	request bool

	// reached terminal count since last status read
	tc bool

	peripheral Peripheral
}

func (ch *channel) String() string {
	return fmt.Sprintf("addr=%02x%04x count=%04x mode=%02x masked=%v req=%v",
		ch.page, ch.curAddr, ch.curCount, ch.mode, ch.masked, ch.request)
}

// DMA implements the 8237 DMA controller.
type DMA struct {
	mem *bus.Bus

	channels [4]channel

	command uint8

	// first/last flip-flop for 16-bit register access
	flipflop bool

	// a byte transfer in progress: remaining ticks and the channel
	stealTicks   int
	stealChannel int
}

// NewDMA is the preferred method of initialisation for the DMA type.
func NewDMA(mem *bus.Bus) *DMA {
	d := &DMA{mem: mem}
	d.Reset()
	return d
}

// Reset performs the equivalent of the master clear command.
func (d *DMA) Reset() {
	for i := range d.channels {
		p := d.channels[i].peripheral
		d.channels[i] = channel{masked: true, peripheral: p}
	}
	d.command = 0
	d.flipflop = false
	d.stealTicks = 0
}

func (d *DMA) String() string {
	s := ""
	for i := range d.channels {
		s += fmt.Sprintf("ch%d: %s\n", i, d.channels[i].String())
	}
	return s
}

// AttachPeripheral connects the device end of a channel.
func (d *DMA) AttachPeripheral(ch int, p Peripheral) {
	d.channels[ch].peripheral = p
}

// Request drives a channel's request line. Devices call this; the refresh
// trigger from the PIT arrives the same way on channel 0.
func (d *DMA) Request(ch int, level bool) {
	d.channels[ch].request = level
}

// Step advances the controller by one tick. Returns true if the controller
// owns the bus this tick, in which case the CPU must not run a bus cycle.
func (d *DMA) Step() bool {
	if d.stealTicks > 0 {
		d.stealTicks--
		if d.stealTicks == 0 {
			d.transferByte(d.stealChannel)
		}
		return true
	}

	if d.command&0x04 != 0 {
		// controller disabled
		return false
	}

	// fixed priority: channel 0 first
	for i := range d.channels {
		ch := &d.channels[i]
		if ch.request && !ch.masked {
			d.stealChannel = i
			d.stealTicks = stealTicksPerByte - 1
			return true
		}
	}

	return false
}

func (d *DMA) transferByte(n int) {
	ch := &d.channels[n]
	addr := uint32(ch.page)<<16 | uint32(ch.curAddr)

	switch ch.mode & 0x0c {
	case transferWrite:
		var data uint8
		if ch.peripheral != nil {
			data = ch.peripheral.DMARead()
		}
		d.mem.Write(addr, data)
	case transferRead:
		data := d.mem.Read(addr)
		if ch.peripheral != nil {
			ch.peripheral.DMAWrite(data)
		}
	default:
		// verify transfers (and refresh) read the address and discard
		d.mem.Read(addr)
	}

	if ch.mode&0x20 != 0 {
		ch.curAddr--
	} else {
		ch.curAddr++
	}

	// single mode re-arbitrates after every byte. the request line stays
	// under device control; refresh requests are one-shot
	if ch.mode&0xc0 == 0x40 {
		ch.request = false
	}

	ch.curCount--
	if ch.curCount == 0xffff {
		// terminal count fires on the transfer that underflows the counter
		ch.tc = true
		if ch.mode&0x10 != 0 {
			// autoinitialise
			ch.curAddr = ch.baseAddr
			ch.curCount = ch.baseCount
		} else {
			ch.masked = true
			ch.request = false
		}
		if ch.peripheral != nil {
			ch.peripheral.TerminalCount()
		}
	}
}

// PortRead implements the bus.PortDevice interface.
func (d *DMA) PortRead(port uint16) uint8 {
	if port >= PortPageBase {
		switch port {
		case 0x81:
			return d.channels[2].page
		case 0x82:
			return d.channels[3].page
		case 0x83:
			return d.channels[1].page
		}
		return 0xff
	}

	switch {
	case port < 0x08:
		ch := &d.channels[port>>1]
		var v uint16
		if port&1 == 0 {
			v = ch.curAddr
		} else {
			v = ch.curCount
		}
		d.flipflop = !d.flipflop
		if d.flipflop {
			return uint8(v)
		}
		return uint8(v >> 8)

	case port == 0x08:
		// status: TC bits clear on read, request bits in the high nibble
		var v uint8
		for i := range d.channels {
			if d.channels[i].tc {
				v |= 1 << i
				d.channels[i].tc = false
			}
			if d.channels[i].request {
				v |= 0x10 << i
			}
		}
		return v
	}

	return 0xff
}

// PortWrite implements the bus.PortDevice interface.
func (d *DMA) PortWrite(port uint16, data uint8) {
	if port >= PortPageBase {
		switch port {
		case 0x81:
			d.channels[2].page = data
		case 0x82:
			d.channels[3].page = data
		case 0x83:
			d.channels[1].page = data
		}
		// port 0x80 is the POST diagnostic latch; absorbed
		return
	}

	switch {
	case port < 0x08:
		ch := &d.channels[port>>1]
		d.flipflop = !d.flipflop
		if port&1 == 0 {
			if d.flipflop {
				ch.baseAddr = ch.baseAddr&0xff00 | uint16(data)
			} else {
				ch.baseAddr = ch.baseAddr&0x00ff | uint16(data)<<8
			}
			ch.curAddr = ch.baseAddr
		} else {
			if d.flipflop {
				ch.baseCount = ch.baseCount&0xff00 | uint16(data)
			} else {
				ch.baseCount = ch.baseCount&0x00ff | uint16(data)<<8
			}
			ch.curCount = ch.baseCount
		}

	case port == 0x08:
		d.command = data

	case port == 0x09:
		// software request
		d.channels[data&0x03].request = data&0x04 != 0

	case port == 0x0a:
		d.channels[data&0x03].masked = data&0x04 != 0

	case port == 0x0b:
		d.channels[data&0x03].mode = data

	case port == 0x0c:
		d.flipflop = false

	case port == 0x0d:
		d.Reset()

	case port == 0x0e:
		for i := range d.channels {
			d.channels[i].masked = false
		}

	case port == 0x0f:
		for i := range d.channels {
			d.channels[i].masked = data&(1<<i) != 0
		}
	}
}
