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

package dma_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/hardware/dma"
	"github.com/gopherxt/gopherxt/test"
)

type mockPeripheral struct {
	supply  []uint8
	written []uint8
	tcCount int
}

func (m *mockPeripheral) DMARead() uint8 {
	if len(m.supply) == 0 {
		return 0
	}
	v := m.supply[0]
	m.supply = m.supply[1:]
	return v
}

func (m *mockPeripheral) DMAWrite(data uint8) {
	m.written = append(m.written, data)
}

func (m *mockPeripheral) TerminalCount() {
	m.tcCount++
}

// program a channel: mode byte, 16-bit address, 16-bit count.
func program(d *dma.DMA, ch int, mode uint8, addr uint16, count uint16) {
	d.PortWrite(0x0b, mode|uint8(ch))
	d.PortWrite(0x0c, 0) // clear flip-flop
	d.PortWrite(uint16(ch*2), uint8(addr))
	d.PortWrite(uint16(ch*2), uint8(addr>>8))
	d.PortWrite(uint16(ch*2+1), uint8(count))
	d.PortWrite(uint16(ch*2+1), uint8(count>>8))
	d.PortWrite(0x0a, uint8(ch)) // unmask
}

func TestDeviceToMemoryTransfer(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	p := &mockPeripheral{supply: []uint8{0x11, 0x22, 0x33}}
	d.AttachPeripheral(2, p)

	// block mode write transfer (device to memory), 3 bytes to 0x4000.
	// count register holds count-1
	program(d, 2, 0x84, 0x4000, 2)
	d.Request(2, true)

	ticks := 0
	for d.Step() {
		ticks++
	}

	// terminal count on the third transfer, not before or after
	test.ExpectEquality(t, p.tcCount, 1)
	test.ExpectEquality(t, ticks, 12)
	test.ExpectEquality(t, b.Read(0x4000), 0x11)
	test.ExpectEquality(t, b.Read(0x4001), 0x22)
	test.ExpectEquality(t, b.Read(0x4002), 0x33)
	test.ExpectEquality(t, b.Read(0x4003), 0)
}

func TestMemoryToDeviceWithPage(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	p := &mockPeripheral{}
	d.AttachPeripheral(2, p)

	b.Poke(0x54321, 0xaa)
	b.Poke(0x54322, 0xbb)

	d.PortWrite(0x81, 0x05) // page register for channel 2
	program(d, 2, 0x88, 0x4321, 1)
	d.Request(2, true)

	for d.Step() {
	}

	test.ExpectEquality(t, len(p.written), 2)
	test.ExpectEquality(t, p.written[0], 0xaa)
	test.ExpectEquality(t, p.written[1], 0xbb)
}

func TestChannelMasked(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	p := &mockPeripheral{supply: []uint8{0x11}}
	d.AttachPeripheral(2, p)

	program(d, 2, 0x84, 0x4000, 0)
	d.PortWrite(0x0a, 0x06) // mask channel 2
	d.Request(2, true)

	test.ExpectEquality(t, d.Step(), false)
	test.ExpectEquality(t, b.Read(0x4000), 0)
}

func TestTerminalCountMasksChannel(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	p := &mockPeripheral{supply: []uint8{0x11}}
	d.AttachPeripheral(2, p)

	program(d, 2, 0x84, 0x4000, 0)
	d.Request(2, true)

	for d.Step() {
	}
	test.ExpectEquality(t, p.tcCount, 1)

	// without autoinitialise the channel masks itself at terminal count
	d.Request(2, true)
	test.ExpectEquality(t, d.Step(), false)
}

func TestRefreshConsumedWithoutEffect(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	b.Poke(0x0000, 0x55)

	// single mode verify on the refresh channel, as the BIOS programs it
	program(d, dma.RefreshChannel, 0x50, 0x0000, 0xffff)
	d.Request(dma.RefreshChannel, true)

	busy := 0
	for d.Step() {
		busy++
	}

	// one byte steal: four ticks, then the request self-clears
	test.ExpectEquality(t, busy, 4)
	test.ExpectEquality(t, b.Read(0x0000), 0x55)
}

func TestStatusTCBits(t *testing.T) {
	b := bus.NewBus()
	d := dma.NewDMA(b)

	p := &mockPeripheral{supply: []uint8{0x11}}
	d.AttachPeripheral(2, p)

	program(d, 2, 0x84, 0x4000, 0)
	d.Request(2, true)
	for d.Step() {
	}

	// TC bit set for channel 2; cleared by the read
	test.ExpectEquality(t, d.PortRead(0x08)&0x0f, 0x04)
	test.ExpectEquality(t, d.PortRead(0x08)&0x0f, 0x00)
}
