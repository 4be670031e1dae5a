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

// Package hardware assembles the chips into a working 5150 or 5160. The
// Machine type owns the bus and all the devices; the Step function runs
// everything in lockstep at CPU clock granularity.
package hardware

import (
	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/hardware/cpu"
	"github.com/gopherxt/gopherxt/hardware/dma"
	"github.com/gopherxt/gopherxt/hardware/keyboard"
	"github.com/gopherxt/gopherxt/hardware/pic"
	"github.com/gopherxt/gopherxt/hardware/pit"
	"github.com/gopherxt/gopherxt/hardware/ppi"
	"github.com/gopherxt/gopherxt/hardware/speaker"
	"github.com/gopherxt/gopherxt/hardware/video"
	"github.com/gopherxt/gopherxt/screen"
)

// the PIT clock is the CPU clock divided by four.
const pitDivider = 4

// Machine is the complete system: bus, CPU and the planar devices, plus
// the screen they drive.
type Machine struct {
	Model screen.Model

	Bus      *bus.Bus
	CPU      *cpu.CPU
	PIT      *pit.PIT
	PIC      *pic.PIC
	PPI      *ppi.PPI
	DMA      *dma.DMA
	Video    *video.Adapter
	Keyboard *keyboard.Keyboard
	Speaker  *speaker.Speaker
	Screen   *screen.Screen

	// CPU clock ticks since reset
	ticks uint64

	// device time. runs at crystal speed regardless of the turbo
	// multiplier
	devTicks uint64

	// turbo multiplier: CPU clocks per device clock
	turbo    uint64
	devPhase uint64

	// whether the DMA controller held the bus on the last device clock
	dmaOwned bool

	// previous PIT channel 1 output, for the refresh trigger edge
	prevRefresh bool
}

// dipSwitches composes the DIP switch byte the PPI reports: one floppy
// drive, full 64KB banks on the planar, and the video mode matching the
// installed adapter.
func dipSwitches(adapter screen.AdapterType) uint8 {
	// bit 0: no loop-on-POST; bits 2-3: planar RAM banks
	v := uint8(0x0d)
	switch adapter {
	case screen.AdapterCGA:
		v |= 0x20 // 80x25 color
	case screen.AdapterMDA:
		v |= 0x30
	}
	return v
}

// NewMachine builds a machine with the given model and video adapter. The
// font argument is the adapter's character ROM; nil selects the built-in
// substitute glyphs. Construction either succeeds completely or fails
// without leaking partially wired devices.
func NewMachine(model screen.Model, adapter screen.AdapterType, font []byte) (*Machine, error) {
	spec, ok := screen.GetSpec(adapter)
	if !ok {
		return nil, curated.Errorf("hardware: no specification for adapter (%s)", adapter)
	}

	m := &Machine{Model: model, turbo: 1}
	m.Bus = bus.NewBus()
	m.Screen = screen.NewScreen(spec)

	var err error
	m.Video, err = video.NewAdapter(adapter, m.Screen, font)
	if err != nil {
		return nil, err
	}

	m.CPU = cpu.NewCPU(m.Bus)
	m.PIT = pit.NewPIT()
	m.PIC = pic.NewPIC()
	m.PPI = ppi.NewPPI(model, dipSwitches(adapter))
	m.DMA = dma.NewDMA(m.Bus)
	m.Keyboard = keyboard.NewKeyboard(m.PPI)
	m.Speaker = speaker.NewSpeaker(m.PPI, m.Screen)

	m.CPU.AttachInterruptSource(m.PIC)

	for _, reg := range []struct {
		label      string
		start, end uint16
		dev        bus.PortDevice
	}{
		{"dma", 0x00, 0x0f, m.DMA},
		{"pic", 0x20, 0x21, m.PIC},
		{"pit", 0x40, 0x43, m.PIT},
		{"ppi", 0x60, 0x63, m.PPI},
		{"dma pages", 0x80, 0x83, m.DMA},
	} {
		if err := m.Bus.RegisterPorts(reg.label, reg.start, reg.end, reg.dev); err != nil {
			return nil, err
		}
	}

	switch adapter {
	case screen.AdapterCGA:
		if err := m.Bus.RegisterPorts("cga", 0x3d0, 0x3df, m.Video); err != nil {
			return nil, err
		}
		if err := m.Bus.RegisterMem("cga vram", 0xb8000, 0xbffff, m.Video); err != nil {
			return nil, err
		}
	case screen.AdapterMDA:
		if err := m.Bus.RegisterPorts("mda", 0x3b0, 0x3bf, m.Video); err != nil {
			return nil, err
		}
		if err := m.Bus.RegisterMem("mda vram", 0xb0000, 0xb7fff, m.Video); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Reset returns every device to its power-on state in one step. Partial
// resets never happen: either the whole machine resets or, if a device
// refuses, the machine is left untouched.
func (m *Machine) Reset() error {
	m.Screen.Reset()
	m.Bus.Reset()
	m.CPU.Reset()
	m.PIT.Reset()
	m.PIC.Reset()
	m.PPI.Reset()
	m.DMA.Reset()
	m.Video.Reset()
	m.Keyboard.Reset()
	m.Speaker.Reset()
	m.ticks = 0
	m.devTicks = 0
	m.devPhase = 0
	m.dmaOwned = false
	m.prevRefresh = false
	return nil
}

// SetTurbo sets the clock multiplier: how many CPU clocks elapse for every
// device clock. Turbo XT clones do this with a faster CPU crystal; the
// peripherals keep their own timing. A multiplier of 1 is the stock
// 4.77MHz machine.
func (m *Machine) SetTurbo(multiplier int) error {
	if multiplier < 1 || multiplier > 4 {
		return curated.Errorf("hardware: bad turbo multiplier (%d)", multiplier)
	}
	m.turbo = uint64(multiplier)
	return nil
}

// Ticks returns the CPU clock count since the last reset.
func (m *Machine) Ticks() uint64 {
	return m.ticks
}

// End concludes the screen's renderers and mixers.
func (m *Machine) End() error {
	return m.Screen.End()
}
