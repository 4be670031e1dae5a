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

package hardware

import (
	"github.com/gopherxt/gopherxt/hardware/dma"
	"github.com/gopherxt/gopherxt/screen"
)

// Step runs the machine to the CPU's next instruction boundary. Every CPU
// clock in between advances all the devices through the tick function.
func (m *Machine) Step() error {
	return m.CPU.ExecuteInstruction(m.tick)
}

// tick is the cycle callback handed to the CPU. When the DMA controller
// owns the bus the CPU's clock is withheld: device ticks keep flowing until
// the transfer finishes, then the CPU gets its tick.
func (m *Machine) tick() error {
	for {
		owned, err := m.tickDevices()
		if err != nil {
			return err
		}
		if !owned {
			return nil
		}
	}
}

// tickDevices advances every device by one CPU clock, in fixed order: PIT,
// PIC, DMA, video, then the CPU by way of returning to the caller. The
// ordering is part of the machine's determinism contract.
func (m *Machine) tickDevices() (bool, error) {
	m.ticks++

	// with a turbo multiplier the CPU receives several clocks for every
	// device clock. device time, and with it the PIT and the raster, stays
	// at crystal speed
	m.devPhase++
	if m.devPhase < m.turbo {
		return m.dmaOwned, nil
	}
	m.devPhase = 0
	m.devTicks++

	if m.devTicks%pitDivider == 0 {
		m.PIT.Channels[2].SetGate(m.PPI.Timer2Gate())
		m.PIT.Step()

		// channel 0 drives IRQ0; channel 1's rising edge triggers a DRAM
		// refresh cycle on DMA channel 0; channel 2 is readable on the PPI
		m.PIC.SetIRQ(0, m.PIT.Channels[0].Out)
		if m.PIT.Channels[1].Out && !m.prevRefresh {
			m.DMA.Request(dma.RefreshChannel, true)
		}
		m.prevRefresh = m.PIT.Channels[1].Out
		m.PPI.Timer2Out = m.PIT.Channels[2].Out
	}

	m.PIC.Step()

	m.dmaOwned = m.DMA.Step()

	if err := m.Video.Step(screen.HdotsPerCPUClock); err != nil {
		return false, err
	}

	m.Keyboard.Step()
	m.PIC.SetIRQ(1, m.PPI.KeyboardIRQ())

	if err := m.Speaker.Step(m.PIT.Channels[2].Out); err != nil {
		return false, err
	}

	return m.dmaOwned, nil
}
