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
	"github.com/gopherxt/gopherxt/curated"
)

// sentinel error returned when a continueCheck callback ends the run.
const (
	// Ended indicates the emulation has ended from the run loop's point of
	// view; the machine itself is still usable.
	Ended = "emulation ended"
)

// the continueCheck callback is consulted every checkPeriod instructions.
const checkPeriod = 64

// Run the machine until the continueCheck callback returns false or an
// error. A nil continueCheck runs forever (or until a machine error).
func (m *Machine) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		for i := 0; i < checkPeriod; i++ {
			if err := m.Step(); err != nil {
				return err
			}
		}
		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return curated.Errorf(Ended)
		}
	}
}

// RunForFrameCount runs the machine until the screen has produced the
// given number of new frames.
func (m *Machine) RunForFrameCount(numFrames int) error {
	target := m.Screen.GetCoords().Frame + numFrames
	for m.Screen.GetCoords().Frame < target {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunForTicks runs the machine until at least the given number of CPU
// clocks have elapsed. The machine always stops on an instruction
// boundary, so the final count can overshoot by one instruction.
func (m *Machine) RunForTicks(numTicks uint64) error {
	target := m.ticks + numTicks
	for m.ticks < target {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}
