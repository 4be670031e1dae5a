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

// Package speaker implements the PC speaker. The speaker cone is driven by
// the AND of PIT channel 2's output and the speaker enable bit on PPI port
// B. The square wave is sampled at the CPU clock and decimated by averaging
// down to the mixer's sample rate, which gives free first-order filtering
// of the ultrasonic edges.
package speaker

import (
	"github.com/gopherxt/gopherxt/hardware/ppi"
	"github.com/gopherxt/gopherxt/screen"
)

// SampleFreq is the sample frequency of the stream handed to the audio
// mixer.
const SampleFreq = 44100

// Speaker decimates the speaker drive signal into audio samples.
type Speaker struct {
	ppi *ppi.PPI
	scr *screen.Screen

	// averaging window. acc counts the ticks in the window for which the
	// cone was driven high
	acc   int
	count int

	// fractional tick accumulator for the non-integer decimation ratio
	frac int
}

// NewSpeaker is the preferred method of initialisation for the Speaker
// type.
func NewSpeaker(p *ppi.PPI, scr *screen.Screen) *Speaker {
	return &Speaker{ppi: p, scr: scr}
}

// Reset empties the averaging window.
func (spk *Speaker) Reset() {
	spk.acc = 0
	spk.count = 0
	spk.frac = 0
}

// Step advances the speaker by one CPU tick. timer2Out is the current
// output of PIT channel 2.
func (spk *Speaker) Step(timer2Out bool) error {
	if timer2Out && spk.ppi.SpeakerGate() {
		spk.acc++
	}
	spk.count++

	spk.frac += SampleFreq
	if spk.frac >= screen.CPUHz {
		spk.frac -= screen.CPUHz
		sample := uint8(spk.acc * 255 / spk.count)
		spk.acc = 0
		spk.count = 0
		return spk.scr.SetAudio(sample)
	}
	return nil
}
