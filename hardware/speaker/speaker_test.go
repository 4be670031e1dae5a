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

package speaker_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/ppi"
	"github.com/gopherxt/gopherxt/hardware/speaker"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

type mixer struct {
	samples []uint8
}

func (m *mixer) SetAudio(sample uint8) error {
	m.samples = append(m.samples, sample)
	return nil
}

func (m *mixer) EndMixing() error {
	return nil
}

func TestDecimation(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	mix := &mixer{}
	scr.AddAudioMixer(mix)

	p := ppi.NewPPI(screen.Model5160, 0)
	spk := speaker.NewSpeaker(p, scr)

	// one second of constant high drive with the gate open produces
	// SampleFreq samples at full scale
	p.PortWrite(ppi.PortB, ppi.PortBSpeakerGate|ppi.PortBTimer2Gate)
	for i := 0; i < screen.CPUHz; i++ {
		test.ExpectSuccess(t, spk.Step(true))
	}
	test.ExpectEquality(t, len(mix.samples), speaker.SampleFreq)
	for _, s := range mix.samples[:10] {
		test.ExpectEquality(t, s, 255)
	}
}

func TestGateClosed(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	mix := &mixer{}
	scr.AddAudioMixer(mix)

	p := ppi.NewPPI(screen.Model5160, 0)
	spk := speaker.NewSpeaker(p, scr)

	// channel 2 output high but the gate bit clear: silence
	for i := 0; i < 1000; i++ {
		test.ExpectSuccess(t, spk.Step(true))
	}
	for _, s := range mix.samples {
		test.ExpectEquality(t, s, 0)
	}
}

func TestSquareWaveAmplitude(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	mix := &mixer{}
	scr.AddAudioMixer(mix)

	p := ppi.NewPPI(screen.Model5160, 0)
	spk := speaker.NewSpeaker(p, scr)

	// a fast square wave averages to half scale after decimation
	p.PortWrite(ppi.PortB, ppi.PortBSpeakerGate|ppi.PortBTimer2Gate)
	for i := 0; i < 10000; i++ {
		test.ExpectSuccess(t, spk.Step(i%2 == 0))
	}
	test.ExpectSuccess(t, len(mix.samples) > 0)
	for _, s := range mix.samples {
		if s < 120 || s > 135 {
			t.Errorf("sample %d outside the half scale band", s)
		}
	}
}
