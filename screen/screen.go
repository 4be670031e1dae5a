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

package screen

import (
	"fmt"

	"github.com/gopherxt/gopherxt/curated"
)

// Screen is the receiving end of the video adapter's signal path. One Screen
// per Machine.
type Screen struct {
	spec Spec

	// current position of the "beam"
	hdot     int
	scanline int

	frameNum int

	// a vsync has been seen this frame. the frame counter only advances on a
	// genuine vsync; a frame's worth of hdots without one means the adapter
	// is misprogrammed and the screen rolls, as it would for real
	vsyncLatch bool

	// sync pulses last many hdots; the scanline advances on the rising edge
	prevHSync bool

	renderers []PixelRenderer
	triggers  []FrameTrigger
	mixers    []AudioMixer
}

// NewScreen is the preferred method of initialisation for the Screen type.
func NewScreen(spec Spec) *Screen {
	return &Screen{spec: spec}
}

func (scr *Screen) String() string {
	return fmt.Sprintf("FR=%d SL=%d HD=%d", scr.frameNum, scr.scanline, scr.hdot)
}

// AddPixelRenderer registers an implementation of PixelRenderer. Multiple
// renderers can be added.
func (scr *Screen) AddPixelRenderer(r PixelRenderer) {
	scr.renderers = append(scr.renderers, r)
}

// AddFrameTrigger registers an implementation of FrameTrigger. Multiple
// triggers can be added.
func (scr *Screen) AddFrameTrigger(t FrameTrigger) {
	scr.triggers = append(scr.triggers, t)
}

// AddAudioMixer registers an implementation of AudioMixer. Multiple mixers
// can be added.
func (scr *Screen) AddAudioMixer(m AudioMixer) {
	scr.mixers = append(scr.mixers, m)
}

// Spec returns the specification the screen is currently operating under.
func (scr *Screen) Spec() Spec {
	return scr.spec
}

// SetSpec changes the operating specification. Called by the video adapter
// when its clocking mode changes the implied display geometry.
func (scr *Screen) SetSpec(spec Spec) error {
	scr.spec = spec
	for _, r := range scr.renderers {
		if err := r.Resize(spec); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}
	return nil
}

// GetCoords returns an instance of Coords for the current position.
func (scr *Screen) GetCoords() Coords {
	return Coords{Frame: scr.frameNum, Scanline: scr.scanline, Hdot: scr.hdot}
}

// Reset the screen to an initial state.
func (scr *Screen) Reset() {
	scr.hdot = 0
	scr.scanline = 0
	scr.frameNum = 0
	scr.vsyncLatch = false
	scr.prevHSync = false
}

// Signal updates the current state of the screen with a single hdot's worth
// of signal.
func (scr *Screen) Signal(sig SignalAttributes) error {
	col := sig.Color
	if sig.Blank {
		col = VideoBlack
	}

	for _, r := range scr.renderers {
		if err := r.SetPixel(scr.hdot, scr.scanline, col); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}

	if sig.VSync {
		scr.vsyncLatch = true
	}

	scr.hdot++
	hsyncEdge := sig.HSync && !scr.prevHSync
	scr.prevHSync = sig.HSync
	if hsyncEdge || scr.hdot >= scr.spec.HdotsScanline {
		if err := scr.newScanline(); err != nil {
			return err
		}
	}

	return nil
}

func (scr *Screen) newScanline() error {
	scr.hdot = 0
	scr.scanline++

	if scr.vsyncLatch || scr.scanline >= scr.spec.ScanlinesFrame {
		return scr.newFrame()
	}

	for _, r := range scr.renderers {
		if err := r.NewScanline(scr.scanline); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}

	return nil
}

func (scr *Screen) newFrame() error {
	scr.scanline = 0
	scr.frameNum++
	scr.vsyncLatch = false

	for _, r := range scr.renderers {
		if err := r.NewFrame(scr.frameNum); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}
	for _, t := range scr.triggers {
		if err := t.NewFrame(scr.frameNum); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}

	return nil
}

// SetAudio forwards a speaker sample to all registered mixers. Called by the
// speaker at its sample rate, not at the tick rate.
func (scr *Screen) SetAudio(sample uint8) error {
	for _, m := range scr.mixers {
		if err := m.SetAudio(sample); err != nil {
			return curated.Errorf("screen: %v", err)
		}
	}
	return nil
}

// End cleans up any resources used by renderers and mixers that might be
// dangling.
func (scr *Screen) End() error {
	var err error

	// call EndRendering() and EndMixing() on each renderer and mixer even if
	// an earlier one has returned an error
	for _, r := range scr.renderers {
		if e := r.EndRendering(); e != nil && err == nil {
			err = e
		}
	}
	for _, m := range scr.mixers {
		if e := m.EndMixing(); e != nil && err == nil {
			err = e
		}
	}

	if err != nil {
		return curated.Errorf("screen: %v", err)
	}
	return nil
}
