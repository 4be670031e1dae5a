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
)

// ColorSignal is the color index put on the wire by the video adapter for a
// single hdot. For CGA this is the 4-bit RGBI index; for MDA the intensity
// levels. The actual RGB values are looked up by the renderer.
type ColorSignal uint8

// VideoBlack is the ColorSignal value that indicates no pixel is being
// output.
const VideoBlack ColorSignal = 0xff

// SignalAttributes represents the data sent to the screen for a single hdot.
type SignalAttributes struct {
	HSync bool
	VSync bool
	Blank bool
	Color ColorSignal
}

// PixelRenderer implementations display, or otherwise work with, visual
// information from the screen. For example digest.Video.
type PixelRenderer interface {
	// Resize is called when the active specification changes; for example
	// when the CGA switches between 40 column text and 640 pixel graphics.
	Resize(spec Spec) error

	// NewFrame and NewScanline are called at the start of the frame/scanline.
	NewFrame(frameNum int) error
	NewScanline(scanline int) error

	// SetPixel is called for every hdot regardless of blanking. Renderers
	// that want an accurate image should render VideoBlack for blanked
	// hdots.
	SetPixel(x, y int, color ColorSignal) error

	// some renderers may need to conclude and/or dispose of resources
	// gently. the PixelRenderer should be considered unusable after
	// EndRendering() has been called.
	EndRendering() error
}

// FrameTrigger implementations listen for NewFrame events. FrameTrigger is a
// subset of PixelRenderer.
type FrameTrigger interface {
	NewFrame(frameNum int) error
}

// AudioMixer implementations work with the speaker sample stream; most
// probably playing it. An example of an AudioMixer that does not play sound
// but otherwise works with the stream is the wavwriter package.
type AudioMixer interface {
	SetAudio(sample uint8) error

	// EndMixing lets the mixer conclude gently. The AudioMixer should be
	// considered unusable after EndMixing() has been called.
	EndMixing() error
}

// Coords represents a position on the screen. Used to compare the progress
// of two emulations and to report divergence positions.
type Coords struct {
	Frame    int
	Scanline int
	Hdot     int
}

func (c Coords) String() string {
	return fmt.Sprintf("frame=%d scanline=%d hdot=%d", c.Frame, c.Scanline, c.Hdot)
}
