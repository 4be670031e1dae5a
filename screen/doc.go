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

// Package screen is the interface between the video adapter emulation and
// whatever is consuming its output. It is the equivalent of the monitor
// plugged into the back of the machine.
//
// The video adapter sends a Signal() to the Screen for every hdot it
// generates. The Screen keeps track of horizontal and vertical position,
// counts frames, and forwards decoded pixels to any registered
// PixelRenderer. Audio from the speaker follows a similar path to any
// registered AudioMixer.
//
// The Screen never presents anything itself. Windowing, scaling and audio
// playback are the business of whatever frontend has registered itself as a
// renderer or mixer.
package screen
