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

package performance

import (
	"github.com/gopherxt/gopherxt/screen"
)

// CalcFPS takes the number of frames and duration (in seconds) and returns
// the frames-per-second and that value as a percentage of the adapter's
// real refresh rate.
func CalcFPS(scr *screen.Screen, numFrames int, duration float64) (fps float64, accuracy float64) {
	fps = float64(numFrames) / duration
	accuracy = 100 * fps / scr.Spec().RefreshRate
	return fps, accuracy
}

// CalcClock takes the number of CPU clock ticks and duration (in seconds)
// and returns the effective emulated clock in MHz and that value as a
// percentage of the real 8088 clock.
func CalcClock(numTicks uint64, duration float64) (mhz float64, accuracy float64) {
	hz := float64(numTicks) / duration
	mhz = hz / 1e6
	accuracy = 100 * hz / screen.CPUHz
	return mhz, accuracy
}
