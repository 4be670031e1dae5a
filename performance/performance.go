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
	"fmt"
	"io"
	"time"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/romload"
	"github.com/gopherxt/gopherxt/screen"
)

// how long the machine runs before measurement starts. gives the Go
// runtime time to warm up so the figure reflects steady state
const leadTime = 2 * time.Second

// Check the performance of the emulator using the supplied BIOS.
//
// Emulation runs headless for the specified duration and reports the frame
// rate and effective CPU clock, creating CPU/memory profiles as requested
// by the profile argument.
func Check(output io.Writer, profile Profile, bios romload.Loader, model screen.Model, adapter screen.AdapterType, duration string) error {
	m, err := hardware.NewMachine(model, adapter, nil)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}
	defer m.End()

	if err := romload.AttachBIOS(m.Bus, &bios); err != nil {
		return curated.Errorf("performance: %v", err)
	}

	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf("performance: %v", err)
	}

	startFrame := m.Screen.GetCoords().Frame
	startTicks := m.Ticks()

	runner := func() error {
		// the timer channel signals false at the end of the leadtime and
		// true at the end of the measurement period
		timerChan := make(chan bool)

		go func() {
			time.AfterFunc(leadTime, func() {
				timerChan <- false

				time.AfterFunc(dur, func() {
					timerChan <- true
				})
			})
		}()

		return m.Run(func() (bool, error) {
			select {
			case v := <-timerChan:
				if v {
					return false, nil
				}

				// leadtime has concluded. measurement starts here
				startFrame = m.Screen.GetCoords().Frame
				startTicks = m.Ticks()
			default:
			}
			return true, nil
		})
	}

	err = RunProfiler(profile, "performance", runner)
	if err != nil && !curated.Is(err, hardware.Ended) {
		return curated.Errorf("performance: %v", err)
	}

	numFrames := m.Screen.GetCoords().Frame - startFrame
	numTicks := m.Ticks() - startTicks

	fps, fpsAccuracy := CalcFPS(m.Screen, numFrames, dur.Seconds())
	mhz, clkAccuracy := CalcClock(numTicks, dur.Seconds())

	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, dur.Seconds(), fpsAccuracy)))
	output.Write([]byte(fmt.Sprintf("%.2f MHz effective clock %.1f%%\n", mhz, clkAccuracy)))

	return nil
}
