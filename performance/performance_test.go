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

package performance_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/performance"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

func TestCalcFPS(t *testing.T) {
	spec, ok := screen.GetSpec(screen.AdapterCGA)
	test.ExpectSuccess(t, ok)
	scr := screen.NewScreen(spec)

	fps, accuracy := performance.CalcFPS(scr, 60, 1.0)
	test.ExpectEquality(t, fps, 60.0)
	test.ExpectSuccess(t, accuracy > 100.0 && accuracy < 101.0)

	// half speed
	_, accuracy = performance.CalcFPS(scr, 30, 1.0)
	test.ExpectSuccess(t, accuracy > 50.0 && accuracy < 50.5)
}

func TestCalcClock(t *testing.T) {
	// a full second's worth of ticks is 100% of the real clock
	mhz, accuracy := performance.CalcClock(screen.CPUHz, 1.0)
	test.ExpectSuccess(t, mhz > 4.77 && mhz < 4.78)
	test.ExpectEquality(t, accuracy, 100.0)
}

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfile("cpu")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU)

	_, err = performance.ParseProfile("everything")
	test.ExpectFailure(t, err)
}