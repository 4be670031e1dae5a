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

package modalflag_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/modalflag"
	"github.com/gopherxt/gopherxt/test"
)

func TestNoModesNoFlags(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{})

	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "")
}

func TestSubModeSelection(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"performance", "bios.rom"})
	md.AddSubModes("RUN", "PERFORMANCE", "DISASM")

	r, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, md.Mode(), "PERFORMANCE")

	// arguments after the sub-mode are available to the next layer
	md.NewMode()
	dur := md.AddString("duration", "5s", "run duration")
	r, err = md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r, modalflag.ParseContinue)
	test.ExpectEquality(t, *dur, "5s")
	test.ExpectEquality(t, md.GetArg(0), "bios.rom")
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"bios.rom"})
	md.AddSubModes("RUN", "PERFORMANCE")

	_, err := md.Parse()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, md.Mode(), "RUN")
}

func TestFlagError(t *testing.T) {
	md := modalflag.Modes{}
	md.NewArgs([]string{"-no-such-flag"})

	r, err := md.Parse()
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, r, modalflag.ParseError)
}
