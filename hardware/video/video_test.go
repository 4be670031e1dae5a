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

package video

import (
	"testing"

	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/test"
)

// standard BIOS values for 40 column text. 57 characters of 16 hdots is the
// 912 hdot scanline of the CGA.
func program40ColText(adp *Adapter) {
	for _, w := range [][2]uint8{
		{regHTotal, 56}, {regHDisplayed, 40}, {regHSyncPos, 45}, {regSyncWidth, 10},
		{regVTotal, 31}, {regVDisplayed, 25}, {regVSyncPos, 28}, {regMaxScanline, 7},
		{regCursorAddrHi, 0x3f}, {regCursorAddrLo, 0xff},
	} {
		adp.PortWrite(0x3d4, w[0])
		adp.PortWrite(0x3d5, w[1])
	}
	adp.PortWrite(0x3d8, modeEnable)
}

func TestScanlineTiming(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)

	// three full scanlines of 912 hdots each. one hsync rising edge per
	// scanline
	test.ExpectSuccess(t, adp.Step(3*912))
	test.ExpectEquality(t, scr.GetCoords().Scanline, 3)
}

func TestModeSwitchContinuity(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)

	// five hdots into a character
	test.ExpectSuccess(t, adp.Step(5))
	test.ExpectEquality(t, adp.divider, 16)

	// switch to the 80 column clock mid-character. the divider change must
	// wait for the character boundary
	adp.PortWrite(0x3d8, modeEnable|mode80Col)
	test.ExpectEquality(t, adp.divider, 16)
	test.ExpectEquality(t, adp.pendingDivider, 8)

	// the in-flight character completes at the old rate
	hcc := adp.crtc.hcc
	test.ExpectSuccess(t, adp.Step(11))
	test.ExpectEquality(t, adp.crtc.hcc, hcc+1)
	test.ExpectEquality(t, adp.divider, 8)

	// subsequent characters are eight hdots wide
	test.ExpectSuccess(t, adp.Step(8))
	test.ExpectEquality(t, adp.crtc.hcc, hcc+2)
}

func TestVSyncStatus(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	// a miniature frame so the test doesn't have to step a full raster:
	// four characters per scanline, one scanline per row, ten rows
	for _, w := range [][2]uint8{
		{regHTotal, 3}, {regHDisplayed, 2}, {regHSyncPos, 2}, {regSyncWidth, 1},
		{regVTotal, 9}, {regVDisplayed, 4}, {regVSyncPos, 5}, {regMaxScanline, 0},
		{regCursorAddrHi, 0x3f}, {regCursorAddrLo, 0xff},
	} {
		adp.PortWrite(0x3d4, w[0])
		adp.PortWrite(0x3d5, w[1])
	}
	adp.PortWrite(0x3d8, modeEnable|mode80Col)

	// reach vsync and check the status port reports it. the vsync bit must
	// be clear beforehand
	test.ExpectEquality(t, adp.PortRead(0x3da)&0x08, 0)
	for i := 0; i < 10*4*8 && adp.PortRead(0x3da)&0x08 == 0; i++ {
		test.ExpectSuccess(t, adp.Step(1))
	}
	test.ExpectEquality(t, adp.PortRead(0x3da)&0x08, 8)
	test.ExpectEquality(t, adp.crtc.vcc, 5)
}

func TestStatusDisplayEnable(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)

	// inside the displayed area the "display inactive" bit is clear
	test.ExpectEquality(t, adp.PortRead(0x3da)&0x01, 0)

	// step into the right border
	test.ExpectSuccess(t, adp.Step(41*16))
	test.ExpectEquality(t, adp.PortRead(0x3da)&0x01, 1)
}

func TestTextFetch(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)
	adp.PortWrite(0x3d8, modeEnable|mode80Col)
	adp.divider = adp.pendingDivider

	adp.MemWrite(0, 'A')
	adp.MemWrite(1, 0x17) // grey on blue

	adp.fetchCharacter()

	// with no character ROM loaded the glyph pattern is the substitute.
	// row 0 of 'A' is 0xdf
	want := []screen.ColorSignal{7, 7, 1, 7, 7, 7, 7, 7}
	for i, c := range want {
		test.ExpectEquality(t, adp.latch[i], c)
	}
}

func TestGraphicsFetch(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)
	adp.PortWrite(0x3d8, modeEnable|modeGraphics)
	adp.PortWrite(0x3d9, 0x20) // cyan/magenta/white palette, black background
	adp.divider = adp.pendingDivider

	// pixel values 0,1,2,3 then zeroes
	adp.MemWrite(0, 0x1b)
	adp.MemWrite(1, 0x00)

	adp.fetchCharacter()

	want := []screen.ColorSignal{0, 0, 3, 3, 5, 5, 7, 7}
	for i, c := range want {
		test.ExpectEquality(t, adp.latch[i], c)
	}
}

func TestHiResFetch(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	program40ColText(adp)
	adp.PortWrite(0x3d8, modeEnable|modeGraphics|modeHiRes)
	adp.PortWrite(0x3d9, 0x0f) // white foreground
	adp.divider = adp.pendingDivider

	adp.MemWrite(0, 0xaa)
	adp.MemWrite(1, 0x55)

	adp.fetchCharacter()

	for i := 0; i < 16; i++ {
		if (i < 8) == (i%2 == 0) {
			test.ExpectEquality(t, adp.latch[i], 15)
		} else {
			test.ExpectEquality(t, adp.latch[i], 0)
		}
	}
}

func TestPaletteLookup(t *testing.T) {
	// background color substitutes for pixel value zero
	test.ExpectEquality(t, paletteLookup(0x01, 0), 1)

	// green/red/brown palette
	test.ExpectEquality(t, paletteLookup(0x00, 1), 2)
	test.ExpectEquality(t, paletteLookup(0x00, 3), 6)

	// intensity bit lifts into the bright half of the table
	test.ExpectEquality(t, paletteLookup(0x10, 1), 10)

	// cyan/magenta/white palette
	test.ExpectEquality(t, paletteLookup(0x20, 2), 5)
}

func TestRGBBrown(t *testing.T) {
	// color 6 is brown on an RGBI monitor, not dark yellow
	r, g, b := RGB(6)
	test.ExpectEquality(t, r, 0xaa)
	test.ExpectEquality(t, g, 0x55)
	test.ExpectEquality(t, b, 0x00)
}

func TestVRAMWrap(t *testing.T) {
	scr := screen.NewScreen(screen.SpecCGA)
	adp, err := NewAdapter(screen.AdapterCGA, scr, nil)
	test.ExpectSuccess(t, err)

	// the 16KB of CGA video RAM repeats through its 32KB window
	adp.MemWrite(0x4000, 0x42)
	test.ExpectEquality(t, adp.MemRead(0x0000), 0x42)
}
