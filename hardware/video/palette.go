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

import "github.com/gopherxt/gopherxt/screen"

// RGB returns the RGB values for a color index put on the wire by the CGA.
// Renderers are free to use their own tables; this one is the standard RGBI
// monitor interpretation, including the brown adjustment the 5153 monitor
// makes to color 6.
func RGB(sig screen.ColorSignal) (uint8, uint8, uint8) {
	if int(sig) >= len(rgbiTable) {
		return 0, 0, 0
	}
	c := rgbiTable[sig]
	return c[0], c[1], c[2]
}

var rgbiTable = [16][3]uint8{
	{0x00, 0x00, 0x00}, // black
	{0x00, 0x00, 0xaa}, // blue
	{0x00, 0xaa, 0x00}, // green
	{0x00, 0xaa, 0xaa}, // cyan
	{0xaa, 0x00, 0x00}, // red
	{0xaa, 0x00, 0xaa}, // magenta
	{0xaa, 0x55, 0x00}, // brown
	{0xaa, 0xaa, 0xaa}, // light gray
	{0x55, 0x55, 0x55}, // dark gray
	{0x55, 0x55, 0xff}, // light blue
	{0x55, 0xff, 0x55}, // light green
	{0x55, 0xff, 0xff}, // light cyan
	{0xff, 0x55, 0x55}, // light red
	{0xff, 0x55, 0xff}, // light magenta
	{0xff, 0xff, 0x55}, // yellow
	{0xff, 0xff, 0xff}, // white
}

// the two fixed palettes of the 320x200 mode, selected by a bit in the
// color select register. entry 0 is replaced by the programmed background
// color at lookup time.
var cgaPalette = [2][4]uint8{
	{0, 2, 4, 6},  // green, red, brown
	{0, 3, 5, 7},  // cyan, magenta, white
}

// intensity bit in the color select register lifts the palette into the
// bright half of the RGBI table.
func paletteLookup(colorSelect uint8, pixel uint8) screen.ColorSignal {
	if pixel == 0 {
		return screen.ColorSignal(colorSelect & 0x0f)
	}
	c := cgaPalette[(colorSelect>>5)&1][pixel]
	if colorSelect&0x10 != 0 {
		c |= 0x08
	}
	return screen.ColorSignal(c)
}
