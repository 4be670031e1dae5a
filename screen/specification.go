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

// Model is the machine model being emulated.
type Model string

// List of supported machine models.
const (
	Model5150 Model = "5150"
	Model5160 Model = "5160"
)

// AdapterType is the installed video adapter.
type AdapterType string

// List of supported video adapters.
const (
	AdapterMDA AdapterType = "MDA"
	AdapterCGA AdapterType = "CGA"
)

// Crystal frequencies. Everything in the machine is derived from the single
// 14.31818MHz crystal: the CPU clock is the crystal divided by 3, the PIT
// clock is the CPU clock divided by 4 and the CGA hdot clock is the crystal
// itself.
const (
	CrystalHz = 14318180
	CPUHz     = CrystalHz / 3 // 4.772726MHz
	PITHz     = CPUHz / 4     // 1.193181MHz
)

// HdotsPerCPUClock is the number of CGA hdots generated for every CPU clock
// tick. The crystal to CPU divider is 3 so this is exact.
const HdotsPerCPUClock = 3

// Spec is used to define the operating characteristics of the machine and
// its display. Useful values of the type are defined as package globals
// (SpecCGA, SpecMDA).
type Spec struct {
	ID      string
	Adapter AdapterType

	// total hdots per scanline and total scanlines per frame, including all
	// blanking periods
	HdotsScanline  int
	ScanlinesFrame int

	// the area of the frame that reaches the phosphor
	VisibleTop    int
	VisibleBottom int
	VisibleLeft   int
	VisibleRight  int

	// frame refresh rate (Hz) implied by the counts above
	RefreshRate float64
}

// SpecCGA is the specification for a CGA adapter driving a standard RGBI
// monitor. 912 hdots per scanline and 262 scanlines gives the 59.92Hz frame
// rate of the real card.
var SpecCGA = Spec{
	ID:             "CGA",
	Adapter:        AdapterCGA,
	HdotsScanline:  912,
	ScanlinesFrame: 262,
	VisibleTop:     0,
	VisibleBottom:  200,
	VisibleLeft:    0,
	VisibleRight:   640,
	RefreshRate:    59.92,
}

// SpecMDA is the specification for an MDA adapter driving the 5151 monitor.
// The MDA character clock runs from its own 16.257MHz crystal but for the
// purposes of this emulation it is derived from the system crystal; the
// difference is below the resolution of the frame counters.
var SpecMDA = Spec{
	ID:             "MDA",
	Adapter:        AdapterMDA,
	HdotsScanline:  882,
	ScanlinesFrame: 370,
	VisibleTop:     0,
	VisibleBottom:  350,
	VisibleLeft:    0,
	VisibleRight:   720,
	RefreshRate:    50.08,
}

// GetSpec returns the Spec for the named adapter. Adapter name is case
// sensitive.
func GetSpec(adapter AdapterType) (Spec, bool) {
	switch adapter {
	case AdapterCGA:
		return SpecCGA, true
	case AdapterMDA:
		return SpecMDA, true
	}
	return Spec{}, false
}
