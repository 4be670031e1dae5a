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
	"fmt"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/logger"
	"github.com/gopherxt/gopherxt/screen"
)

// CGA register ports. The MDA uses the same layout in the 0x3b0 block.
const (
	cgaPortBase   = 0x3d0
	mdaPortBase   = 0x3b0
	portCRTCIndex = 0x04 // offset from base, mirrored at 0x00 and 0x02
	portCRTCData  = 0x05
	portModeSel   = 0x08
	portColorSel  = 0x09
	portStatus    = 0x0a
)

// Mode select register bits.
const (
	mode80Col    = 0x01
	modeGraphics = 0x02
	modeBW       = 0x04
	modeEnable   = 0x08
	modeHiRes    = 0x10
	modeBlink    = 0x20
)

// clockMode is the adapter's current clocking regime. See the package
// documentation for the dynamic clocking discussion.
type clockMode int

const (
	// one character latched every 16 hdots
	characterClocked clockMode = iota

	// pixels evaluated every hdot; the 80 column and hi-res regime
	cycleClocked
)

// maximum pixels latched per character clock.
const latchSize = 16

// Adapter models an MDA or CGA display adapter. It implements the
// bus.PortDevice and bus.MemDevice interfaces.
type Adapter struct {
	typ screen.AdapterType
	scr *screen.Screen

	vram []uint8

	crtc crtc

	// mode and color select registers
	modeSel  uint8
	colorSel uint8

	// character ROM. optional; a substitute pattern is generated when no
	// ROM is loaded
	font []byte

	// clocking state. divider is the number of hdots per character clock;
	// pendingDivider is latched at the next character boundary after a mode
	// select write
	clock          clockMode
	divider        int
	pendingDivider int

	// the pixel shifter: colors for the hdots of the current character
	latch    [latchSize]screen.ColorSignal
	dotCount int
}

// NewAdapter is the preferred method of initialisation for the Adapter
// type. The font argument is the character ROM and may be nil.
func NewAdapter(typ screen.AdapterType, scr *screen.Screen, font []byte) (*Adapter, error) {
	adp := &Adapter{typ: typ, scr: scr, font: font}

	switch typ {
	case screen.AdapterCGA:
		adp.vram = make([]uint8, 0x4000)
	case screen.AdapterMDA:
		adp.vram = make([]uint8, 0x1000)
	default:
		return nil, curated.Errorf("video: unsupported adapter type (%s)", typ)
	}

	adp.Reset()
	return adp, nil
}

// Reset returns the adapter to its power-on state. Video RAM is preserved,
// as it is by a warm boot.
func (adp *Adapter) Reset() {
	adp.crtc.reset()
	adp.modeSel = 0
	adp.colorSel = 0
	adp.dotCount = 0
	adp.latchDivider()
	adp.divider = adp.pendingDivider
}

func (adp *Adapter) String() string {
	return fmt.Sprintf("%s mode=%02x col=%d row=%d/%d", adp.typ,
		adp.modeSel, adp.crtc.hcc, adp.crtc.vcc, adp.crtc.vlc)
}

// Type returns the adapter type.
func (adp *Adapter) Type() screen.AdapterType {
	return adp.typ
}

// latchDivider computes the hdots-per-character divider for the current
// mode select value. The new value only takes effect at a character
// boundary.
func (adp *Adapter) latchDivider() {
	if adp.typ == screen.AdapterMDA {
		adp.clock = cycleClocked
		adp.pendingDivider = 9
		return
	}

	switch {
	case adp.modeSel&modeGraphics != 0:
		// both graphics modes fetch two bytes per character clock
		adp.clock = cycleClocked
		adp.pendingDivider = 16
	case adp.modeSel&mode80Col != 0:
		adp.clock = cycleClocked
		adp.pendingDivider = 8
	default:
		adp.clock = characterClocked
		adp.pendingDivider = 16
	}
}

// Step advances the adapter by the given number of hdots. The machine calls
// this with three hdots for every CPU tick.
func (adp *Adapter) Step(hdots int) error {
	for i := 0; i < hdots; i++ {
		if adp.dotCount == 0 {
			// character boundary: adopt any pending clock change and fetch
			// the next character's pixels
			adp.divider = adp.pendingDivider
			adp.fetchCharacter()
		}

		sig := screen.SignalAttributes{
			HSync: adp.crtc.hsync,
			VSync: adp.crtc.vsync,
			Blank: !adp.crtc.displayed() || adp.modeSel&modeEnable == 0,
			Color: adp.latch[adp.dotCount],
		}
		if err := adp.scr.Signal(sig); err != nil {
			return curated.Errorf("video: %v", err)
		}

		adp.dotCount++
		if adp.dotCount >= adp.divider {
			adp.dotCount = 0
			adp.crtc.tick()
		}
	}
	return nil
}

// fetchCharacter fills the pixel latch for the character position the CRTC
// counters currently name.
func (adp *Adapter) fetchCharacter() {
	if !adp.crtc.displayed() {
		for i := range adp.latch {
			adp.latch[i] = screen.VideoBlack
		}
		return
	}

	if adp.modeSel&modeGraphics != 0 {
		adp.fetchGraphics()
		return
	}
	adp.fetchText()
}

func (adp *Adapter) fetchText() {
	addr := adp.crtc.fetchAddr() * 2
	char := adp.vram[addr&(len(adp.vram)-1)]
	attr := adp.vram[(addr+1)&(len(adp.vram)-1)]

	fg := screen.ColorSignal(attr & 0x0f)
	bg := screen.ColorSignal((attr >> 4) & 0x07)

	row := adp.glyphRow(char, adp.crtc.vlc)

	// underline the cursor for its whole character cell. blink phase is
	// not modelled; the cursor is solid
	if adp.crtc.fetchAddr() == adp.crtc.cursorAddr() {
		row = 0xff
	}

	for i := 0; i < 8; i++ {
		c := bg
		if row&(0x80>>i) != 0 {
			c = fg
		}
		if adp.divider == 16 {
			// pixel doubling in 40 column mode
			adp.latch[i*2] = c
			adp.latch[i*2+1] = c
		} else {
			adp.latch[i] = c
		}
	}
	if adp.divider == 9 {
		// MDA column 9 repeats column 8 for the line drawing characters,
		// otherwise background
		c := bg
		if char >= 0xc0 && char <= 0xdf && row&0x01 != 0 {
			c = fg
		}
		adp.latch[8] = c
	}
}

func (adp *Adapter) fetchGraphics() {
	// graphics rows interleave: even scanlines in the first 8KB bank, odd
	// in the second. two bytes fetched per character clock
	addr := (adp.crtc.vlc&1)*0x2000 + adp.crtc.fetchAddr()*2
	b0 := adp.vram[addr&(len(adp.vram)-1)]
	b1 := adp.vram[(addr+1)&(len(adp.vram)-1)]

	if adp.modeSel&modeHiRes != 0 {
		// 640x200: one pixel per hdot, sixteen from the two bytes
		w := uint16(b0)<<8 | uint16(b1)
		for i := 0; i < 16; i++ {
			if w&(0x8000>>i) != 0 {
				adp.latch[i] = screen.ColorSignal(adp.colorSel & 0x0f)
			} else {
				adp.latch[i] = 0
			}
		}
		return
	}

	// 320x200: eight 2-bit pixels, each two hdots wide
	w := uint16(b0)<<8 | uint16(b1)
	for i := 0; i < 8; i++ {
		pix := uint8(w >> (14 - i*2) & 0x03)
		c := paletteLookup(adp.colorSel, pix)
		adp.latch[i*2] = c
		adp.latch[i*2+1] = c
	}
}

// glyphRow returns one row of the glyph for the given character code. When
// no character ROM is loaded a deterministic substitute pattern is used;
// unreadable but stable, which is all the tests need.
func (adp *Adapter) glyphRow(char uint8, row int) uint8 {
	if adp.font != nil {
		offset := int(char)*8 + (row & 0x07)
		if offset < len(adp.font) {
			return adp.font[offset]
		}
	}
	return uint8((int(char)*31 + row*17) & 0xff)
}

// PortRead implements the bus.PortDevice interface.
func (adp *Adapter) PortRead(port uint16) uint8 {
	switch port & 0x0f {
	case portCRTCData:
		return adp.crtc.readData()
	case portStatus:
		var v uint8
		if !adp.crtc.displayed() {
			v |= 0x01
		}
		if adp.crtc.vsync {
			v |= 0x08
		}
		return v
	}
	return 0xff
}

// PortWrite implements the bus.PortDevice interface.
func (adp *Adapter) PortWrite(port uint16, data uint8) {
	switch port & 0x0f {
	case 0x00, 0x02, portCRTCIndex:
		adp.crtc.writeIndex(data)
	case 0x01, 0x03, portCRTCData:
		adp.crtc.writeData(data)
	case portModeSel:
		adp.modeSel = data
		adp.latchDivider()
		logger.Logf("video", "mode select %02x", data)
	case portColorSel:
		adp.colorSel = data
	}
}

// MemRead implements the bus.MemDevice interface.
func (adp *Adapter) MemRead(addr uint32) uint8 {
	return adp.vram[int(addr)&(len(adp.vram)-1)]
}

// MemWrite implements the bus.MemDevice interface.
func (adp *Adapter) MemWrite(addr uint32, data uint8) {
	adp.vram[int(addr)&(len(adp.vram)-1)] = data
}
