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

// Package romload is used to specify and load the ROM images required to
// bring up a machine: the system BIOS, optional adapter ROMs and the video
// font ROM. ROM data is read once and cached; subsequent calls to Load()
// return the cached copy.
package romload

import (
	"crypto/sha1"
	"fmt"
	"os"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/logger"
)

// the top of the 8088 address space. the BIOS image always ends here.
const topOfMemory = 0x100000

// valid BIOS image sizes. an image must fill a whole number of 8KB EPROMs.
const (
	minBIOSSize = 0x2000
	maxBIOSSize = 0x10000
)

// Loader is used to specify a ROM image to load. The zero value is not
// useful, use NewLoader().
type Loader struct {
	// filename of ROM image to load
	Filename string

	// expected hash of the loaded image. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// copy of the loaded data. subsequent calls to Load() will return this
	// data without touching the filesystem
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{Filename: filename}
}

// Load the ROM image specified by the loader. The data is hashed and, if
// the Hash field was set beforehand, validated against the expected value.
func (ld *Loader) Load() error {
	if ld.Data != nil {
		return nil
	}

	data, err := os.ReadFile(ld.Filename)
	if err != nil {
		return curated.Errorf("romload: %v", err)
	}
	if len(data) == 0 {
		return curated.Errorf("romload: %v", fmt.Errorf("empty ROM image: %s", ld.Filename))
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))
	if ld.Hash != "" && ld.Hash != hash {
		return curated.Errorf("romload: %v", fmt.Errorf("unexpected hash for %s", ld.Filename))
	}

	ld.Data = data
	ld.Hash = hash

	return nil
}

// AttachBIOS loads the BIOS image and maps it at the top of the address
// space, where the CPU's reset vector expects to find it.
func AttachBIOS(b *bus.Bus, ld *Loader) error {
	if err := ld.Load(); err != nil {
		return err
	}

	sz := len(ld.Data)
	if sz < minBIOSSize || sz > maxBIOSSize || sz%minBIOSSize != 0 {
		return curated.Errorf("romload: %v", fmt.Errorf("BIOS image is an unsupported size (%dk)", sz/1024))
	}

	origin := uint32(topOfMemory - sz)
	if err := b.MapROM("BIOS", origin, ld.Data); err != nil {
		return curated.Errorf("romload: %v", err)
	}

	logger.Logf("romload", "BIOS %s (%dk) at %05x", ld.Hash[:8], sz/1024, origin)

	return nil
}

// AttachOption loads an option ROM (eg. a hard disk controller BIOS) and
// maps it at the given origin. Option ROMs live in the adapter window and
// must not reach into the BIOS area.
func AttachOption(b *bus.Bus, ld *Loader, origin uint32) error {
	if err := ld.Load(); err != nil {
		return err
	}

	if origin%0x800 != 0 {
		return curated.Errorf("romload: %v", fmt.Errorf("option ROM origin %05x is not 2k aligned", origin))
	}
	if origin < 0xc0000 || origin+uint32(len(ld.Data)) > 0xf0000 {
		return curated.Errorf("romload: %v", fmt.Errorf("option ROM does not fit the adapter window"))
	}

	if err := b.MapROM("option", origin, ld.Data); err != nil {
		return curated.Errorf("romload: %v", err)
	}

	logger.Logf("romload", "option ROM %s (%dk) at %05x", ld.Hash[:8], len(ld.Data)/1024, origin)

	return nil
}

// LoadFont loads the video character generator ROM. The returned data is
// handed to the video adapter rather than mapped onto the bus. A nil
// loader is allowed and returns nil data, in which case the adapter falls
// back to its substitute glyphs.
func LoadFont(ld *Loader) ([]byte, error) {
	if ld == nil {
		return nil, nil
	}

	if err := ld.Load(); err != nil {
		return nil, err
	}

	// the MDA/CGA character generator is a 2716 or 2732 EPROM
	if len(ld.Data) != 0x800 && len(ld.Data) != 0x1000 && len(ld.Data) != 0x2000 {
		return nil, curated.Errorf("romload: %v", fmt.Errorf("font ROM is an unsupported size (%d)", len(ld.Data)))
	}

	return ld.Data, nil
}
