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

package romload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/romload"
	"github.com/gopherxt/gopherxt/test"
)

func writeImage(t *testing.T, name string, size int) string {
	t.Helper()

	data := make([]byte, size)
	for i := range data {
		data[i] = uint8(i)
	}

	fn := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(fn, data, 0o644)
	test.ExpectSuccess(t, err)

	return fn
}

func TestAttachBIOS(t *testing.T) {
	fn := writeImage(t, "bios.rom", 0x2000)

	b := bus.NewBus()
	ld := romload.NewLoader(fn)
	err := romload.AttachBIOS(b, &ld)
	test.ExpectSuccess(t, err)

	// an 8k image sits at the very top of the address space
	test.ExpectEquality(t, b.Read(0xfe000), 0x00)
	test.ExpectEquality(t, b.Read(0xfe001), 0x01)
	test.ExpectEquality(t, b.Read(0xfffff), 0xff)

	// hash recorded after load
	test.ExpectEquality(t, len(ld.Hash), 40)
}

func TestBIOSBadSize(t *testing.T) {
	fn := writeImage(t, "bios.rom", 0x1234)

	b := bus.NewBus()
	ld := romload.NewLoader(fn)
	test.ExpectFailure(t, romload.AttachBIOS(b, &ld))
}

func TestHashValidation(t *testing.T) {
	fn := writeImage(t, "bios.rom", 0x2000)

	ld := romload.NewLoader(fn)
	ld.Hash = "0000000000000000000000000000000000000000"
	test.ExpectFailure(t, ld.Load())
}

func TestLoadFont(t *testing.T) {
	data, err := romload.LoadFont(nil)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(data), 0)

	fn := writeImage(t, "font.rom", 0x800)
	ld := romload.NewLoader(fn)
	data, err = romload.LoadFont(&ld)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(data), 0x800)
}

func TestOptionWindow(t *testing.T) {
	fn := writeImage(t, "option.rom", 0x2000)

	b := bus.NewBus()
	ld := romload.NewLoader(fn)
	test.ExpectFailure(t, romload.AttachOption(b, &ld, 0x10000))
	test.ExpectSuccess(t, romload.AttachOption(b, &ld, 0xc8000))
	test.ExpectEquality(t, b.Read(0xc8001), 0x01)
}