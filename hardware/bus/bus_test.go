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

package bus_test

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/test"
)

type mockPortDevice struct {
	lastPort  uint16
	lastWrite uint8
}

func (m *mockPortDevice) PortRead(port uint16) uint8 {
	m.lastPort = port
	return 0x42
}

func (m *mockPortDevice) PortWrite(port uint16, data uint8) {
	m.lastPort = port
	m.lastWrite = data
}

func TestRAM(t *testing.T) {
	b := bus.NewBus()

	test.ExpectEquality(t, b.Read(0x1234), 0)
	b.Write(0x1234, 0xab)
	test.ExpectEquality(t, b.Read(0x1234), 0xab)

	// address wraps at 1MB
	b.Write(0x100000+0x10, 0xcd)
	test.ExpectEquality(t, b.Read(0x10), 0xcd)
}

func TestPortDispatch(t *testing.T) {
	b := bus.NewBus()
	dev := &mockPortDevice{}

	err := b.RegisterPorts("mock", 0x40, 0x43, dev)
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, b.PortRead(0x41), 0x42)
	test.ExpectEquality(t, dev.lastPort, 0x41)

	b.PortWrite(0x43, 0x99)
	test.ExpectEquality(t, dev.lastWrite, 0x99)

	// unclaimed port reads float
	test.ExpectEquality(t, b.PortRead(0x300), bus.FloatingBus)
}

func TestOverlapRejected(t *testing.T) {
	b := bus.NewBus()
	dev := &mockPortDevice{}

	test.ExpectSuccess(t, b.RegisterPorts("first", 0x40, 0x43, dev))
	test.ExpectFailure(t, b.RegisterPorts("second", 0x42, 0x44, dev))
	test.ExpectSuccess(t, b.RegisterPorts("third", 0x44, 0x47, dev))
}

func TestROMWriteProtect(t *testing.T) {
	b := bus.NewBus()

	rom := make([]byte, 0x2000)
	rom[0] = 0xea
	test.ExpectSuccess(t, b.MapROM("bios", 0xfe000, rom))

	test.ExpectEquality(t, b.Read(0xfe000), 0xea)
	b.Write(0xfe000, 0x00)
	test.ExpectEquality(t, b.Read(0xfe000), 0xea)

	// misaligned ROM is a construction error
	test.ExpectFailure(t, b.MapROM("bad", 0x100, rom))
}
