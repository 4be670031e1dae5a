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

package bus

import (
	"github.com/gopherxt/gopherxt/curated"
)

// AddressSpace is the size of the 8088's physical address space.
const AddressSpace = 0x100000

// FloatingBus is the value read from unclaimed ports and unpopulated memory.
// The real bus floats to whatever was last driven on it; 0xff is what an XT
// with open-bus reads settles on most of the time.
const FloatingBus = 0xff

// MemDevice is implemented by devices that claim a range of memory
// addresses (eg. video RAM).
type MemDevice interface {
	MemRead(addr uint32) uint8
	MemWrite(addr uint32, data uint8)
}

// PortDevice is implemented by devices that claim a range of I/O ports.
type PortDevice interface {
	PortRead(port uint16) uint8
	PortWrite(port uint16, data uint8)
}

type memRegion struct {
	label      string
	start, end uint32 // inclusive
	dev        MemDevice
}

type portRegion struct {
	label      string
	start, end uint16 // inclusive
	dev        PortDevice
}

// Bus is the flat addressable memory plus the port-mapped I/O space. It owns
// device registration and dispatches reads and writes to whichever device
// claims the address.
type Bus struct {
	ram []uint8

	// write protection for ROM regions, one bool per 2KB block
	protected [AddressSpace >> 11]bool

	mem   []memRegion
	ports []portRegion
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{
		ram: make([]uint8, AddressSpace),
	}
}

// Reset clears RAM but leaves ROM content and device registrations in place.
func (b *Bus) Reset() {
	for i := range b.ram {
		if !b.protected[i>>11] {
			b.ram[i] = 0
		}
	}
}

// RegisterMem binds a memory address range to a device. The range is
// inclusive at both ends. Fails if the range overlaps an existing
// registration.
func (b *Bus) RegisterMem(label string, start, end uint32, dev MemDevice) error {
	if start > end || end >= AddressSpace {
		return curated.Errorf("bus: %s: bad memory range %05x-%05x", label, start, end)
	}
	for _, r := range b.mem {
		if start <= r.end && end >= r.start {
			return curated.Errorf("bus: %s: memory range %05x-%05x overlaps %s", label, start, end, r.label)
		}
	}
	b.mem = append(b.mem, memRegion{label: label, start: start, end: end, dev: dev})
	return nil
}

// RegisterPorts binds a port range to a device. The range is inclusive at
// both ends. Fails if the range overlaps an existing registration.
func (b *Bus) RegisterPorts(label string, start, end uint16, dev PortDevice) error {
	if start > end {
		return curated.Errorf("bus: %s: bad port range %04x-%04x", label, start, end)
	}
	for _, r := range b.ports {
		if start <= r.end && end >= r.start {
			return curated.Errorf("bus: %s: port range %04x-%04x overlaps %s", label, start, end, r.label)
		}
	}
	b.ports = append(b.ports, portRegion{label: label, start: start, end: end, dev: dev})
	return nil
}

// MapROM copies the supplied bytes into the address space at origin and
// write-protects the region. The region must be aligned to and a multiple of
// 2KB, which every ROM for this machine is.
func (b *Bus) MapROM(label string, origin uint32, data []byte) error {
	if origin%0x800 != 0 || len(data)%0x800 != 0 {
		return curated.Errorf("bus: %s: ROM not aligned to 2KB", label)
	}
	if int(origin)+len(data) > AddressSpace {
		return curated.Errorf("bus: %s: ROM extends past end of address space", label)
	}
	copy(b.ram[origin:], data)
	for i := origin >> 11; i < (origin+uint32(len(data)))>>11; i++ {
		b.protected[i] = true
	}
	return nil
}

// Read a byte from the memory address space.
func (b *Bus) Read(addr uint32) uint8 {
	addr &= AddressSpace - 1
	for i := range b.mem {
		if addr >= b.mem[i].start && addr <= b.mem[i].end {
			return b.mem[i].dev.MemRead(addr)
		}
	}
	return b.ram[addr]
}

// Write a byte to the memory address space. Writes to ROM are absorbed.
func (b *Bus) Write(addr uint32, data uint8) {
	addr &= AddressSpace - 1
	for i := range b.mem {
		if addr >= b.mem[i].start && addr <= b.mem[i].end {
			b.mem[i].dev.MemWrite(addr, data)
			return
		}
	}
	if b.protected[addr>>11] {
		return
	}
	b.ram[addr] = data
}

// PortRead reads a byte from the I/O port space. Unclaimed ports return the
// floating bus value.
func (b *Bus) PortRead(port uint16) uint8 {
	for i := range b.ports {
		if port >= b.ports[i].start && port <= b.ports[i].end {
			return b.ports[i].dev.PortRead(port)
		}
	}
	return FloatingBus
}

// PortWrite writes a byte to the I/O port space. Writes to unclaimed ports
// are absorbed.
func (b *Bus) PortWrite(port uint16, data uint8) {
	for i := range b.ports {
		if port >= b.ports[i].start && port <= b.ports[i].end {
			b.ports[i].dev.PortWrite(port, data)
			return
		}
	}
}

// Peek reads a byte from memory without any device side effects. Used by the
// disassembler and the validator, never by the CPU.
func (b *Bus) Peek(addr uint32) uint8 {
	return b.ram[addr&(AddressSpace-1)]
}

// Poke writes a byte to memory ignoring device claims and write protection.
// Strictly for test setup.
func (b *Bus) Poke(addr uint32, data uint8) {
	b.ram[addr&(AddressSpace-1)] = data
}
