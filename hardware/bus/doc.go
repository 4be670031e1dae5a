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

// Package bus models the 8088's 20-bit address space and 16-bit I/O port
// space, and the routing of accesses to the devices that claim them.
//
// Devices claim address or port ranges at machine construction with the
// RegisterMem() and RegisterPorts() functions. Registration fails if the
// requested range overlaps an existing claim; two devices can never respond
// to the same address.
//
// Accesses that no device claims fall through to the flat RAM array, or in
// the case of the port space return the floating bus value. ROM regions are
// part of the RAM array but are marked write-protected; writes to them are
// absorbed silently, as they are by the real bus.
//
// The data bus is eight bits wide, like the 8088's. Word accesses are the
// CPU's business and are made as two byte accesses, each a bus cycle of its
// own.
package bus
