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

// Package pic implements the 8259A programmable interrupt controller. The XT
// has a single controller, eight request lines, no cascading.
//
// Devices assert request lines with SetIRQ(). The controller latches
// requests in the IRR, masks them against the IMR and presents the highest
// priority unmasked request on its INT output. The CPU answers with
// Acknowledge(), which moves the request to the ISR and returns the
// programmed vector number. An EOI command (specific or non-specific)
// through OCW2 retires the in-service bit.
//
// Two pieces of timing matter to software and are modelled explicitly: a
// request that is already latched in the IRR is not cleared by a later IMR
// write, and a write to the IMR does not change the INT output until the
// next tick. BIOS boot sequences are sensitive to both.
package pic
