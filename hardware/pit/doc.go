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

// Package pit implements the 8253 programmable interval timer. Three
// independent 16-bit down counters clocked at 1.193MHz (the CPU clock
// divided by four).
//
// In the XT the three channels have fixed jobs: channel 0 drives IRQ0 and is
// the source of the BIOS 18.2Hz tick, channel 1 paces DRAM refresh through
// DMA channel 0, and channel 2 feeds the speaker through a gate bit on the
// PPI.
//
// The chip in this machine is the 8253, not the 8254. There is no read-back
// command; reading a channel's current count goes through the counter latch
// command, which holds the count stable for the CPU without disturbing
// counting.
package pit
