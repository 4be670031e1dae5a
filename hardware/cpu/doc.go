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

// Package cpu implements the 8088. The model follows the real part's split
// into an execution unit and a bus interface unit: the execution unit
// consumes instruction bytes from the four byte prefetch queue and the bus
// interface unit refills the queue whenever the execution unit leaves the
// bus idle. Every bus cycle is four clocks; instruction timing emerges
// from the interplay of table-driven execution costs, effective address
// calculation and actual bus traffic, rather than from flat per-opcode
// counts.
//
// ExecuteInstruction() is the only way to advance the CPU. It runs exactly
// one instruction (or one interrupt entry) and fires its callback on every
// clock, which is how the rest of the machine keeps lockstep. Interrupt
// lines are sampled at instruction boundaries, and between the iterations
// of repeated string instructions.
//
// All 256 opcode bytes decode to something, as on real silicon: the
// undocumented aliases (60-6f, c0/c1/c8/c9, d6, f1) execute their
// documented twins.
package cpu
