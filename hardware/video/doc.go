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

// Package video implements the MDA and CGA display adapters at raster
// timing. The adapter advances with the machine clock, three hdots per CPU
// tick, and sends a signal to the screen for every hdot: the screen never
// sees a "frame", only the beam.
//
// The heart of both adapters is the 6845 CRTC. Its register file defines
// the horizontal and vertical totals, the displayed area and the sync
// positions; the adapter walks character columns and rows off those
// registers and fetches from its own video RAM as the beam passes.
//
// # Dynamic clocking
//
// The CGA changes its character clock with the display mode: eight hdots
// per character in 80 column text and in the graphics modes, sixteen in 40
// column text. Rather than simulating a fixed-rate raster and correcting
// afterwards, the adapter latches its clock divider whenever the mode
// select register changes, at the next character boundary. This keeps the
// CRTC counters phase-locked to the CPU across mode switches; software that
// races the beam (and the validator, which counts ticks) observes at most a
// single transitional character of slip, which is what the real card
// produces.
package video
