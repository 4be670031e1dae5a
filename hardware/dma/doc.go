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

// Package dma implements the 8237 DMA controller and the XT's page
// registers. Four channels; channel 0 is wired to the PIT's channel 1
// output for DRAM refresh, channels 2 and 3 to the floppy and hard disk
// controllers.
//
// A device raises a request with Request() and the controller steals bus
// cycles from the CPU to move bytes between the device and memory. A DMA
// transfer and a CPU bus cycle never occur in the same tick; the machine's
// step loop asks the controller first and holds the CPU when a steal is in
// progress.
//
// Refresh transfers on channel 0 use the same machinery but the "device"
// end is nobody: the read is performed to keep the DRAM rows alive and the
// byte is discarded.
package dma
