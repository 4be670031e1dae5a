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

// Package performance contains helper functions relating to the
// performance of the emulator.
//
// Check() runs the emulation for a set duration, without a frontend, and
// reports the frame rate and effective CPU clock achieved, alongside how
// those compare to real hardware.
//
// RunProfiler() wraps a run with the pprof CPU and memory profilers. On
// its own it is also useful for profiling arbitrary launch modes.
package performance
