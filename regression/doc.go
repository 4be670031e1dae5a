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

// Package regression facilitates the regression testing of GopherXT.
//
// A regression entry names a BIOS image, a machine configuration and a
// number of frames to run. When the entry is added to the database the
// machine is booted, run for that many frames and the resulting video
// and/or audio digest recorded. Because the emulation is deterministic,
// re-running the entry at a later date must produce the same digest. A
// digest that has drifted means emulation behaviour has changed.
//
// Regression entries are stored in a database of the type implemented in
// the database package. The database file lives in the resources path (see
// the resources package).
package regression
