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

// Package digest contains implementations of the screen protocol
// interfaces, PixelRenderer and AudioMixer, that fold their input into a
// cryptographic hash instead of displaying it. Two runs of the machine
// that produce the same hashes produced the same output, which is the
// basis of the determinism tests and of regression comparison between
// builds.
package digest

// Digest implementations return a hash of everything they have seen since
// the last reset.
type Digest interface {
	Hash() string
	ResetDigest()
}
