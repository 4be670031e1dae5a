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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/gopherxt/gopherxt/screen"
)

// Video is a PixelRenderer that hashes every frame. SHA-1 is fine here;
// this is not a cryptographic task, just a fingerprint.
type Video struct {
	spec   screen.Spec
	digest [sha1.Size]byte
	pixels []byte
}

// NewVideo is the preferred method of initialisation for the Video type.
// It registers itself with the screen.
func NewVideo(scr *screen.Screen) *Video {
	dig := &Video{}
	_ = dig.Resize(scr.Spec())
	scr.AddPixelRenderer(dig)
	return dig
}

// Hash returns the video digest as a hex string. The digest folds in every
// frame since the last ResetDigest, so two machines with equal hashes drew
// identical rasters in the same order.
func (dig *Video) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Video) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
}

// Resize implements the screen.PixelRenderer interface.
func (dig *Video) Resize(spec screen.Spec) error {
	dig.spec = spec

	// the pixel array leads with the previous digest so each frame's hash
	// chains from the one before
	dig.pixels = make([]byte, sha1.Size+spec.HdotsScanline*spec.ScanlinesFrame)
	return nil
}

// NewFrame implements the screen.PixelRenderer interface. The hash is
// updated at frame boundaries.
func (dig *Video) NewFrame(frameNum int) error {
	dig.digest = sha1.Sum(dig.pixels)
	copy(dig.pixels, dig.digest[:])
	return nil
}

// NewScanline implements the screen.PixelRenderer interface.
func (dig *Video) NewScanline(scanline int) error {
	return nil
}

// SetPixel implements the screen.PixelRenderer interface.
func (dig *Video) SetPixel(x, y int, color screen.ColorSignal) error {
	i := sha1.Size + y*dig.spec.HdotsScanline + x
	if i < len(dig.pixels) {
		dig.pixels[i] = byte(color)
	}
	return nil
}

// EndRendering implements the screen.PixelRenderer interface.
func (dig *Video) EndRendering() error {
	return nil
}
