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

// buffer a second's worth of samples between hash updates.
const audioChunk = 44100

// Audio is an AudioMixer that hashes the speaker sample stream.
type Audio struct {
	digest [sha1.Size]byte
	buffer []byte
}

// NewAudio is the preferred method of initialisation for the Audio type.
// It registers itself with the screen.
func NewAudio(scr *screen.Screen) *Audio {
	dig := &Audio{buffer: make([]byte, sha1.Size, sha1.Size+audioChunk)}
	scr.AddAudioMixer(dig)
	return dig
}

// Hash returns the audio digest as a hex string.
func (dig *Audio) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *Audio) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.buffer = dig.buffer[:sha1.Size]
}

// SetAudio implements the screen.AudioMixer interface.
func (dig *Audio) SetAudio(sample uint8) error {
	dig.buffer = append(dig.buffer, sample)
	if len(dig.buffer) >= sha1.Size+audioChunk {
		dig.fold()
	}
	return nil
}

func (dig *Audio) fold() {
	dig.digest = sha1.Sum(dig.buffer)
	dig.buffer = dig.buffer[:sha1.Size]
	copy(dig.buffer, dig.digest[:])
}

// EndMixing implements the screen.AudioMixer interface. Any buffered
// samples are folded into the digest.
func (dig *Audio) EndMixing() error {
	if len(dig.buffer) > sha1.Size {
		dig.fold()
	}
	return nil
}
