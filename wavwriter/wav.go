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

// Package wavwriter allows writing of the speaker sample stream to disk as
// a WAV file. Audio data is buffered in memory in its entirety and written
// on program end, so it is only really suitable for test captures.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/speaker"
	"github.com/gopherxt/gopherxt/logger"
)

// WavWriter implements the screen.AudioMixer interface.
type WavWriter struct {
	filename string
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(filename string) (*WavWriter, error) {
	return &WavWriter{
		filename: filename,
		buffer:   make([]int, 0, speaker.SampleFreq),
	}, nil
}

// SetAudio implements the screen.AudioMixer interface.
func (aw *WavWriter) SetAudio(sample uint8) error {
	aw.buffer = append(aw.buffer, int(sample))
	return nil
}

// EndMixing implements the screen.AudioMixer interface. The buffered
// samples are encoded and flushed.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, speaker.SampleFreq, 8, 1, 1)
	defer func() {
		if err := enc.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  speaker.SampleFreq,
		},
		Data:           aw.buffer,
		SourceBitDepth: 8,
	}

	logger.Logf("wavwriter", "writing audio to %s", aw.filename)
	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}
