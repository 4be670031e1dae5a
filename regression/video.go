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

package regression

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/database"
	"github.com/gopherxt/gopherxt/digest"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/romload"
	"github.com/gopherxt/gopherxt/screen"
)

const videoEntryID = "video"

const (
	videoFieldBIOSFile int = iota
	videoFieldModel
	videoFieldAdapter
	videoFieldNumFrames
	videoFieldDigestMode
	videoFieldVideoDigest
	videoFieldAudioDigest
	numVideoFields
)

// VideoRegression runs a BIOS image for a fixed number of frames and
// compares the resulting raster and/or audio digest against the value
// recorded when the entry was added.
type VideoRegression struct {
	BIOSFile   string
	Model      screen.Model
	Adapter    screen.AdapterType
	NumFrames  int
	DigestMode DigestMode

	videoDigest string
	audioDigest string
}

func deserialiseVideoEntry(fields database.SerialisedEntry) (database.Entry, error) {
	reg := &VideoRegression{}

	if len(fields) != numVideoFields {
		return nil, curated.Errorf("regression: video: wrong number of fields")
	}

	reg.BIOSFile = fields[videoFieldBIOSFile]
	reg.Model = screen.Model(fields[videoFieldModel])
	reg.Adapter = screen.AdapterType(fields[videoFieldAdapter])
	reg.videoDigest = fields[videoFieldVideoDigest]
	reg.audioDigest = fields[videoFieldAudioDigest]

	var err error

	reg.NumFrames, err = strconv.Atoi(fields[videoFieldNumFrames])
	if err != nil {
		return nil, curated.Errorf("regression: video: invalid numFrames field (%s)", fields[videoFieldNumFrames])
	}

	reg.DigestMode, err = ParseDigestMode(fields[videoFieldDigestMode])
	if err != nil {
		return nil, curated.Errorf("regression: video: %v", err)
	}

	return reg, nil
}

// ID implements the database.Entry interface.
func (reg VideoRegression) ID() string {
	return videoEntryID
}

// String implements the database.Entry interface.
func (reg VideoRegression) String() string {
	return fmt.Sprintf("[%s] %s [%s/%s] frames=%d digest=%s",
		reg.ID(), filepath.Base(reg.BIOSFile), reg.Model, reg.Adapter,
		reg.NumFrames, reg.DigestMode)
}

// Serialise implements the database.Entry interface.
func (reg VideoRegression) Serialise() (database.SerialisedEntry, error) {
	return database.SerialisedEntry{
		reg.BIOSFile,
		string(reg.Model),
		string(reg.Adapter),
		strconv.Itoa(reg.NumFrames),
		reg.DigestMode.String(),
		reg.videoDigest,
		reg.audioDigest,
	}, nil
}

// CleanUp implements the database.Entry interface.
func (reg VideoRegression) CleanUp() error {
	return nil
}

// regress implements the Regressor interface.
func (reg *VideoRegression) regress(newRegression bool, output io.Writer, message string) (bool, error) {
	m, err := hardware.NewMachine(reg.Model, reg.Adapter, nil)
	if err != nil {
		return false, curated.Errorf("regression: video: %v", err)
	}
	defer m.End()

	ld := romload.NewLoader(reg.BIOSFile)
	if err := romload.AttachBIOS(m.Bus, &ld); err != nil {
		return false, curated.Errorf("regression: video: %v", err)
	}

	var vdig *digest.Video
	var adig *digest.Audio

	if reg.DigestMode == DigestVideoOnly || reg.DigestMode == DigestBoth {
		vdig = digest.NewVideo(m.Screen)
	}
	if reg.DigestMode == DigestAudioOnly || reg.DigestMode == DigestBoth {
		adig = digest.NewAudio(m.Screen)
	}

	// run one frame at a time so progress can be reported
	for fr := 0; fr < reg.NumFrames; fr++ {
		if err := m.RunForFrameCount(1); err != nil {
			return false, curated.Errorf("regression: video: %v", err)
		}
		output.Write([]byte(fmt.Sprintf("\r%s [%d/%d]", message, fr+1, reg.NumFrames)))
	}

	var videoDigest string
	var audioDigest string

	if vdig != nil {
		videoDigest = vdig.Hash()
	}
	if adig != nil {
		if err := adig.EndMixing(); err != nil {
			return false, curated.Errorf("regression: video: %v", err)
		}
		audioDigest = adig.Hash()
	}

	if newRegression {
		reg.videoDigest = videoDigest
		reg.audioDigest = audioDigest
		return true, nil
	}

	return videoDigest == reg.videoDigest && audioDigest == reg.audioDigest, nil
}
