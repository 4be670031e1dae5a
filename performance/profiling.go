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

package performance

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/gopherxt/gopherxt/curated"
)

// Profile enumerates the types of profile that can be gathered around a
// run.
type Profile int

// List of valid Profile values.
const (
	ProfileNone Profile = iota
	ProfileCPU
	ProfileMem
	ProfileAll
)

// ParseProfile converts a profile name, as supplied on the command line,
// to a Profile value.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToUpper(s) {
	case "NONE":
		return ProfileNone, nil
	case "CPU":
		return ProfileCPU, nil
	case "MEM":
		return ProfileMem, nil
	case "ALL":
		return ProfileAll, nil
	}
	return ProfileNone, curated.Errorf("performance: %v", fmt.Errorf("unrecognised profile type (%s)", s))
}

// RunProfiler runs the supplied function with the requested profilers
// attached. Profile files are named after the tag.
func RunProfiler(profile Profile, tag string, run func() error) error {
	if profile == ProfileCPU || profile == ProfileAll {
		f, err := os.Create(fmt.Sprintf("%s_cpu.profile", tag))
		if err != nil {
			return curated.Errorf("performance: %v", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return curated.Errorf("performance: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	err := run()
	if err != nil {
		return err
	}

	if profile == ProfileMem || profile == ProfileAll {
		f, err := os.Create(fmt.Sprintf("%s_mem.profile", tag))
		if err != nil {
			return curated.Errorf("performance: %v", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return curated.Errorf("performance: %v", err)
		}
	}

	return nil
}
