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

// Package modalflag is a wrapper around the flag package in the Go standard
// library. It provides a convenient way of defining sub-modes on the command
// line. For example:
//
//	gopherxt PERFORMANCE -duration 10s bios.rom
//
// The PERFORMANCE sub-mode accepts its own flag set, distinct from the flags
// of the top level mode and of any other sub-mode.
package modalflag

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Modes provides a convenient way of handling command line arguments with
// sub-modes. The Output field should be specified before calling Parse() or
// help messages will not be visible.
type Modes struct {
	// where to print output (help messages etc). defaults to io.Discard
	Output io.Writer

	// the underlying flag structure. a new flagset is created on every call
	// to NewArgs() and NewMode()
	flags *flag.FlagSet

	// the argument list as specified by the NewArgs() function
	args    []string
	argsIdx int

	// the most recent list of sub-modes specified with the AddSubModes()
	// function. the first entry is the default sub-mode
	subModes []string

	// the series of sub-modes that have been found during subsequent calls
	// to Parse(). never reset
	path []string

	// additional help text to display alongside the flag summary
	additionalHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the last mode to be encountered.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns a string of all the modes encountered during parsing.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs initialises the Modes struct with a string of arguments (from the
// command line for example).
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0

	// by definition, a newly initialised Modes struct begins with a new mode
	md.NewMode()
}

// NewMode indicates that further arguments should be considered part of a
// new mode.
func (md *Modes) NewMode() {
	md.subModes = []string{}
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.additionalHelp = ""
}

// AdditionalHelp adds help text to be displayed in addition to the regular
// help on available flags.
func (md *Modes) AdditionalHelp(help string) {
	md.additionalHelp = help
}

// AddSubModes to list of sub-modes for the next parse. The first sub-mode in
// the list is considered to be the default sub-mode. Sub-mode comparisons are
// case insensitive.
func (md *Modes) AddSubModes(submodes ...string) {
	md.subModes = append(md.subModes, submodes...)
	for i := range md.subModes {
		md.subModes[i] = strings.ToUpper(md.subModes[i])
	}
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing. if sub-modes were specified
	// then the Mode() function should be checked
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error has occurred and is returned as the second return value
	ParseError
)

// Parse the current layer of arguments.
func (md *Modes) Parse() (ParseResult, error) {
	output := md.Output
	if output == nil {
		output = io.Discard
	}

	// suppress the flag package's own error output. errors are returned and
	// help is printed through md.Output
	md.flags.SetOutput(io.Discard)

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			md.printHelp(output)
			return ParseHelp, nil
		}
		return ParseError, err
	}

	if len(md.subModes) > 0 {
		arg := strings.ToUpper(md.flags.Arg(0))

		// check to see if the first argument is in the list of sub-modes,
		// defaulting to the first listed sub-mode if it isn't
		mode := md.subModes[0]
		for i := range md.subModes {
			if md.subModes[i] == arg {
				mode = arg
				md.argsIdx++
				break // for loop
			}
		}

		md.path = append(md.path, mode)
	}

	return ParseContinue, nil
}

func (md *Modes) printHelp(output io.Writer) {
	if md.Path() != "" {
		fmt.Fprintf(output, "mode: %s\n", md.Path())
	}

	md.flags.SetOutput(output)
	md.flags.PrintDefaults()
	md.flags.SetOutput(io.Discard)

	if len(md.subModes) > 0 {
		fmt.Fprintf(output, "sub-modes: %s (default: %s)\n",
			strings.Join(md.subModes, ", "), md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintf(output, "\n%s\n", md.additionalHelp)
	}
}

// RemainingArgs after a call to Parse() ie. arguments that aren't flags or a
// listed sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the numbered argument that isn't a flag or listed sub-mode.
func (md *Modes) GetArg(i int) string {
	return md.flags.Arg(i)
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddDuration flag for next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}
