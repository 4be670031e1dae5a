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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/debugger"
	"github.com/gopherxt/gopherxt/digest"
	"github.com/gopherxt/gopherxt/disassembly"
	"github.com/gopherxt/gopherxt/hardware"
	"github.com/gopherxt/gopherxt/logger"
	"github.com/gopherxt/gopherxt/modalflag"
	"github.com/gopherxt/gopherxt/performance"
	"github.com/gopherxt/gopherxt/regression"
	"github.com/gopherxt/gopherxt/romload"
	"github.com/gopherxt/gopherxt/screen"
	"github.com/gopherxt/gopherxt/statsview"
	"github.com/gopherxt/gopherxt/validator"
	"github.com/gopherxt/gopherxt/version"
	"github.com/gopherxt/gopherxt/wavwriter"
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "DEBUG", "DISASM", "PERFORMANCE", "VALIDATE", "REGRESS", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "DEBUG":
		err = debug(md)
	case "DISASM":
		err = disasm(md)
	case "PERFORMANCE":
		err = perform(md)
	case "VALIDATE":
		err = validate(md)
	case "REGRESS":
		err = regress(md)
	case "VERSION":
		vers, rev, _ := version.Version()
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, vers, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// machineFlags is the common set of machine construction flags, shared by
// every mode that boots a machine.
type machineFlags struct {
	model   *string
	adapter *string
	font    *string
	turbo   *int
	log     *bool
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	return machineFlags{
		model:   md.AddString("model", "5160", "machine model: 5150, 5160"),
		adapter: md.AddString("adapter", "CGA", "video adapter: CGA, MDA"),
		font:    md.AddString("font", "", "character generator ROM (optional)"),
		turbo:   md.AddInt("turbo", 1, "clock multiplier: 1 to 4"),
		log:     md.AddBool("log", false, "echo log to stderr"),
	}
}

// newMachine builds a machine from the common flags and attaches the BIOS
// named by the mode's single remaining argument.
func newMachine(md *modalflag.Modes, flgs machineFlags) (*hardware.Machine, error) {
	if *flgs.log {
		logger.SetEcho(os.Stderr)
	}

	model := screen.Model(*flgs.model)
	if model != screen.Model5150 && model != screen.Model5160 {
		return nil, fmt.Errorf("unrecognised machine model (%s)", *flgs.model)
	}

	adapter := screen.AdapterType(strings.ToUpper(*flgs.adapter))

	var font []byte
	if *flgs.font != "" {
		ld := romload.NewLoader(*flgs.font)
		var err error
		font, err = romload.LoadFont(&ld)
		if err != nil {
			return nil, err
		}
	}

	m, err := hardware.NewMachine(model, adapter, font)
	if err != nil {
		return nil, err
	}

	if err := m.SetTurbo(*flgs.turbo); err != nil {
		return nil, err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return nil, fmt.Errorf("BIOS ROM required for %s mode", md)
	case 1:
		bios := romload.NewLoader(md.GetArg(0))
		if err := romload.AttachBIOS(m.Bus, &bios); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("too many arguments for %s mode", md)
	}

	return m, nil
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	flgs := addMachineFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run (0 means until interrupted)")
	wav := md.AddString("wav", "", "record speaker output to WAV file")
	useDigest := md.AddBool("digest", false, "print video digest on exit")
	stats := md.AddBool("stats", false, "launch statistics server")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	m, err := newMachine(md, flgs)
	if err != nil {
		return err
	}
	defer m.End()

	if *stats {
		if statsview.Available() {
			statsview.Launch(md.Output)
		} else {
			fmt.Println("* stats server not available. rebuild with statsview build constraint")
		}
	}

	var vdig *digest.Video
	if *useDigest {
		vdig = digest.NewVideo(m.Screen)
	}

	if *wav != "" {
		aw, err := wavwriter.New(*wav)
		if err != nil {
			return err
		}
		m.Screen.AddAudioMixer(aw)
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	err = m.Run(func() (bool, error) {
		select {
		case <-intChan:
			return false, nil
		default:
		}
		if *frames > 0 && m.Screen.GetCoords().Frame >= *frames {
			return false, nil
		}
		return true, nil
	})
	if err != nil && !curated.Is(err, hardware.Ended) {
		return err
	}

	if vdig != nil {
		fmt.Fprintf(md.Output, "video digest: %s\n", vdig.Hash())
	}

	return nil
}

func debug(md *modalflag.Modes) error {
	md.NewMode()

	flgs := addMachineFlags(md)
	instructions := md.AddInt("instructions", 0, "number of instructions to trace (0 means until interrupted)")
	graph := md.AddString("graph", "", "write graphviz dump of the machine to file on exit")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	m, err := newMachine(md, flgs)
	if err != nil {
		return err
	}
	defer m.End()

	dbg := debugger.NewDebugger(m)
	dbg.Trace = md.Output

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	done := false
	for i := 0; !done; i++ {
		select {
		case <-intChan:
			done = true
		default:
		}
		if *instructions > 0 && i >= *instructions {
			done = true
		}
		if done {
			break
		}

		if err := dbg.Step(); err != nil {
			return err
		}
	}

	if err := dbg.DumpRegisters(md.Output); err != nil {
		return err
	}

	if *graph != "" {
		f, err := os.Create(*graph)
		if err != nil {
			return err
		}
		defer f.Close()
		dbg.DumpMachine(f)
	}

	return nil
}

func disasm(md *modalflag.Modes) error {
	md.NewMode()

	org := md.AddString("org", "0000", "load offset of the image (hex)")
	seg := md.AddString("cs", "f000", "code segment to display (hex)")
	grep := md.AddString("grep", "", "only show instructions matching the search string")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("ROM image required for %s mode", md)
	case 1:
		orgVal, err := strconv.ParseUint(*org, 16, 16)
		if err != nil {
			return fmt.Errorf("bad org value (%s)", *org)
		}
		segVal, err := strconv.ParseUint(*seg, 16, 16)
		if err != nil {
			return fmt.Errorf("bad cs value (%s)", *seg)
		}

		ld := romload.NewLoader(md.GetArg(0))
		if err := ld.Load(); err != nil {
			return err
		}

		dsm := disassembly.FromData(ld.Data, uint16(segVal), uint16(orgVal))

		if *grep != "" {
			for _, e := range dsm.Grep(*grep) {
				fmt.Fprintln(md.Output, e.String())
			}
			return nil
		}

		return dsm.Write(md.Output)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	model := md.AddString("model", "5160", "machine model: 5150, 5160")
	adapter := md.AddString("adapter", "CGA", "video adapter: CGA, MDA")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "run with profiler: NONE, CPU, MEM, ALL")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfile(*profile)
	if err != nil {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("BIOS ROM required for %s mode", md)
	case 1:
		bios := romload.NewLoader(md.GetArg(0))
		return performance.Check(md.Output, prf, bios,
			screen.Model(*model), screen.AdapterType(strings.ToUpper(*adapter)), *duration)
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func validate(md *modalflag.Modes) error {
	md.NewMode()

	flgs := addMachineFlags(md)
	port := md.AddString("port", "/dev/ttyUSB0", "serial device the reference harness is attached to")
	baud := md.AddInt("baud", validator.DefaultBaud, "serial speed")
	maskFlags := md.AddBool("maskflags", true, "mask undefined flags during comparison")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	m, err := newMachine(md, flgs)
	if err != nil {
		return err
	}
	defer m.End()

	trans, err := validator.NewSerialTransport(*port, *baud)
	if err != nil {
		return err
	}

	val, err := validator.NewValidator(trans)
	if err != nil {
		return err
	}
	defer val.End()

	val.MaskFlags = *maskFlags

	if err := val.Resync(m.CPU.Regs); err != nil {
		return err
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	for {
		select {
		case <-intChan:
			return nil
		default:
		}

		before := m.CPU.Regs
		if err := m.Step(); err != nil {
			return err
		}

		if err := val.Validate(&m.CPU.LastResult, before, m.CPU.Regs); err != nil {
			if curated.Is(err, validator.Diverged) {
				fmt.Fprintf(md.Output, "divergence: %s\n", val.Divergence)
			}
			return err
		}
	}
}

// yesReader always returns 'y'. used as the confirmation reader when the
// -yes flag has been given.
type yesReader struct{}

func (*yesReader) Read(p []byte) (n int, err error) {
	p[0] = 'y'
	return 1, nil
}

func regress(md *modalflag.Modes) error {
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		md.NewMode()

		verbose := md.AddBool("verbose", false, "output more detail (eg. error messages)")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		return regression.RegressRunTests(md.Output, *verbose, md.RemainingArgs())

	case "LIST":
		md.NewMode()

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		if len(md.RemainingArgs()) != 0 {
			return fmt.Errorf("no additional arguments required for %s mode", md)
		}

		return regression.RegressList(md.Output)

	case "DELETE":
		md.NewMode()

		answerYes := md.AddBool("yes", false, "answer yes to confirmation")

		p, err := md.Parse()
		if err != nil || p != modalflag.ParseContinue {
			return err
		}

		switch len(md.RemainingArgs()) {
		case 0:
			return fmt.Errorf("database key required for %s mode", md)
		case 1:
			var confirmation io.Reader
			if *answerYes {
				confirmation = &yesReader{}
			} else {
				confirmation = os.Stdin
			}

			return regression.RegressDelete(md.Output, confirmation, md.GetArg(0))
		default:
			return fmt.Errorf("only one entry can be deleted at a time")
		}

	case "ADD":
		return regressAdd(md)
	}

	return nil
}

func regressAdd(md *modalflag.Modes) error {
	md.NewMode()

	model := md.AddString("model", "5160", "machine model: 5150, 5160")
	adapter := md.AddString("adapter", "CGA", "video adapter: CGA, MDA")
	numFrames := md.AddInt("frames", 10, "number of frames to run")
	mode := md.AddString("digest", "video", "digest mode: video, audio, both")
	log := md.AddBool("log", false, "echo log to stderr")

	md.AdditionalHelp("The regression test to be added is the path to a BIOS ROM image. The machine is run for the specified number of frames and the resulting digest stored as the reference for future runs.")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stderr)
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("single BIOS ROM file required for %s mode", md)
	}

	digestMode, err := regression.ParseDigestMode(*mode)
	if err != nil {
		return err
	}

	reg := &regression.VideoRegression{
		BIOSFile:   md.GetArg(0),
		Model:      screen.Model(strings.ToUpper(*model)),
		Adapter:    screen.AdapterType(strings.ToUpper(*adapter)),
		NumFrames:  *numFrames,
		DigestMode: digestMode,
	}

	return regression.RegressAdd(md.Output, reg)
}
