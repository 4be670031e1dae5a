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

// Package validator cross-checks emulated execution against a real 8088
// reachable over a serial link. After every instruction the emulator's
// register state and bus traffic are replayed to the reference CPU and the
// outcomes compared. The first divergence halts the validated run: the
// validator never retries or resumes past a mismatch, since its whole
// purpose is to find them.
//
// Resynchronisation after an intentional machine reset is explicit, via
// Resync(). The validator never resynchronises on its own.
package validator

import (
	"fmt"
	"strings"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/cpu"
	"github.com/gopherxt/gopherxt/hardware/cpu/execution"
	"github.com/gopherxt/gopherxt/logger"
)

// sentinel errors returned by Validate().
const (
	// the reference CPU disagreed with the emulation. the wrapped value is
	// a Divergence description
	Diverged = "validator: diverged: %v"

	// Validate() called after a divergence has already halted the session
	Halted = "validator: halted on earlier divergence"
)

// State of the validator session.
type State int

// The validator is Idle between instructions. Validate() moves through
// AwaitingReference (blocked on the serial exchange) and Comparing, ending
// back at Idle or, terminally, at HaltedOnMismatch.
const (
	Idle State = iota
	AwaitingReference
	Comparing
	HaltedOnMismatch
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReference:
		return "awaiting reference"
	case Comparing:
		return "comparing"
	case HaltedOnMismatch:
		return "halted on mismatch"
	}
	return "unknown"
}

// Divergence describes the first point at which the reference CPU and the
// emulation disagreed.
type Divergence struct {
	// how many instructions validated cleanly before this one
	Index int

	// address of the diverging instruction
	CS, IP uint16

	// what disagreed: "bus operations", "registers" or "flags"
	Kind string

	// index of the disagreeing bus operation. only meaningful when Kind
	// is "bus operations"
	BusOpIndex int

	Expected string
	Actual   string
}

func (d Divergence) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("instruction #%d at %04x:%04x: %s", d.Index, d.CS, d.IP, d.Kind))
	if d.Kind == "bus operations" {
		s.WriteString(fmt.Sprintf(" (op #%d)", d.BusOpIndex))
	}
	s.WriteString(fmt.Sprintf(": reference [%s] emulation [%s]", d.Expected, d.Actual))
	return s.String()
}

// Validator is one validation session against the reference harness.
type Validator struct {
	client client
	state  State

	// undefined flags are masked before comparison. leaving this false is
	// only useful when characterising a particular CPU stepping
	MaskFlags bool

	// instructions validated so far
	count int

	// register state confirmed by the reference CPU after the last clean
	// instruction
	lastGood cpu.Registers

	// description of the mismatch that halted the session
	Divergence *Divergence
}

// NewValidator is the preferred method of initialisation for the Validator
// type. The harness version is checked and the reference CPU reset. The
// transport is owned by the validator from here on.
func NewValidator(trans Transport) (*Validator, error) {
	val := &Validator{
		client:    client{trans: trans},
		MaskFlags: true,
	}

	if err := val.client.version(); err != nil {
		return nil, err
	}

	return val, nil
}

// State the session is in.
func (val *Validator) State() State {
	return val.state
}

// LastGood returns the register state most recently confirmed by the
// reference CPU.
func (val *Validator) LastGood() cpu.Registers {
	return val.lastGood
}

// End the session, closing the transport.
func (val *Validator) End() error {
	return val.client.trans.Close()
}

// Resync resets the reference CPU and loads it with the emulation's
// current register state. Must be called once before the first Validate()
// and again after any intentional machine reset.
func (val *Validator) Resync(regs cpu.Registers) error {
	if val.state == HaltedOnMismatch {
		return curated.Errorf(Halted)
	}

	if err := val.client.reset(); err != nil {
		return err
	}

	frame := make([]byte, FrameSize)
	RegsToFrame(frame, regs)
	if err := val.client.load(frame); err != nil {
		return err
	}

	val.lastGood = regs
	val.state = Idle

	return nil
}

// Validate one instruction. The result is the emulation's record of the
// instruction just retired; before and after are the register states it
// started from and left behind. The same instruction is replayed on the
// reference CPU and the outcomes compared. A divergence is returned as an
// error matching the Diverged sentinel and halts the session.
func (val *Validator) Validate(res *execution.Result, before cpu.Registers, after cpu.Registers) error {
	if val.state == HaltedOnMismatch {
		return curated.Errorf(Halted)
	}
	if len(res.Bytes) == 0 {
		// halted CPU or interrupt-entry boundary. nothing retired,
		// nothing to check
		return nil
	}

	// locate opcode and modrm past any prefix bytes, for flag masking
	opcode, modrm := opcodeOf(res.Bytes)

	// the data served to the reference CPU's reads is the data the
	// emulated bus served
	emuOps := executionOps(res.BusOps)
	readData := []byte{}
	for _, op := range emuOps {
		if op.Type == execution.MemRead || op.Type == execution.IORead {
			readData = append(readData, op.Data)
		}
	}

	val.state = AwaitingReference

	// the reference CPU is loaded with the emulation's pre-instruction
	// state every instruction. interrupt entry, traps and faults change
	// registers between validated instructions, so the state cannot be
	// assumed to carry over from the previous comparison
	frame := make([]byte, FrameSize)
	RegsToFrame(frame, before)
	if err := val.client.load(frame); err != nil {
		return err
	}

	refOps, err := val.client.execute(res.Bytes, readData)
	if err != nil {
		return err
	}
	stored, err := val.client.store()
	if err != nil {
		return err
	}
	refRegs := FrameToRegs(stored)

	val.state = Comparing

	// PUSHF writes its undefined flag bits to memory, so its single bus
	// write cannot be compared against real silicon
	if opcode != 0x9c {
		if d := compareOps(refOps, emuOps); d != nil {
			return val.halt(d, before)
		}
	}

	if d := val.compareRegs(refRegs, after, opcode, modrm); d != nil {
		return val.halt(d, before)
	}

	val.lastGood = after
	val.count++
	val.state = Idle

	return nil
}

func (val *Validator) halt(d *Divergence, before cpu.Registers) error {
	d.Index = val.count
	d.CS = before.S[cpu.CS]
	d.IP = before.IP
	val.Divergence = d
	val.state = HaltedOnMismatch

	logger.Logf("validator", "%s", d.String())

	return curated.Errorf(Diverged, d.String())
}

// opcodeOf scans past prefix bytes.
func opcodeOf(bytes []uint8) (uint8, uint8) {
	i := 0
	for i < len(bytes)-1 {
		switch bytes[i] {
		case 0x26, 0x2e, 0x36, 0x3e, 0xf0, 0xf1, 0xf2, 0xf3:
			i++
			continue
		}
		break
	}

	opcode := bytes[i]
	modrm := uint8(0)
	if i+1 < len(bytes) {
		modrm = bytes[i+1]
	}
	return opcode, modrm
}

// executionOps filters an instruction's bus record down to the operations
// the reference CPU can be expected to reproduce exactly. Prefetcher
// fetches depend on queue state and interrupt acknowledge cycles carry no
// address, so both are excluded from comparison.
func executionOps(ops []execution.BusOp) []execution.BusOp {
	r := []execution.BusOp{}
	for _, op := range ops {
		switch op.Type {
		case execution.CodeFetch, execution.IntAck:
			continue
		}
		r = append(r, op)
	}
	return r
}

func compareOps(ref, emu []execution.BusOp) *Divergence {
	if len(ref) != len(emu) {
		return &Divergence{
			Kind:     "bus operations",
			Expected: fmt.Sprintf("%d ops", len(ref)),
			Actual:   fmt.Sprintf("%d ops", len(emu)),
		}
	}

	for i := range ref {
		if ref[i] != emu[i] {
			return &Divergence{
				Kind:       "bus operations",
				BusOpIndex: i,
				Expected:   ref[i].String(),
				Actual:     emu[i].String(),
			}
		}
	}

	return nil
}

func (val *Validator) compareRegs(ref, emu cpu.Registers, opcode, modrm uint8) *Divergence {
	if ref.R != emu.R || ref.S != emu.S || ref.IP != emu.IP {
		return &Divergence{
			Kind:     "registers",
			Expected: ref.String(),
			Actual:   emu.String(),
		}
	}

	refFlags := ref.Flags
	emuFlags := emu.Flags
	if val.MaskFlags {
		refFlags = maskUndefinedFlags(opcode, modrm, refFlags)
		emuFlags = maskUndefinedFlags(opcode, modrm, emuFlags)
	}

	if refFlags != emuFlags {
		return &Divergence{
			Kind:     "flags",
			Expected: fmt.Sprintf("%016b", refFlags),
			Actual:   fmt.Sprintf("%016b", emuFlags),
		}
	}

	return nil
}
