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

package validator

import (
	"fmt"
	"testing"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/hardware/cpu"
	"github.com/gopherxt/gopherxt/hardware/cpu/execution"
	"github.com/gopherxt/gopherxt/test"
)

// a fixed program with a mix of register and memory traffic.
var testProgram = []byte{
	0xb8, 0x34, 0x12, // MOV AX,1234
	0x50,             // PUSH AX
	0xa3, 0x00, 0x20, // MOV [2000],AX
	0xa1, 0x00, 0x20, // MOV AX,[2000]
	0x40, // INC AX
	0x58, // POP AX
}

const testProgramLen = 6

// scriptStep is the canned harness response for one instruction.
type scriptStep struct {
	ops   []execution.BusOp
	frame []byte
}

// stubHarness plays the reference CPU from a script. Divergences are
// injected by tampering with the script before the run.
type stubHarness struct {
	script []scriptStep
	step   int
	out    []byte
	dead   bool

	// the most recent register frame loaded, and a snapshot of it at
	// each execute command
	lastLoad   []byte
	loadAtExec [][]byte
}

func (h *stubHarness) Write(p []byte) (int, error) {
	if h.dead {
		return 0, fmt.Errorf("harness gone")
	}

	switch p[0] {
	case cmdVersion:
		h.out = append(h.out, ackOK, protocolVersion)
	case cmdReset:
		h.out = append(h.out, ackOK)
	case cmdLoad:
		h.lastLoad = append([]byte(nil), p[1:]...)
		h.out = append(h.out, ackOK)
	case cmdExecute:
		h.loadAtExec = append(h.loadAtExec, h.lastLoad)
		st := h.script[h.step]
		h.out = append(h.out, ackOK, uint8(len(st.ops)))
		for _, op := range st.ops {
			h.out = append(h.out, uint8(op.Type), uint8(op.Addr), uint8(op.Addr>>8), uint8(op.Addr>>16), op.Data)
		}
	case cmdStore:
		h.out = append(h.out, ackOK)
		h.out = append(h.out, h.script[h.step].frame...)
		h.step++
	}

	return len(p), nil
}

func (h *stubHarness) Read(p []byte) (int, error) {
	if h.dead || len(h.out) == 0 {
		return 0, fmt.Errorf("harness gone")
	}
	n := copy(p, h.out)
	h.out = h.out[n:]
	return n, nil
}

func (h *stubHarness) Close() error {
	return nil
}

func newProgramCPU() *cpu.CPU {
	b := bus.NewBus()
	for i, v := range testProgram {
		b.Poke(uint32(0x100+i), v)
	}
	c := cpu.NewCPU(b)
	c.Jump(0, 0x100)
	return c
}

// recordScript runs the program once and captures what a perfectly
// agreeing reference CPU would answer for each instruction.
func recordScript(t *testing.T) []scriptStep {
	t.Helper()

	c := newProgramCPU()

	script := []scriptStep{}
	for i := 0; i < testProgramLen; i++ {
		if err := c.ExecuteInstruction(nil); err != nil {
			t.Fatalf("execute: %v", err)
		}

		st := scriptStep{
			ops:   executionOps(c.LastResult.BusOps),
			frame: make([]byte, FrameSize),
		}
		RegsToFrame(st.frame, c.Regs)
		script = append(script, st)
	}

	return script
}

// runValidated replays the program with a validator attached. returns the
// instruction index a divergence was reported at, or -1.
func runValidated(t *testing.T, script []scriptStep) (*Validator, int, error) {
	t.Helper()

	val, err := NewValidator(&stubHarness{script: script})
	test.ExpectSuccess(t, err)

	c := newProgramCPU()
	test.ExpectSuccess(t, val.Resync(c.Regs))

	for i := 0; i < testProgramLen; i++ {
		before := c.Regs
		if err := c.ExecuteInstruction(nil); err != nil {
			t.Fatalf("execute: %v", err)
		}
		if err := val.Validate(&c.LastResult, before, c.Regs); err != nil {
			return val, i, err
		}
	}

	return val, -1, nil
}

func TestCleanRun(t *testing.T) {
	script := recordScript(t)

	val, idx, err := runValidated(t, script)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, idx, -1)
	test.ExpectEquality(t, val.State(), Idle)
}

func TestInjectedRegisterFault(t *testing.T) {
	script := recordScript(t)

	// single bit flip in the AX field of the reference frame for the
	// fourth instruction
	script[3].frame[0] ^= 0x01

	val, idx, err := runValidated(t, script)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, Diverged))

	// reported at exactly the faulty instruction, not before or after
	test.ExpectEquality(t, idx, 3)
	test.ExpectEquality(t, val.State(), HaltedOnMismatch)
	test.ExpectEquality(t, val.Divergence.Index, 3)
	test.ExpectEquality(t, val.Divergence.Kind, "registers")

	// a halted session refuses further work
	err = val.Validate(&execution.Result{Bytes: []uint8{0x90}}, cpu.Registers{}, cpu.Registers{})
	test.ExpectSuccess(t, curated.Is(err, Halted))
}

func TestInjectedBusFault(t *testing.T) {
	script := recordScript(t)

	// corrupt the data byte of the PUSH's first stack write
	test.ExpectSuccess(t, len(script[1].ops) > 0)
	script[1].ops[0].Data ^= 0x80

	val, idx, err := runValidated(t, script)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, idx, 1)
	test.ExpectEquality(t, val.Divergence.Kind, "bus operations")
	test.ExpectEquality(t, val.Divergence.BusOpIndex, 0)
}

func TestFlagMasking(t *testing.T) {
	// AND leaves the aux carry flag undefined. a reference CPU that sets
	// it differently must not cause a divergence
	program := []byte{0x24, 0x0f} // AND AL,0f

	b := bus.NewBus()
	for i, v := range program {
		b.Poke(uint32(0x100+i), v)
	}
	c := cpu.NewCPU(b)
	c.Jump(0, 0x100)
	if err := c.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}

	refRegs := c.Regs
	refRegs.Flags ^= cpu.FlagA

	st := scriptStep{ops: executionOps(c.LastResult.BusOps), frame: make([]byte, FrameSize)}
	RegsToFrame(st.frame, refRegs)

	val, err := NewValidator(&stubHarness{script: []scriptStep{st}})
	test.ExpectSuccess(t, err)

	c2 := cpu.NewCPU(b)
	c2.Jump(0, 0x100)
	test.ExpectSuccess(t, val.Resync(c2.Regs))
	before := c2.Regs
	if err := c2.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	test.ExpectSuccess(t, val.Validate(&c2.LastResult, before, c2.Regs))

	// with masking off the same difference is a real divergence
	val2, err := NewValidator(&stubHarness{script: []scriptStep{st}})
	test.ExpectSuccess(t, err)
	val2.MaskFlags = false

	c3 := cpu.NewCPU(b)
	c3.Jump(0, 0x100)
	test.ExpectSuccess(t, val2.Resync(c3.Regs))
	before = c3.Regs
	if err := c3.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	err = val2.Validate(&c3.LastResult, before, c3.Regs)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, val2.Divergence.Kind, "flags")
}

func TestTransportFailure(t *testing.T) {
	script := recordScript(t)
	h := &stubHarness{script: script}

	val, err := NewValidator(h)
	test.ExpectSuccess(t, err)

	c := newProgramCPU()
	test.ExpectSuccess(t, val.Resync(c.Regs))

	// harness dies mid-session. the error is fatal but it is not a
	// divergence
	h.dead = true
	before := c.Regs
	if err := c.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	err = val.Validate(&c.LastResult, before, c.Regs)
	test.ExpectFailure(t, err)
	test.ExpectFailure(t, curated.Is(err, Diverged))
}

func TestFrameRoundTrip(t *testing.T) {
	regs := cpu.Registers{}
	regs.R[cpu.AX] = 0x1234
	regs.R[cpu.SP] = 0xfffe
	regs.S[cpu.CS] = 0xf000
	regs.IP = 0xe05b
	regs.Flags = 0xf246

	frame := make([]byte, FrameSize)
	RegsToFrame(frame, regs)

	// AX low byte leads the frame; CS sits at offset 16
	test.ExpectEquality(t, frame[0], 0x34)
	test.ExpectEquality(t, frame[1], 0x12)
	test.ExpectEquality(t, frame[16], 0x00)
	test.ExpectEquality(t, frame[17], 0xf0)

	test.ExpectEquality(t, FrameToRegs(frame), regs)
}
// intSource asserts INTR until the acknowledge cycle collects the vector.
type intSource struct {
	pending bool
	vector  uint8
}

func (s *intSource) INT() bool {
	return s.pending
}

func (s *intSource) Acknowledge() uint8 {
	s.pending = false
	return s.vector
}

func TestInterruptBoundary(t *testing.T) {
	// MOV AX,1234 then a hardware interrupt to a handler holding a NOP.
	// the interrupt entry changes SP, IP and FLAGS between validated
	// instructions, so the handler's first instruction only compares
	// clean if the reference is loaded with the post-interrupt state
	setup := func() (*cpu.CPU, *intSource) {
		b := bus.NewBus()
		b.Poke(0x100, 0xb8) // MOV AX,1234
		b.Poke(0x101, 0x34)
		b.Poke(0x102, 0x12)
		b.Poke(0x200, 0x90) // handler: NOP

		// vector 8 points at 0000:0200
		b.Poke(8*4+0, 0x00)
		b.Poke(8*4+1, 0x02)
		b.Poke(8*4+2, 0x00)
		b.Poke(8*4+3, 0x00)

		c := cpu.NewCPU(b)
		c.Jump(0, 0x100)
		c.Regs.R[cpu.SP] = 0x1000
		c.Regs.Flags |= cpu.FlagI

		src := &intSource{vector: 8}
		c.AttachInterruptSource(src)
		return c, src
	}

	// boundary sequence: MOV, interrupt entry (nothing retired), NOP
	run := func(c *cpu.CPU, src *intSource, onBoundary func(before cpu.Registers) error) {
		t.Helper()
		validated := 0
		for validated < 2 {
			before := c.Regs
			if err := c.ExecuteInstruction(nil); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if len(c.LastResult.Bytes) > 0 {
				validated++
			}
			if err := onBoundary(before); err != nil {
				t.Fatalf("boundary: %v", err)
			}
			src.pending = true
		}
	}

	// record what an agreeing reference answers for the two instructions
	c, src := setup()
	script := []scriptStep{}
	var beforeHandler cpu.Registers
	run(c, src, func(before cpu.Registers) error {
		if len(c.LastResult.Bytes) == 0 {
			return nil
		}
		st := scriptStep{
			ops:   executionOps(c.LastResult.BusOps),
			frame: make([]byte, FrameSize),
		}
		RegsToFrame(st.frame, c.Regs)
		script = append(script, st)
		if len(script) == 2 {
			beforeHandler = before
		}
		return nil
	})
	test.ExpectEquality(t, len(script), 2)

	// the interrupt entry moved IP to the handler and pushed 6 bytes
	test.ExpectEquality(t, beforeHandler.IP, uint16(0x0200))
	test.ExpectEquality(t, beforeHandler.R[cpu.SP], uint16(0x0ffa))

	// a validated run over the same sequence is clean
	h := &stubHarness{script: script}
	val, err := NewValidator(h)
	test.ExpectSuccess(t, err)

	c2, src2 := setup()
	test.ExpectSuccess(t, val.Resync(c2.Regs))
	run(c2, src2, func(before cpu.Registers) error {
		return val.Validate(&c2.LastResult, before, c2.Regs)
	})

	test.ExpectEquality(t, val.State(), Idle)
	test.ExpectEquality(t, c2.Regs.IP, uint16(0x0201))

	// the reference was handed the post-interrupt register state before
	// replaying the handler's first instruction
	test.ExpectEquality(t, len(h.loadAtExec), 2)
	expect := make([]byte, FrameSize)
	RegsToFrame(expect, beforeHandler)
	test.ExpectEquality(t, string(h.loadAtExec[1]), string(expect))
}

func TestHaltedBoundary(t *testing.T) {
	b := bus.NewBus()
	b.Poke(0x100, 0xf4) // HLT

	c := cpu.NewCPU(b)
	c.Jump(0, 0x100)

	// record the HLT itself
	if err := c.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	st := scriptStep{ops: executionOps(c.LastResult.BusOps), frame: make([]byte, FrameSize)}
	RegsToFrame(st.frame, c.Regs)

	h := &stubHarness{script: []scriptStep{st}}
	val, err := NewValidator(h)
	test.ExpectSuccess(t, err)

	c2 := cpu.NewCPU(b)
	c2.Jump(0, 0x100)
	test.ExpectSuccess(t, val.Resync(c2.Regs))

	before := c2.Regs
	if err := c2.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	test.ExpectSuccess(t, val.Validate(&c2.LastResult, before, c2.Regs))
	test.ExpectEquality(t, h.step, 1)

	// halted boundaries retire nothing and must not replay the HLT to
	// the reference
	for i := 0; i < 3; i++ {
		before = c2.Regs
		if err := c2.ExecuteInstruction(nil); err != nil {
			t.Fatalf("execute: %v", err)
		}
		test.ExpectEquality(t, len(c2.LastResult.Bytes), 0)
		test.ExpectSuccess(t, val.Validate(&c2.LastResult, before, c2.Regs))
	}
	test.ExpectEquality(t, h.step, 1)
}
