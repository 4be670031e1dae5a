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

package cpu

import (
	"testing"

	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/test"
)

// newTestCPU puts the program at 0000:0100 and points a freshly reset CPU
// at it.
func newTestCPU(program []byte) (*CPU, *bus.Bus) {
	b := bus.NewBus()
	for i, v := range program {
		b.Poke(uint32(0x100+i), v)
	}
	c := NewCPU(b)
	c.Regs.S[segCS] = 0
	c.Regs.S[segSS] = 0
	c.Regs.R[regSP] = 0xfffe
	c.Regs.IP = 0x100
	c.flushQueue()
	c.LastResult.Flush = false
	return c, b
}

func step(t *testing.T, c *CPU) {
	t.Helper()
	if err := c.ExecuteInstruction(nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestMovImmediate(t *testing.T) {
	c, _ := newTestCPU([]byte{0xb8, 0x34, 0x12}) // MOV AX,1234
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regAX], 0x1234)
	test.ExpectEquality(t, c.Regs.IP, 0x103)

	// from a cold queue every byte is fetch-limited at four clocks, plus
	// the four execution clocks
	test.ExpectEquality(t, c.LastResult.Cycles, 16)
}

func TestPrefetchFillsDuringExecution(t *testing.T) {
	c, _ := newTestCPU([]byte{0xb8, 0x34, 0x12, 0x90, 0x90, 0x90})
	step(t, c)

	// sixteen clocks of MOV AX,imm16 gave the prefetcher four bus slots;
	// three bytes were consumed by the instruction itself
	test.ExpectEquality(t, c.queue.len, 1)

	// the NOP that follows decodes straight from the queue
	step(t, c)
	test.ExpectEquality(t, c.LastResult.Cycles, 3)
}

func TestALUFlags(t *testing.T) {
	// MOV AL,7f; ADD AL,01 -> signed overflow
	c, _ := newTestCPU([]byte{0xb0, 0x7f, 0x04, 0x01})
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.reg8(0), 0x80)
	test.ExpectSuccess(t, c.Regs.flag(FlagO))
	test.ExpectSuccess(t, c.Regs.flag(FlagS))
	test.ExpectSuccess(t, c.Regs.flag(FlagA))
	test.ExpectFailure(t, c.Regs.flag(FlagC))
	test.ExpectFailure(t, c.Regs.flag(FlagZ))
}

func TestIncPreservesCarry(t *testing.T) {
	// STC; INC AX
	c, _ := newTestCPU([]byte{0xf9, 0x40})
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regAX], 1)
	test.ExpectSuccess(t, c.Regs.flag(FlagC))
}

func TestJumpFlushesQueue(t *testing.T) {
	c, _ := newTestCPU([]byte{0xeb, 0x10}) // JMP +10
	step(t, c)
	test.ExpectEquality(t, c.Regs.IP, 0x112)
	test.ExpectSuccess(t, c.LastResult.Flush)
	test.ExpectEquality(t, c.queue.len, 0)
	test.ExpectEquality(t, c.pfIP, c.Regs.IP)
}

func TestConditionalNotTaken(t *testing.T) {
	// XOR AX,AX; JNZ +10
	c, _ := newTestCPU([]byte{0x31, 0xc0, 0x75, 0x10})
	step(t, c)
	test.ExpectSuccess(t, c.Regs.flag(FlagZ))
	step(t, c)
	test.ExpectEquality(t, c.Regs.IP, 0x104)
	test.ExpectFailure(t, c.LastResult.Flush)
}

func TestMemoryOperandWrap(t *testing.T) {
	// MOV AX,[ffff] with DS=0: the high byte wraps to offset 0 of the
	// same segment
	c, b := newTestCPU([]byte{0xa1, 0xff, 0xff})
	b.Poke(0xffff, 0x78)
	b.Poke(0x0000, 0x56)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regAX], 0x5678)
}

func TestPushPop(t *testing.T) {
	// MOV AX,1234; PUSH AX; POP BX
	c, _ := newTestCPU([]byte{0xb8, 0x34, 0x12, 0x50, 0x5b})
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regSP], 0xfffc)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regBX], 0x1234)
	test.ExpectEquality(t, c.Regs.R[regSP], 0xfffe)
}

func TestRepStosb(t *testing.T) {
	// MOV AL,aa; MOV CX,3; MOV DI,200; REP STOSB
	c, b := newTestCPU([]byte{
		0xb0, 0xaa,
		0xb9, 0x03, 0x00,
		0xbf, 0x00, 0x02,
		0xf3, 0xaa,
	})
	step(t, c)
	step(t, c)
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regCX], 0)
	test.ExpectEquality(t, c.Regs.R[regDI], 0x203)
	for i := uint32(0x200); i < 0x203; i++ {
		test.ExpectEquality(t, b.Peek(i), 0xaa)
	}
	test.ExpectEquality(t, b.Peek(0x203), 0)
}

func TestRepeatZeroCount(t *testing.T) {
	// MOV CX,0; REP STOSB stores nothing
	c, b := newTestCPU([]byte{0xb9, 0x00, 0x00, 0xbf, 0x00, 0x02, 0xf3, 0xaa})
	step(t, c)
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, b.Peek(0x200), 0)
	test.ExpectEquality(t, c.Regs.R[regDI], 0x200)
}

func TestDivideFault(t *testing.T) {
	c, b := newTestCPU([]byte{0xb3, 0x00, 0xf6, 0xf3}) // MOV BL,0; DIV BL
	// vector 0 points at 2000:0000
	b.Poke(0, 0x00)
	b.Poke(1, 0x00)
	b.Poke(2, 0x00)
	b.Poke(3, 0x20)
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.S[segCS], 0x2000)
	test.ExpectEquality(t, c.Regs.IP, 0)
	test.ExpectFailure(t, c.Regs.flag(FlagI))
}

type stubIntr struct {
	asserted bool
	vector   uint8
	acks     int
}

func (s *stubIntr) INT() bool {
	return s.asserted
}

func (s *stubIntr) Acknowledge() uint8 {
	s.acks++
	s.asserted = false
	return s.vector
}

func TestInterruptLatency(t *testing.T) {
	c, b := newTestCPU([]byte{0x90})
	// vector 8 points at 3000:0010
	b.Poke(8*4+0, 0x10)
	b.Poke(8*4+1, 0x00)
	b.Poke(8*4+2, 0x00)
	b.Poke(8*4+3, 0x30)

	src := &stubIntr{asserted: true, vector: 8}
	c.AttachInterruptSource(src)
	c.Regs.setFlag(FlagI, true)

	sp := c.Regs.R[regSP]
	step(t, c)

	test.ExpectEquality(t, src.acks, 1)
	test.ExpectEquality(t, c.Regs.S[segCS], 0x3000)
	test.ExpectEquality(t, c.Regs.IP, 0x0010)
	test.ExpectEquality(t, c.Regs.R[regSP], sp-6)
	test.ExpectFailure(t, c.Regs.flag(FlagI))

	// the characteristic 61 clock acknowledge and vector sequence
	test.ExpectEquality(t, c.LastResult.Cycles, 61)
}

func TestInterruptMasked(t *testing.T) {
	c, _ := newTestCPU([]byte{0x90})
	src := &stubIntr{asserted: true, vector: 8}
	c.AttachInterruptSource(src)
	c.Regs.setFlag(FlagI, false)

	step(t, c)
	test.ExpectEquality(t, src.acks, 0)
	test.ExpectEquality(t, c.Regs.IP, 0x101)
}

func TestStiDelaysSampling(t *testing.T) {
	// STI; NOP: the boundary after STI must not take the interrupt; the
	// boundary after NOP must
	c, b := newTestCPU([]byte{0xfb, 0x90})
	b.Poke(8*4+0, 0x10)
	b.Poke(8*4+3, 0x30)

	src := &stubIntr{asserted: true, vector: 8}
	c.AttachInterruptSource(src)

	step(t, c) // STI
	test.ExpectSuccess(t, c.Regs.flag(FlagI))
	step(t, c) // NOP executes, not the interrupt
	test.ExpectEquality(t, src.acks, 0)
	test.ExpectEquality(t, c.Regs.IP, 0x102)
	step(t, c) // interrupt entry
	test.ExpectEquality(t, src.acks, 1)
}

func TestHalt(t *testing.T) {
	c, b := newTestCPU([]byte{0xf4}) // HLT
	b.Poke(8*4+0, 0x10)
	b.Poke(8*4+3, 0x30)

	step(t, c)
	test.ExpectSuccess(t, c.Halted())

	// halted boundaries just burn clocks. nothing retires, so the result
	// record empties rather than repeating the HLT
	before := c.TotalCycles
	step(t, c)
	test.ExpectEquality(t, c.TotalCycles, before+1)
	test.ExpectEquality(t, len(c.LastResult.Bytes), 0)

	// an interrupt releases the halt
	src := &stubIntr{asserted: true, vector: 8}
	c.AttachInterruptSource(src)
	c.Regs.setFlag(FlagI, true)
	step(t, c)
	test.ExpectFailure(t, c.Halted())
	test.ExpectEquality(t, c.Regs.S[segCS], 0x3000)
}

func TestTrapFlag(t *testing.T) {
	c, b := newTestCPU([]byte{0x90})
	b.Poke(1*4+0, 0x20)
	b.Poke(1*4+3, 0x40)

	c.Regs.setFlag(FlagT, true)
	step(t, c)
	test.ExpectEquality(t, c.Regs.S[segCS], 0x4000)
	test.ExpectEquality(t, c.Regs.IP, 0x0020)
	test.ExpectFailure(t, c.Regs.flag(FlagT))
}

func TestSegmentOverride(t *testing.T) {
	// ES: MOV AL,[0010] with ES=1000
	c, b := newTestCPU([]byte{0x26, 0xa0, 0x10, 0x00})
	c.Regs.S[segES] = 0x1000
	b.Poke(0x10010, 0x42)
	step(t, c)
	test.ExpectEquality(t, c.Regs.reg8(0), 0x42)
}

func TestUndocumentedAliases(t *testing.T) {
	// 0x62 is JB on the 8088, not BOUND
	c, _ := newTestCPU([]byte{0xf9, 0x62, 0x10}) // STC; JB +10
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.IP, 0x113)

	// SALC: AL from carry
	c, _ = newTestCPU([]byte{0xf9, 0xd6})
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.reg8(0), 0xff)
}

func TestXlat(t *testing.T) {
	// MOV BX,300; MOV AL,2; XLAT
	c, b := newTestCPU([]byte{0xbb, 0x00, 0x03, 0xb0, 0x02, 0xd7})
	b.Poke(0x302, 0x99)
	step(t, c)
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.reg8(0), 0x99)
}

func TestMulDiv(t *testing.T) {
	// MOV AL,10; MOV BL,20; MUL BL
	c, _ := newTestCPU([]byte{0xb0, 0x10, 0xb3, 0x20, 0xf6, 0xe3})
	step(t, c)
	step(t, c)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regAX], 0x0200)
	test.ExpectSuccess(t, c.Regs.flag(FlagC))

	// DIV BL: 0200/20 = 10 rem 0
	c2, _ := newTestCPU([]byte{0xb8, 0x00, 0x02, 0xb3, 0x20, 0xf6, 0xf3})
	step(t, c2)
	step(t, c2)
	step(t, c2)
	test.ExpectEquality(t, c2.Regs.reg8(0), 0x10)
	test.ExpectEquality(t, c2.Regs.reg8(4), 0x00)
}

func TestFarCallRet(t *testing.T) {
	// CALL 2000:0005 ... at 2000:0005 RETF
	c, b := newTestCPU([]byte{0x9a, 0x05, 0x00, 0x00, 0x20})
	b.Poke(0x20005, 0xcb)
	step(t, c)
	test.ExpectEquality(t, c.Regs.S[segCS], 0x2000)
	test.ExpectEquality(t, c.Regs.IP, 0x0005)
	step(t, c)
	test.ExpectEquality(t, c.Regs.S[segCS], 0x0000)
	test.ExpectEquality(t, c.Regs.IP, 0x0105)
}

func TestRedundantPrefixChain(t *testing.T) {
	// the 8088 places no limit on prefix repetition. pad a MOV AX,imm16
	// with more override prefixes than the decode length cap allows for
	// instruction bytes
	program := make([]byte, 0, 19)
	for i := 0; i < 16; i++ {
		program = append(program, 0x26) // ES:
	}
	program = append(program, 0xb8, 0x34, 0x12)
	c, _ := newTestCPU(program)
	step(t, c)
	test.ExpectEquality(t, c.Regs.R[regAX], 0x1234)
	test.ExpectEquality(t, c.Regs.IP, 0x100+19)
	test.ExpectEquality(t, len(c.LastResult.Bytes), 19)
}

func TestNMI(t *testing.T) {
	// vector 2 at 0000:0200. IF is clear after reset; NMI is taken anyway,
	// and it releases a halt
	c, b := newTestCPU([]byte{0xf4}) // HLT
	b.Poke(8, 0x00)
	b.Poke(9, 0x02)
	b.Poke(10, 0x00)
	b.Poke(11, 0x00)
	b.Poke(0x200, 0x90)
	step(t, c)
	test.ExpectSuccess(t, c.Halted())

	c.NMI()
	step(t, c)
	test.ExpectFailure(t, c.Halted())
	test.ExpectEquality(t, c.Regs.S[segCS], uint16(0))
	test.ExpectEquality(t, c.Regs.IP, 0x0200)

	// edge triggered. the handler runs without the line re-entering
	step(t, c)
	test.ExpectEquality(t, c.Regs.IP, 0x0201)
}
