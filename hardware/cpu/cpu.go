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
	"fmt"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/bus"
	"github.com/gopherxt/gopherxt/hardware/cpu/execution"
)

// busCycleTicks is the length of one bus cycle in CPU clocks. The 8088 bus
// cycle is four T-states with no wait states on the XT planar.
const busCycleTicks = 4

// intrLatency is the clock count from INTR assertion at an instruction
// boundary to the first fetch of the handler. The characteristic 61 clocks
// of the 8088's acknowledge/vector sequence; the validator checks it.
const intrLatency = 61

// InterruptSource is the connection from the interrupt controller: a level
// line and an acknowledge cycle that produces the vector.
type InterruptSource interface {
	INT() bool
	Acknowledge() uint8
}

// CPU is an 8088. The execution unit consumes bytes from the prefetch
// queue; the bus interface unit fills the queue during idle bus slots and
// performs the execution unit's data cycles. Every clock tick is reported
// through the cycle callback given to ExecuteInstruction.
type CPU struct {
	mem *bus.Bus

	Regs  Registers
	queue prefetchQueue

	// the prefetcher's own instruction pointer. always ahead of Regs.IP by
	// the number of bytes sitting in the queue
	pfIP          uint16
	fetchProgress int

	// prefix state for the instruction being executed. segOverride is -1
	// when no override prefix is active. prefixLen counts prefix bytes
	// consumed so far, which do not count against the decode length cap
	segOverride int
	repPrefix   uint8
	prefixLen   int

	// IP of the first prefix byte. repeated string instructions roll back
	// to here when an interrupt arrives mid-repeat
	instrStartIP uint16

	halted bool

	intr InterruptSource
	nmi  bool

	// interrupts are not sampled at the boundary immediately following
	// STI or a MOV/POP to a segment register
	intrInhibit bool

	cycleCallback func() error

	// LastResult is the record of the most recently executed instruction.
	LastResult execution.Result

	// TotalCycles since the last reset.
	TotalCycles uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(mem *bus.Bus) *CPU {
	c := &CPU{mem: mem}
	c.Reset()
	return c
}

// AttachInterruptSource connects the INTR line. A nil source leaves the
// line permanently deasserted.
func (c *CPU) AttachInterruptSource(src InterruptSource) {
	c.intr = src
}

// Reset restores the power-on state: registers cleared, CS:IP at
// ffff:0000, prefetch queue flushed.
func (c *CPU) Reset() {
	c.Regs.reset()
	c.queue.flush()
	c.pfIP = c.Regs.IP
	c.fetchProgress = 0
	c.segOverride = -1
	c.repPrefix = 0
	c.prefixLen = 0
	c.halted = false
	c.nmi = false
	c.intrInhibit = false
	c.TotalCycles = 0
	c.LastResult.Reset(c.physical(segCS, c.Regs.IP))
}

func (c *CPU) String() string {
	return fmt.Sprintf("%v queue=%d", c.Regs, c.queue.len)
}

// NMI asserts the non-maskable interrupt line. Edge triggered, sampled at
// the next instruction boundary ahead of INTR.
func (c *CPU) NMI() {
	c.nmi = true
}

// Jump loads CS:IP and flushes the prefetch queue, as if a far jump had
// executed. Used by test harnesses and the validator to start execution at
// an arbitrary address.
func (c *CPU) Jump(cs, ip uint16) {
	c.Regs.S[segCS] = cs
	c.Regs.IP = ip
	c.flushQueue()
}

// Halted returns true while the CPU is waiting for an interrupt after HLT.
func (c *CPU) Halted() bool {
	return c.halted
}

// clk advances one CPU clock: the prefetcher gets the bus if the execution
// unit isn't using it, and the cycle callback fires.
func (c *CPU) clk(busFree bool) error {
	c.TotalCycles++
	c.LastResult.Cycles++

	if busFree && !c.queue.full() {
		c.fetchProgress++
		if c.fetchProgress >= busCycleTicks {
			c.fetchProgress = 0
			addr := c.physical(segCS, c.pfIP)
			data := c.mem.Read(addr)
			if err := c.queue.push(data); err != nil {
				return err
			}
			c.pfIP++
			c.LastResult.BusOps = append(c.LastResult.BusOps,
				execution.BusOp{Type: execution.CodeFetch, Addr: addr, Data: data})
		}
	}

	if c.cycleCallback != nil {
		return c.cycleCallback()
	}
	return nil
}

// cycles burns n execution clocks with the bus free for prefetching.
func (c *CPU) cycles(n int) error {
	for i := 0; i < n; i++ {
		if err := c.clk(true); err != nil {
			return err
		}
	}
	return nil
}

// fetch returns the next instruction byte, stalling until the prefetcher
// delivers one if the queue is empty. The visible IP advances with every
// byte consumed.
func (c *CPU) fetch() (uint8, error) {
	for c.queue.empty() {
		if err := c.clk(true); err != nil {
			return 0, err
		}
	}
	b := c.queue.pop()
	c.Regs.IP++
	c.LastResult.Bytes = append(c.LastResult.Bytes, b)
	if len(c.LastResult.Bytes)-c.prefixLen > execution.MaxInstructionLen+4 {
		return 0, curated.Errorf("cpu: runaway instruction decode at %05x", c.LastResult.Address)
	}
	return b, nil
}

func (c *CPU) fetch16() (uint16, error) {
	lo, err := c.fetch()
	if err != nil {
		return 0, err
	}
	hi, err := c.fetch()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// flushQueue abandons the prefetch queue and restarts it at the current
// instruction pointer. Every control transfer ends up here.
func (c *CPU) flushQueue() {
	c.queue.flush()
	c.fetchProgress = 0
	c.pfIP = c.Regs.IP
	c.LastResult.Flush = true
}

// busRead performs one execution-unit memory read cycle.
func (c *CPU) busRead(seg int, offset uint16) (uint8, error) {
	for i := 0; i < busCycleTicks; i++ {
		if err := c.clk(false); err != nil {
			return 0, err
		}
	}
	addr := c.physical(seg, offset)
	data := c.mem.Read(addr)
	c.LastResult.BusOps = append(c.LastResult.BusOps,
		execution.BusOp{Type: execution.MemRead, Addr: addr, Data: data})
	return data, nil
}

// busWrite performs one execution-unit memory write cycle.
func (c *CPU) busWrite(seg int, offset uint16, data uint8) error {
	for i := 0; i < busCycleTicks; i++ {
		if err := c.clk(false); err != nil {
			return err
		}
	}
	addr := c.physical(seg, offset)
	c.mem.Write(addr, data)
	c.LastResult.BusOps = append(c.LastResult.BusOps,
		execution.BusOp{Type: execution.MemWrite, Addr: addr, Data: data})
	return nil
}

// read16 reads a word as two byte cycles. Offset arithmetic wraps within
// the segment.
func (c *CPU) read16(seg int, offset uint16) (uint16, error) {
	lo, err := c.busRead(seg, offset)
	if err != nil {
		return 0, err
	}
	hi, err := c.busRead(seg, offset+1)
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

func (c *CPU) write16(seg int, offset uint16, data uint16) error {
	if err := c.busWrite(seg, offset, uint8(data)); err != nil {
		return err
	}
	return c.busWrite(seg, offset+1, uint8(data>>8))
}

// portIn performs one I/O read cycle.
func (c *CPU) portIn(port uint16) (uint8, error) {
	for i := 0; i < busCycleTicks; i++ {
		if err := c.clk(false); err != nil {
			return 0, err
		}
	}
	data := c.mem.PortRead(port)
	c.LastResult.BusOps = append(c.LastResult.BusOps,
		execution.BusOp{Type: execution.IORead, Addr: uint32(port), Data: data})
	return data, nil
}

// portOut performs one I/O write cycle.
func (c *CPU) portOut(port uint16, data uint8) error {
	for i := 0; i < busCycleTicks; i++ {
		if err := c.clk(false); err != nil {
			return err
		}
	}
	c.mem.PortWrite(port, data)
	c.LastResult.BusOps = append(c.LastResult.BusOps,
		execution.BusOp{Type: execution.IOWrite, Addr: uint32(port), Data: data})
	return nil
}

// push16 pushes a word. SP decrements before the write, wrapping within
// the stack segment.
func (c *CPU) push16(v uint16) error {
	c.Regs.R[regSP] -= 2
	return c.write16(segSS, c.Regs.R[regSP], v)
}

func (c *CPU) pop16() (uint16, error) {
	v, err := c.read16(segSS, c.Regs.R[regSP])
	if err != nil {
		return 0, err
	}
	c.Regs.R[regSP] += 2
	return v, nil
}

// interrupt runs the interrupt sequence for the given vector: push
// FLAGS/CS/IP, clear IF and TF, vector through the table at the bottom of
// memory. execCycles is the non-bus portion of the documented timing for
// whichever entry path got us here.
func (c *CPU) interrupt(vector uint8, execCycles int) error {
	if err := c.cycles(execCycles); err != nil {
		return err
	}
	if err := c.push16(c.Regs.Flags); err != nil {
		return err
	}
	c.Regs.setFlag(FlagI, false)
	c.Regs.setFlag(FlagT, false)
	if err := c.push16(c.Regs.S[segCS]); err != nil {
		return err
	}
	if err := c.push16(c.Regs.IP); err != nil {
		return err
	}

	ivt := uint16(vector) * 4
	ip, err := c.read16Linear(uint32(ivt))
	if err != nil {
		return err
	}
	cs, err := c.read16Linear(uint32(ivt) + 2)
	if err != nil {
		return err
	}
	c.Regs.IP = ip
	c.Regs.S[segCS] = cs
	c.flushQueue()
	return nil
}

// read16Linear reads a word from a physical address, used only for the
// interrupt vector table which is always at segment zero.
func (c *CPU) read16Linear(addr uint32) (uint16, error) {
	var v uint16
	for i := 0; i < 2; i++ {
		for t := 0; t < busCycleTicks; t++ {
			if err := c.clk(false); err != nil {
				return 0, err
			}
		}
		data := c.mem.Read(addr + uint32(i))
		c.LastResult.BusOps = append(c.LastResult.BusOps,
			execution.BusOp{Type: execution.MemRead, Addr: addr + uint32(i), Data: data})
		v |= uint16(data) << (8 * i)
	}
	return v, nil
}

// ExecuteInstruction runs the CPU to the next instruction boundary. The
// cycleCallback fires once per CPU clock, putting the rest of the machine
// in lockstep.
func (c *CPU) ExecuteInstruction(cycleCallback func() error) error {
	c.cycleCallback = cycleCallback
	defer func() { c.cycleCallback = nil }()

	trapArmed := c.Regs.flag(FlagT)

	// boundary interrupt sample. NMI beats INTR
	if c.nmi {
		c.nmi = false
		c.halted = false
		c.LastResult.Reset(c.physical(segCS, c.Regs.IP))
		return c.interrupt(2, intrLatency-44)
	}
	if !c.intrInhibit && c.Regs.flag(FlagI) && c.intr != nil && c.intr.INT() {
		c.halted = false
		c.LastResult.Reset(c.physical(segCS, c.Regs.IP))

		// two acknowledge cycles; the vector arrives on the second
		for i := 0; i < 2*busCycleTicks; i++ {
			if err := c.clk(false); err != nil {
				return err
			}
		}
		vector := c.intr.Acknowledge()
		c.LastResult.BusOps = append(c.LastResult.BusOps,
			execution.BusOp{Type: execution.IntAck, Addr: 0, Data: vector})

		return c.interrupt(vector, intrLatency-8-44)
	}
	c.intrInhibit = false

	if c.halted {
		// nothing retires on a halted boundary; the result record must not
		// keep replaying the HLT that got us here
		c.LastResult.Reset(c.physical(segCS, c.Regs.IP))
		return c.clk(true)
	}

	c.LastResult.Reset(c.physical(segCS, c.Regs.IP))
	c.segOverride = -1
	c.repPrefix = 0
	c.prefixLen = 0

	if err := c.execute(); err != nil {
		return err
	}

	// single step trap fires after the instruction if TF was set when it
	// started, unless the instruction itself entered an interrupt
	if trapArmed && c.Regs.flag(FlagT) {
		return c.interrupt(1, intrLatency-8-44)
	}
	return nil
}
