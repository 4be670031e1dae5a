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
	"io"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/cpu/execution"
)

// Transport moves protocol bytes between the validator and the reference
// harness. Implementations must return an error rather than block forever:
// a hung reference device is a fatal condition for the validated run.
type Transport interface {
	io.ReadWriter
	Close() error
}

// protocol command bytes. the framing is a private contract with the
// harness firmware.
const (
	cmdVersion = 0x00
	cmdReset   = 0x01
	cmdLoad    = 0x02
	cmdExecute = 0x03
	cmdStore   = 0x04
)

// the harness acknowledges every command before any response payload.
const ackOK = 0x01

// protocol version expected from the harness.
const protocolVersion = 0x01

// client speaks the harness protocol over a Transport. all errors are
// fatal; the caller is expected to tear the session down.
type client struct {
	trans Transport
}

func (cl *client) readFull(buf []byte) error {
	_, err := io.ReadFull(cl.trans, buf)
	if err != nil {
		return curated.Errorf("validator: %v", err)
	}
	return nil
}

// command sends a command byte and payload and waits for the harness
// acknowledgement.
func (cl *client) command(cmd uint8, payload []byte) error {
	msg := append([]byte{cmd}, payload...)
	if _, err := cl.trans.Write(msg); err != nil {
		return curated.Errorf("validator: %v", err)
	}

	ack := make([]byte, 1)
	if err := cl.readFull(ack); err != nil {
		return err
	}
	if ack[0] != ackOK {
		return curated.Errorf("validator: %v", fmt.Errorf("harness refused command %02x", cmd))
	}

	return nil
}

func (cl *client) version() error {
	if err := cl.command(cmdVersion, nil); err != nil {
		return err
	}

	v := make([]byte, 1)
	if err := cl.readFull(v); err != nil {
		return err
	}
	if v[0] != protocolVersion {
		return curated.Errorf("validator: %v", fmt.Errorf("harness protocol version %d (want %d)", v[0], protocolVersion))
	}

	return nil
}

func (cl *client) reset() error {
	return cl.command(cmdReset, nil)
}

// load hands a register frame to the harness, replacing the reference
// CPU's register state.
func (cl *client) load(frame []byte) error {
	return cl.command(cmdLoad, frame)
}

// execute runs one instruction on the reference CPU. the readData bytes
// are served, in order, as the responses to the reference CPU's memory and
// IO reads. The harness replies with the bus operations it observed.
func (cl *client) execute(instr []byte, readData []byte) ([]execution.BusOp, error) {
	payload := []byte{uint8(len(instr))}
	payload = append(payload, instr...)
	payload = append(payload, uint8(len(readData)))
	payload = append(payload, readData...)

	if err := cl.command(cmdExecute, payload); err != nil {
		return nil, err
	}

	count := make([]byte, 1)
	if err := cl.readFull(count); err != nil {
		return nil, err
	}

	ops := make([]execution.BusOp, count[0])
	buf := make([]byte, 5)
	for i := range ops {
		if err := cl.readFull(buf); err != nil {
			return nil, err
		}
		ops[i] = execution.BusOp{
			Type: execution.BusOpType(buf[0]),
			Addr: uint32(buf[1]) | uint32(buf[2])<<8 | uint32(buf[3])<<16,
			Data: buf[4],
		}
	}

	return ops, nil
}

// store reads the register frame back from the harness.
func (cl *client) store() ([]byte, error) {
	if err := cl.command(cmdStore, nil); err != nil {
		return nil, err
	}

	frame := make([]byte, FrameSize)
	if err := cl.readFull(frame); err != nil {
		return nil, err
	}

	return frame, nil
}
