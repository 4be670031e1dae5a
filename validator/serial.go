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
	"time"

	"github.com/pkg/term"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/logger"
)

// DefaultBaud is the speed the harness firmware configures its UART for.
const DefaultBaud = 1000000

// how long a read may stall before the harness is considered hung.
const serialTimeout = 2 * time.Second

// SerialTransport is the Transport implementation for a harness attached
// over a serial device.
type SerialTransport struct {
	device string
	port   *term.Term
}

// NewSerialTransport is the preferred method of initialisation for the
// SerialTransport type. The device is opened in raw mode with a read
// timeout; a timeout surfaces as a transport error, which ends the
// validated run.
func NewSerialTransport(device string, baud int) (*SerialTransport, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}

	p, err := term.Open(device, term.Speed(baud), term.RawMode, term.ReadTimeout(serialTimeout))
	if err != nil {
		return nil, curated.Errorf("validator: %v", err)
	}

	logger.Logf("validator", "reference harness on %s at %d baud", device, baud)

	return &SerialTransport{device: device, port: p}, nil
}

// Read implements the Transport interface.
func (st *SerialTransport) Read(p []byte) (int, error) {
	n, err := st.port.Read(p)
	if err != nil {
		return n, curated.Errorf("validator: %v", err)
	}
	if n == 0 {
		return 0, curated.Errorf("validator: %v", fmt.Errorf("timeout reading from %s", st.device))
	}
	return n, nil
}

// Write implements the Transport interface.
func (st *SerialTransport) Write(p []byte) (int, error) {
	n, err := st.port.Write(p)
	if err != nil {
		return n, curated.Errorf("validator: %v", err)
	}
	return n, nil
}

// Close implements the Transport interface.
func (st *SerialTransport) Close() error {
	_ = st.port.Flush()
	if err := st.port.Close(); err != nil {
		return curated.Errorf("validator: %v", err)
	}
	return nil
}
