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

// Package keyboard implements the XT keyboard interface. Scancodes queue up
// on the host side and trickle into the PPI shift register one at a time,
// honouring the serial transfer delay of the real keyboard cable. IRQ1 is
// raised by the PPI for as long as its shift register is full.
package keyboard

import (
	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/hardware/ppi"
)

// serialDelayTicks is the gap between one scancode being taken from the PPI
// and the next being loaded. The real keyboard shifts eleven bits at around
// 10kHz; roughly one millisecond, expressed in CPU ticks.
const serialDelayTicks = 4772

// maximum host-side queue length before scancodes are dropped.
const queueLen = 32

// the break code is the make code with the top bit set.
const breakBit = 0x80

// Keyboard buffers scancodes for delivery to the PPI.
type Keyboard struct {
	ppi *ppi.PPI

	queue []uint8
	delay int
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type.
func NewKeyboard(p *ppi.PPI) *Keyboard {
	return &Keyboard{
		ppi:   p,
		queue: make([]uint8, 0, queueLen),
	}
}

// Reset empties the scancode queue.
func (kb *Keyboard) Reset() {
	kb.queue = kb.queue[:0]
	kb.delay = 0
}

// KeyDown queues the make code for the named key.
func (kb *Keyboard) KeyDown(key string) error {
	code, ok := scancodes[key]
	if !ok {
		return curated.Errorf("keyboard: unrecognised key (%s)", key)
	}
	kb.push(code)
	return nil
}

// KeyUp queues the break code for the named key.
func (kb *Keyboard) KeyUp(key string) error {
	code, ok := scancodes[key]
	if !ok {
		return curated.Errorf("keyboard: unrecognised key (%s)", key)
	}
	kb.push(code | breakBit)
	return nil
}

// Type queues the make/break pair for each key name in turn. Useful for
// scripted input.
func (kb *Keyboard) Type(keys ...string) error {
	for _, k := range keys {
		if err := kb.KeyDown(k); err != nil {
			return err
		}
		if err := kb.KeyUp(k); err != nil {
			return err
		}
	}
	return nil
}

func (kb *Keyboard) push(code uint8) {
	if len(kb.queue) >= queueLen {
		// the real hardware buffers far less than this before the keyboard
		// controller starts dropping
		return
	}
	kb.queue = append(kb.queue, code)
}

// Step advances the keyboard by one CPU tick, delivering the next queued
// scancode to the PPI when the shift register is free and the serial delay
// has elapsed.
func (kb *Keyboard) Step() {
	if len(kb.queue) == 0 {
		return
	}

	if kb.ppi.KeyboardIRQ() {
		// previous scancode not yet taken; the delay starts over once it is
		kb.delay = serialDelayTicks
		return
	}

	if kb.delay > 0 {
		kb.delay--
		return
	}

	if kb.ppi.PushScancode(kb.queue[0]) {
		kb.queue = kb.queue[1:]
		kb.delay = serialDelayTicks
	}
}
