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
	"github.com/gopherxt/gopherxt/curated"
)

// queueCap is the physical size of the 8088 prefetch queue. The 8086 has
// six bytes; the 8088 four.
const queueCap = 4

// prefetchQueue is the FIFO between the bus interface unit and the
// execution unit. The BIU pushes fetched code bytes during idle bus slots;
// the EU pops them as it decodes.
type prefetchQueue struct {
	bytes [queueCap]uint8
	head  int
	len   int
}

func (q *prefetchQueue) flush() {
	q.head = 0
	q.len = 0
}

func (q *prefetchQueue) full() bool {
	return q.len >= queueCap
}

func (q *prefetchQueue) empty() bool {
	return q.len == 0
}

func (q *prefetchQueue) push(b uint8) error {
	if q.full() {
		// the BIU never fetches into a full queue. reaching here is an
		// emulation bug, not a guest condition
		return curated.Errorf("cpu: prefetch queue overrun")
	}
	q.bytes[(q.head+q.len)%queueCap] = b
	q.len++
	return nil
}

func (q *prefetchQueue) pop() uint8 {
	b := q.bytes[q.head]
	q.head = (q.head + 1) % queueCap
	q.len--
	return b
}
