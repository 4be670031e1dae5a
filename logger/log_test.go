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

package logger

import (
	"strings"
	"testing"

	"github.com/gopherxt/gopherxt/test"
)

func TestLogger(t *testing.T) {
	l := newLogger(100)

	tw := &strings.Builder{}
	l.write(tw)
	test.ExpectEquality(t, tw.String(), "")

	l.log("test", "this is a test")
	tw.Reset()
	l.write(tw)
	test.ExpectEquality(t, tw.String(), "test: this is a test\n")

	// a repeated entry is not added a second time
	l.log("test", "this is a test")
	tw.Reset()
	l.write(tw)
	test.ExpectEquality(t, tw.String(), "test: this is a test (repeat x2)\n")

	l.logf("test2", "fail %s", "run")
	tw.Reset()
	l.tail(tw, 1)
	test.ExpectEquality(t, tw.String(), "test2: fail run\n")
}

func TestLoggerMaxEntries(t *testing.T) {
	l := newLogger(2)

	l.log("a", "1")
	l.log("b", "2")
	l.log("c", "3")

	tw := &strings.Builder{}
	l.write(tw)
	test.ExpectEquality(t, tw.String(), "b: 2\nc: 3\n")
}
