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

package disassembly_test

import (
	"strings"
	"testing"

	"github.com/gopherxt/gopherxt/disassembly"
	"github.com/gopherxt/gopherxt/test"
)

func decodeOne(t *testing.T, program []byte) string {
	t.Helper()

	dsm := disassembly.FromData(program, 0, 0x100)
	if len(dsm.Entries) == 0 {
		t.Fatal("no entries decoded")
	}
	test.ExpectEquality(t, len(dsm.Entries[0].Bytes), len(program))

	return dsm.Entries[0].Result.String()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		program []byte
		want    string
	}{
		{[]byte{0x90}, "NOP"},
		{[]byte{0xb8, 0x34, 0x12}, "MOV AX,1234"},
		{[]byte{0x8b, 0x84, 0x10, 0x27}, "MOV AX,[SI+2710]"},
		{[]byte{0x88, 0xc8}, "MOV AL,CL"},
		{[]byte{0x80, 0x3e, 0x00, 0x20, 0x05}, "CMP BYTE [2000],05"},
		{[]byte{0xf3, 0xaa}, "REP STOSB"},
		{[]byte{0xcd, 0x21}, "INT 21"},
		{[]byte{0x9a, 0x02, 0x01, 0x00, 0xf0}, "CALL f000:0102"},
		{[]byte{0x26, 0xa1, 0x00, 0x10}, "MOV AX,ES:[1000]"},
		{[]byte{0xd1, 0xe3}, "SHL BX,1"},
		{[]byte{0x1e}, "PUSH DS"},
		{[]byte{0xfe, 0x07}, "INC BYTE [BX]"},
	}

	for _, tst := range tests {
		test.ExpectEquality(t, decodeOne(t, tst.program), tst.want)
	}
}

func TestRelativeTarget(t *testing.T) {
	// JMP -2 from 0100 lands back on itself
	test.ExpectEquality(t, decodeOne(t, []byte{0xeb, 0xfe}), "JMP 0100")

	// forward word displacement
	test.ExpectEquality(t, decodeOne(t, []byte{0xe9, 0x00, 0x01}), "JMP 0203")
}

func TestNegativeDisplacement(t *testing.T) {
	test.ExpectEquality(t, decodeOne(t, []byte{0x8b, 0x46, 0xfe}), "MOV AX,[BP-02]")
}

func TestLinearPass(t *testing.T) {
	program := []byte{
		0xb8, 0x34, 0x12, // MOV AX,1234
		0x50,       // PUSH AX
		0xeb, 0xfa, // JMP 0100
	}

	dsm := disassembly.FromData(program, 0xf000, 0x100)
	test.ExpectEquality(t, len(dsm.Entries), 3)
	test.ExpectEquality(t, dsm.Entries[1].IP, uint16(0x103))
	test.ExpectEquality(t, dsm.Entries[2].Result.String(), "JMP 0100")

	s := strings.Builder{}
	test.ExpectSuccess(t, dsm.Write(&s))
	test.ExpectEquality(t, strings.Count(s.String(), "\n"), 3)

	m := dsm.Grep("push")
	test.ExpectEquality(t, len(m), 1)
	test.ExpectEquality(t, m[0].Result.Operator, "PUSH")
}