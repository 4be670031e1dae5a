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

// Package curated is a helper package for the plain error type in Go. The
// builtin error type is absolutely fine for simple packages but in a project
// of this size a little more discipline helps.
//
// Errors are created with the Errorf() function. The first argument is the
// pattern string, which serves the same purpose as the format string in the
// fmt package, but which can also be matched against with the Is() and Has()
// functions. The idiom is for each package to prefix its errors with the
// package name:
//
//	return curated.Errorf("dma: channel %d: count underflow", ch)
//
// Deeply nested errors with repeated message parts are de-duplicated when
// the message is formatted, keeping error strings readable when they have
// passed through several layers of the emulation.
package curated
