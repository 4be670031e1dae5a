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

package keyboard

// XT scancode set, keyed by key name. Key names follow the legends on the
// 83-key keyboard.
var scancodes = map[string]uint8{
	"Escape": 0x01, "1": 0x02, "2": 0x03, "3": 0x04, "4": 0x05,
	"5": 0x06, "6": 0x07, "7": 0x08, "8": 0x09, "9": 0x0a,
	"0": 0x0b, "-": 0x0c, "=": 0x0d, "Backspace": 0x0e,

	"Tab": 0x0f, "Q": 0x10, "W": 0x11, "E": 0x12, "R": 0x13,
	"T": 0x14, "Y": 0x15, "U": 0x16, "I": 0x17, "O": 0x18,
	"P": 0x19, "[": 0x1a, "]": 0x1b, "Enter": 0x1c,

	"Ctrl": 0x1d, "A": 0x1e, "S": 0x1f, "D": 0x20, "F": 0x21,
	"G": 0x22, "H": 0x23, "J": 0x24, "K": 0x25, "L": 0x26,
	";": 0x27, "'": 0x28, "`": 0x29,

	"LeftShift": 0x2a, "\\": 0x2b, "Z": 0x2c, "X": 0x2d, "C": 0x2e,
	"V": 0x2f, "B": 0x30, "N": 0x31, "M": 0x32, ",": 0x33,
	".": 0x34, "/": 0x35, "RightShift": 0x36,

	"KeypadStar": 0x37, "Alt": 0x38, "Space": 0x39, "CapsLock": 0x3a,

	"F1": 0x3b, "F2": 0x3c, "F3": 0x3d, "F4": 0x3e, "F5": 0x3f,
	"F6": 0x40, "F7": 0x41, "F8": 0x42, "F9": 0x43, "F10": 0x44,

	"NumLock": 0x45, "ScrollLock": 0x46,

	"Keypad7": 0x47, "Keypad8": 0x48, "Keypad9": 0x49, "KeypadMinus": 0x4a,
	"Keypad4": 0x4b, "Keypad5": 0x4c, "Keypad6": 0x4d, "KeypadPlus": 0x4e,
	"Keypad1": 0x4f, "Keypad2": 0x50, "Keypad3": 0x51, "Keypad0": 0x52,
	"KeypadDot": 0x53,
}
