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

// Package resources contains functions to prepare paths for gopherxt
// resources.
//
// The JoinPath() function returns the correct path to the resource
// directory/file specified in the arguments. It handles the creation of
// directories as required but does not otherwise touch or create files.
//
// JoinPath() handles the inclusion of the correct base path. If the base
// resource directory, ".gopherxt", is present in the program's current
// directory then that is the base path that is used. If it is not present
// then the user's configuration directory is used instead. On a modern Linux
// system the full path would be something like:
//
//	/home/user/.config/gopherxt/
//
// The package does this because during development it is more convenient to
// have the config directory close to hand. For day-to-day use however, the
// config directory should be somewhere the end-user expects.
package resources
