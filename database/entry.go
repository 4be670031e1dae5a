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

package database

import (
	"github.com/gopherxt/gopherxt/curated"
)

// Deserialiser is the initialisation function called to construct a new
// entry from its stored fields.
type Deserialiser func(fields SerialisedEntry) (Entry, error)

// SerialisedEntry is the Entry data represented as an array of strings.
type SerialisedEntry []string

// Entry represents the generic entry in the database.
type Entry interface {
	// ID returns the string that is used to identify the entry type in the
	// database.
	ID() string

	// String should return information about the entry in a human readable
	// format. By contrast, machine readable representation is returned by
	// the Serialise function.
	String() string

	// Serialise returns the Entry data as an instance of SerialisedEntry.
	Serialise() (SerialisedEntry, error)

	// CleanUp is performed when entry is deleted from the database.
	CleanUp() error
}

// RegisterEntryType tells the database what entries it may expect and what
// to do when it encounters one.
func (db *Session) RegisterEntryType(id string, des Deserialiser) error {
	if _, ok := db.entryTypes[id]; ok {
		return curated.Errorf("database: duplicate entry type (%s)", id)
	}
	db.entryTypes[id] = des
	return nil
}
