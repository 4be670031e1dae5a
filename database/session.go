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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gopherxt/gopherxt/curated"
)

// Activity is used to specify the type of database activity taking place
// during a session.
type Activity int

// Valid activities: reading, creating (the database file if necessary) and
// modifying.
const (
	ActivityReading Activity = iota
	ActivityCreating
	ActivityModifying
)

// Session represents an open database.
type Session struct {
	dbfile   *os.File
	activity Activity

	entryTypes map[string]Deserialiser
	entries    map[int]Entry
}

// StartSession starts a database session and prepares it for use.
//
// The init function is called before the contents of the database are read
// and is the opportunity to register the entry types the database might
// contain.
func StartSession(path string, activity Activity, init func(*Session) error) (*Session, error) {
	db := &Session{
		activity:   activity,
		entryTypes: make(map[string]Deserialiser),
		entries:    make(map[int]Entry),
	}

	var flags int
	switch activity {
	case ActivityReading:
		flags = os.O_RDONLY
	case ActivityCreating:
		flags = os.O_RDWR | os.O_CREATE
	case ActivityModifying:
		flags = os.O_RDWR
	}

	var err error

	db.dbfile, err = os.OpenFile(path, flags, 0600)
	if err != nil {
		return nil, curated.Errorf("database: %v", err)
	}

	if err := init(db); err != nil {
		db.dbfile.Close()
		return nil, curated.Errorf("database: %v", err)
	}

	if err := db.readEntries(); err != nil {
		db.dbfile.Close()
		return nil, err
	}

	return db, nil
}

// EndSession closes the database.
//
// If commitChanges is true the contents of the database are written back to
// the database file. Commiting changes to a session that was started with
// ActivityReading is an error.
func (db *Session) EndSession(commitChanges bool) error {
	if db.dbfile == nil {
		return curated.Errorf("database: session already ended")
	}

	defer func() {
		db.dbfile.Close()
		db.dbfile = nil
	}()

	if !commitChanges {
		return nil
	}

	if db.activity == ActivityReading {
		return curated.Errorf("database: cannot commit to a read-only session")
	}

	if err := db.dbfile.Truncate(0); err != nil {
		return curated.Errorf("database: %v", err)
	}

	if _, err := db.dbfile.Seek(0, io.SeekStart); err != nil {
		return curated.Errorf("database: %v", err)
	}

	keyList := db.SortedKeyList()
	for _, key := range keyList {
		ser, err := db.entries[key].Serialise()
		if err != nil {
			return curated.Errorf("database: %v", err)
		}

		s := strings.Builder{}
		s.WriteString(recordHeader(key, db.entries[key].ID()))
		for _, f := range ser {
			s.WriteString(fieldSep)
			s.WriteString(f)
		}
		s.WriteString(entrySep)

		if _, err := db.dbfile.WriteString(s.String()); err != nil {
			return curated.Errorf("database: %v", err)
		}
	}

	return nil
}

// readEntries clobbers the contents of db.entries.
func (db *Session) readEntries() error {
	db.entries = make(map[int]Entry, len(db.entries))

	if _, err := db.dbfile.Seek(0, io.SeekStart); err != nil {
		return curated.Errorf("database: %v", err)
	}

	buffer, err := io.ReadAll(db.dbfile)
	if err != nil {
		return curated.Errorf("database: %v", err)
	}

	lines := strings.Split(string(buffer), entrySep)

	for i := 0; i < len(lines); i++ {
		lines[i] = strings.TrimSpace(lines[i])
		if len(lines[i]) == 0 {
			continue
		}

		fields := strings.Split(lines[i], fieldSep)
		if len(fields) < numLeaderFields {
			return curated.Errorf("database: malformed entry at line %d", i+1)
		}

		key, err := strconv.Atoi(fields[leaderFieldKey])
		if err != nil {
			return curated.Errorf("database: invalid key (%s) at line %d", fields[leaderFieldKey], i+1)
		}

		if _, ok := db.entries[key]; ok {
			return curated.Errorf("database: duplicate key (%d) at line %d", key, i+1)
		}

		des, ok := db.entryTypes[fields[leaderFieldID]]
		if !ok {
			return curated.Errorf("database: unrecognised entry type (%s) at line %d", fields[leaderFieldID], i+1)
		}

		ent, err := des(fields[numLeaderFields:])
		if err != nil {
			return curated.Errorf("database: %v", err)
		}

		db.entries[key] = ent
	}

	return nil
}
