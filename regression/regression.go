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

package regression

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/gopherxt/gopherxt/curated"
	"github.com/gopherxt/gopherxt/database"
	"github.com/gopherxt/gopherxt/resources"
)

// the file name of the regression database, relative to the resources path.
const regressionDBFile = "regressionDB"

// ansi sequence that clears the current line, ready for the completion
// message to overwrite the progress indicator.
const clearLine = "\r\033[2K"

// Regressor is the generic entry in the regression database.
type Regressor interface {
	database.Entry

	// perform the regression test for the regression type. the
	// newRegression flag indicates that the test is being run for the first
	// time and that the reference digest should be recorded rather than
	// compared.
	//
	// message is the string that is to be printed during the regression.
	regress(newRegression bool, output io.Writer, message string) (bool, error)
}

// when starting a database session we need to register what entries we will
// find in the database.
func initDBSession(db *database.Session) error {
	return db.RegisterEntryType(videoEntryID, deserialiseVideoEntry)
}

func dbPath() (string, error) {
	p, err := resources.JoinPath(regressionDBFile)
	if err != nil {
		return "", curated.Errorf("regression: %v", err)
	}
	return p, nil
}

// RegressList displays all entries in the database.
func RegressList(output io.Writer) error {
	p, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(p, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	return db.List(output)
}

// RegressAdd adds a new regression entry to the database. The test is run
// once to record the reference digest.
func RegressAdd(output io.Writer, reg Regressor) error {
	p, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(p, database.ActivityCreating, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(true)

	msg := fmt.Sprintf("adding: %s", reg)
	ok, err := reg.regress(true, output, msg)
	if !ok || err != nil {
		return err
	}

	output.Write([]byte(clearLine))
	output.Write([]byte(fmt.Sprintf("added: %s\n", reg)))

	return db.Add(reg)
}

// RegressDelete removes an entry from the regression database. The request
// must be confirmed through the confirmation reader before the entry is
// deleted.
func RegressDelete(output io.Writer, confirmation io.Reader, key string) error {
	v, err := strconv.Atoi(key)
	if err != nil {
		return curated.Errorf("regression: invalid key (%s)", key)
	}

	p, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(p, database.ActivityModifying, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(true)

	ent, err := db.Get(v)
	if err != nil {
		return err
	}

	output.Write([]byte(fmt.Sprintf("%s\ndelete? (y/n): ", ent)))

	confirm := make([]byte, 32)
	if _, err := confirmation.Read(confirm); err != nil {
		return err
	}

	if confirm[0] == 'y' || confirm[0] == 'Y' {
		if err := db.Delete(v); err != nil {
			return err
		}
		output.Write([]byte(fmt.Sprintf("deleted test #%s from regression database\n", key)))
	}

	return nil
}

// RegressRunTests runs the tests in the regression database. An empty
// filterKeys list means every entry is tested.
func RegressRunTests(output io.Writer, verbose bool, filterKeys []string) error {
	p, err := dbPath()
	if err != nil {
		return err
	}

	db, err := database.StartSession(p, database.ActivityReading, initDBSession)
	if err != nil {
		return err
	}
	defer db.EndSession(false)

	keys := make([]int, 0, len(filterKeys))
	for i := range filterKeys {
		v, err := strconv.Atoi(filterKeys[i])
		if err != nil {
			return curated.Errorf("regression: invalid key (%s)", filterKeys[i])
		}
		keys = append(keys, v)
	}
	sort.Ints(keys)

	numSucceed := 0
	numFail := 0
	numError := 0

	defer func() {
		output.Write([]byte(fmt.Sprintf("regression tests: %d succeed, %d fail", numSucceed, numFail)))
		if numError > 0 {
			output.Write([]byte(" [with errors]"))
		}
		output.Write([]byte("\n"))
	}()

	onSelect := func(_ int, ent database.Entry) error {
		// database entry should also satisfy the Regressor interface
		reg, ok := ent.(Regressor)
		if !ok {
			return curated.Errorf("regression: database entry does not satisfy Regressor interface")
		}

		msg := fmt.Sprintf("running: %s", reg)
		ok, err := reg.regress(false, output, msg)

		// once regress() has completed we clear the line ready for the
		// completion message
		output.Write([]byte(clearLine))

		if err != nil {
			numError++
			output.Write([]byte(fmt.Sprintf(" error: %s\n", reg)))
			if verbose {
				output.Write([]byte(fmt.Sprintf("%s\n", err)))
			}
		} else if !ok {
			numFail++
			output.Write([]byte(fmt.Sprintf("failure: %s\n", reg)))
		} else {
			numSucceed++
			output.Write([]byte(fmt.Sprintf("succeed: %s\n", reg)))
		}

		return nil
	}

	_, err = db.SelectKeys(onSelect, keys...)
	if err != nil {
		if !curated.Is(err, "database: select empty") {
			return err
		}
	}

	return nil
}
