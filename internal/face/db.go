// Package face holds the reference face database and descriptor matching
// for the face auth worker. Descriptor extraction itself happens in an
// external helper; this package only loads enrolled references and
// compares descriptors against them.
package face

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"face-lock/internal/xdg"
)

// Descriptor is a face embedding produced by the enrollment tool or the
// camera helper. Comparison is plain Euclidean distance.
type Descriptor []float64

// DB is the set of enrolled reference descriptors, keyed by identity.
// It is loaded once when the face worker starts and read-only afterwards;
// enrollment happens in a separate tool.
type DB struct {
	refs  []Descriptor
	names []string
}

// LoadDB reads the default known-faces directory.
func LoadDB() (*DB, error) {
	dir, err := xdg.KnownFacesDir()
	if err != nil {
		return nil, fmt.Errorf("getting known faces dir: %w", err)
	}
	return LoadDir(dir)
}

// LoadDir reads every *.json descriptor file in dir. The file stem is the
// identity name. Unreadable or malformed files are skipped: a bad
// enrollment must not take the whole factor down.
func LoadDir(dir string) (*DB, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading known faces dir: %w", err)
	}

	db := &DB{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		var desc Descriptor
		if err := json.Unmarshal(data, &desc); err != nil || len(desc) == 0 {
			continue
		}

		db.refs = append(db.refs, desc)
		db.names = append(db.names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	return db, nil
}

// Empty reports whether no references are enrolled.
func (db *DB) Empty() bool {
	return len(db.refs) == 0
}

// Len returns the number of enrolled references.
func (db *DB) Len() int {
	return len(db.refs)
}

// References returns the enrolled descriptors.
func (db *DB) References() []Descriptor {
	return db.refs
}

// Names returns the distinct enrolled identity names, sorted.
func (db *DB) Names() []string {
	seen := make(map[string]bool, len(db.names))
	var out []string
	for _, n := range db.names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
