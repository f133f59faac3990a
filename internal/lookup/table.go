// Package lookup resolves raw enum values back to member names using a
// table written by `enumgen extract`.
package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotFound indicates the table has no entry for the requested enum value
var ErrNotFound = errors.New("enum value not found")

const (
	arraySuffix        = "[]"
	serializableSuffix = "_Serializable"
	fixedSuffix        = "_Fixed"
)

// Table maps a fully-qualified enum name to {decimal value: member name}.
type Table map[string]map[string]string

// Decode reads a table from r.
func Decode(r io.Reader) (Table, error) {
	var t Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to decode enum table: %w", err)
	}
	return t, nil
}

// Load reads the table at path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Name returns the member name for value in enum.
//
// Field types are often spelled differently from the enum that backs them, so
// the name is normalized first: array brackets are dropped and a
// "_Serializable" suffix is treated as "_Fixed". If that misses, the "_Fixed"
// suffix is dropped and the lookup retried.
func (t Table) Name(enum, value string) (string, bool) {
	name := strings.ReplaceAll(enum, arraySuffix, "")
	name = strings.ReplaceAll(name, serializableSuffix, fixedSuffix)
	if member, ok := t.lookup(name, value); ok {
		return member, true
	}
	return t.lookup(strings.ReplaceAll(name, fixedSuffix, ""), value)
}

func (t Table) lookup(enum, value string) (string, bool) {
	values, ok := t[enum]
	if !ok {
		return "", false
	}
	member, ok := values[value]
	return member, ok
}
