// Package combine merges per-file message tables into a single combined file.
//
// Every input file holds two top-level objects, "msgs" and "name_to_uuid".
// Files are merged in walk order; on key collision the later file wins.
package combine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrMissingKey indicates an input file lacks "msgs" or "name_to_uuid"
	ErrMissingKey = errors.New("missing top-level key")
)

// Document is one message file. Values are kept as raw JSON so numbers and
// nested objects pass through unchanged.
type Document struct {
	Msgs       map[string]json.RawMessage `json:"msgs"`
	NameToUUID map[string]json.RawMessage `json:"name_to_uuid"`
}

// NewDocument returns an empty document with both tables allocated.
func NewDocument() *Document {
	return &Document{
		Msgs:       make(map[string]json.RawMessage),
		NameToUUID: make(map[string]json.RawMessage),
	}
}

// DecodeDocument parses a message file. Both top-level keys must be present
// and hold objects.
func DecodeDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if doc.Msgs == nil {
		return nil, fmt.Errorf("%w: msgs", ErrMissingKey)
	}
	if doc.NameToUUID == nil {
		return nil, fmt.Errorf("%w: name_to_uuid", ErrMissingKey)
	}
	return &doc, nil
}

// ReadDocument opens and decodes the message file at path.
func ReadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeDocument(f)
}

// Merge copies src into d, overwriting existing keys. It returns the number
// of keys that replaced an earlier value.
func (d *Document) Merge(src *Document) int {
	overridden := 0
	for k, v := range src.Msgs {
		if _, ok := d.Msgs[k]; ok {
			overridden++
		}
		d.Msgs[k] = v
	}
	for k, v := range src.NameToUUID {
		if _, ok := d.NameToUUID[k]; ok {
			overridden++
		}
		d.NameToUUID[k] = v
	}
	return overridden
}

// Encode writes d as 4-space indented JSON. Non-ASCII text is written as is.
// Map keys are sorted, so equal documents encode to identical bytes.
func (d *Document) Encode(w io.Writer) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile encodes d to path through a temporary file in the same directory.
func (d *Document) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := d.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode combined document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
