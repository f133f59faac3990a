package lookup

import (
	"fmt"
	"path/filepath"

	"github.com/maypok86/otter"
)

// Resolver answers lookups against table files, keeping decoded tables in
// memory so repeated lookups against the same file decode it once.
type Resolver struct {
	tables otter.Cache[string, Table]
}

// NewResolver creates a Resolver holding at most capacity tables.
func NewResolver(capacity int) (*Resolver, error) {
	cache, err := otter.MustBuilder[string, Table](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}
	return &Resolver{tables: cache}, nil
}

// Table returns the decoded table at path, loading it on first use.
func (r *Resolver) Table(path string) (Table, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	if t, ok := r.tables.Get(key); ok {
		return t, nil
	}

	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	r.tables.Set(key, t)
	return t, nil
}

// Resolve looks up value in enum using the table at path.
// A missing entry returns ErrNotFound.
func (r *Resolver) Resolve(path, enum, value string) (string, error) {
	t, err := r.Table(path)
	if err != nil {
		return "", err
	}
	member, ok := t.Name(enum, value)
	if !ok {
		return "", fmt.Errorf("%w: %s = %s", ErrNotFound, enum, value)
	}
	return member, nil
}

// Invalidate drops the cached table for path, forcing the next lookup to reload it.
func (r *Resolver) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = path
	}
	r.tables.Delete(key)
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.tables.Close()
}
