// Package schema loads and holds the ordered list of source fields shown as table columns.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hyperjump/lindenview/internal/models"
)

// ParseServiceConfig decodes a search service configuration document and
// returns its schema field names in order.
func ParseServiceConfig(r io.Reader) ([]string, error) {
	var cfg models.ServiceConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode service config: %w", err)
	}
	names := cfg.Schema.FieldNames()
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("schema field %d has no name", i)
		}
	}
	return names, nil
}

// LoadFile reads a service configuration document from path.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema: %w", err)
	}
	defer f.Close()
	return ParseServiceConfig(f)
}

// Store holds the current field list. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	fields []string
}

// NewStore creates a store seeded with fields.
func NewStore(fields []string) *Store {
	return &Store{fields: append([]string(nil), fields...)}
}

// Fields returns a copy of the current field list.
func (s *Store) Fields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.fields...)
}

// Set replaces the field list.
func (s *Store) Set(fields []string) {
	s.mu.Lock()
	s.fields = append([]string(nil), fields...)
	s.mu.Unlock()
}

// Reload replaces the field list with the one read from path. On error the
// current list is kept.
func (s *Store) Reload(path string) error {
	fields, err := LoadFile(path)
	if err != nil {
		return err
	}
	s.Set(fields)
	return nil
}
