package service

import (
	"fmt"
	"os"
	"sync"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/patrickmn/go-cache"
)

// RecordSource supplies the ordered records of a dataset selection
type RecordSource interface {
	Load(label string) ([]model.Record, error)
}

// RecordStore loads dataset files and caches the parsed records for the
// process lifetime, so a selector always yields the same sequence.
type RecordStore struct {
	catalog *Catalog
	parser  *DatasetParser

	mu    sync.Mutex
	cache *cache.Cache
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(catalog *Catalog, parser *DatasetParser) *RecordStore {
	return &RecordStore{
		catalog: catalog,
		parser:  parser,
		cache:   cache.New(cache.NoExpiration, 0),
	}
}

// Catalog returns the catalog the store loads from
func (s *RecordStore) Catalog() *Catalog {
	return s.catalog
}

// Load returns the records of the selected dataset. Any problem with the
// backing file is an error; nothing is cached in that case.
func (s *RecordStore) Load(label string) ([]model.Record, error) {
	dataset, err := s.catalog.Lookup(label)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache.Get(dataset.Label); ok {
		return cached.([]model.Record), nil
	}

	content, err := os.ReadFile(dataset.Path)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: failed to read %s: %w", dataset.Label, dataset.Path, err)
	}

	records, err := s.parser.Parse(content, dataset.Variant)
	if err != nil {
		return nil, fmt.Errorf("dataset %q (%s): %w", dataset.Label, dataset.Path, err)
	}

	s.cache.Set(dataset.Label, records, cache.NoExpiration)
	return records, nil
}
