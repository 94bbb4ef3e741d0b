// Package requirements is a read-only client for the external
// requirements store's YAML export. It is consulted only to enrich
// traceability rows with titles and status; the engine works without it.
package requirements

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a requirement ID has no entry
var ErrNotFound = errors.New("requirement not found")

// Requirement is one entry of the external requirements store
type Requirement struct {
	ID     string `yaml:"id"`
	Title  string `yaml:"title"`
	Status string `yaml:"status"`
}

// Store is an in-memory view of one requirements.yaml load
type Store struct {
	byID  map[string]Requirement
	order []string
}

type requirementsFile struct {
	Requirements []Requirement `yaml:"requirements"`
}

// Load reads a requirements.yaml export. A missing file yields an empty
// store rather than an error: the collaborator may simply be absent.
func Load(path string) (*Store, error) {
	store := &Store{byID: make(map[string]Requirement)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read requirements file: %w", err)
	}

	var file requirementsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, req := range file.Requirements {
		if req.ID == "" {
			continue
		}
		if _, dup := store.byID[req.ID]; !dup {
			store.order = append(store.order, req.ID)
		}
		store.byID[req.ID] = req
	}

	return store, nil
}

// Get looks up one requirement by ID
func (s *Store) Get(id string) (*Requirement, error) {
	req, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &req, nil
}

// All returns every requirement in file order
func (s *Store) All() []Requirement {
	reqs := make([]Requirement, 0, len(s.order))
	for _, id := range s.order {
		reqs = append(reqs, s.byID[id])
	}
	return reqs
}
