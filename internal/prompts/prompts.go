// Package prompts stores the prompts behind AI-assisted changes as JSON
// files under .ai-prov/prompts/ in the repository. Unlike the notes
// ledger the store is plain working-tree state: teams decide themselves
// whether to commit or ignore it.
package prompts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pders01/git-provenance/internal/models"
)

// ErrPromptNotFound is returned when no stored prompt has the given ID
var ErrPromptNotFound = errors.New("prompt not found")

// Prompt is one stored prompt with its provenance metadata
type Prompt struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Text string `json:"prompt_text"`

	Tool       models.Tool       `json:"ai_tool,omitempty"`
	Confidence models.Confidence `json:"confidence,omitempty"`

	FilesCreated  []string `json:"files_created,omitempty"`
	FilesModified []string `json:"files_modified,omitempty"`

	Trace     []string `json:"trace,omitempty"`
	Tests     []string `json:"tests,omitempty"`
	CommitSHA string   `json:"commit_sha,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// TouchesFile reports whether the prompt created or modified a file
func (p *Prompt) TouchesFile(path string) bool {
	for _, f := range p.FilesCreated {
		if f == path {
			return true
		}
	}
	for _, f := range p.FilesModified {
		if f == path {
			return true
		}
	}
	return false
}

// HasTrace reports whether the prompt references a given requirement ID
func (p *Prompt) HasTrace(id string) bool {
	for _, t := range p.Trace {
		if t == id {
			return true
		}
	}
	return false
}

// Store reads and writes prompt files under <root>/.ai-prov/prompts/
type Store struct {
	dir string
}

// NewStore returns a store rooted at the given repository root. The
// directory is created lazily on the first write.
func NewStore(root string) *Store {
	return &Store{dir: filepath.Join(root, ".ai-prov", "prompts")}
}

// Create fills in the prompt's identity (a fresh UUID and the current
// time, unless already set) and persists it.
func (s *Store) Create(p *Prompt) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC().Truncate(time.Second)
	}
	return s.Save(p)
}

// Save writes the prompt to <dir>/<id>.json, replacing any prior version
func (s *Store) Save(p *Prompt) error {
	if p.ID == "" {
		return errors.New("prompt has no ID")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create prompt store: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode prompt %s: %w", p.ID, err)
	}
	path := filepath.Join(s.dir, p.ID+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write prompt %s: %w", p.ID, err)
	}
	return nil
}

// Get retrieves one prompt by ID
func (s *Store) Get(id string) (*Prompt, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, id)
		}
		return nil, fmt.Errorf("failed to read prompt %s: %w", id, err)
	}

	var p Prompt
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode prompt %s: %w", id, err)
	}
	return &p, nil
}

// All returns every stored prompt, oldest first. An absent store
// directory yields an empty slice.
func (s *Store) All() ([]*Prompt, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list prompt store: %w", err)
	}

	var prompts []*Prompt
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		p, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}

	sort.Slice(prompts, func(i, j int) bool {
		return prompts[i].Timestamp.Before(prompts[j].Timestamp)
	})
	return prompts, nil
}

// ListForFile returns the prompts that created or modified a file,
// oldest first.
func (s *Store) ListForFile(path string) ([]*Prompt, error) {
	return s.filter(func(p *Prompt) bool { return p.TouchesFile(path) })
}

// ListForRequirement returns the prompts linked to a requirement ID,
// oldest first.
func (s *Store) ListForRequirement(id string) ([]*Prompt, error) {
	return s.filter(func(p *Prompt) bool { return p.HasTrace(id) })
}

func (s *Store) filter(keep func(*Prompt) bool) ([]*Prompt, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	var prompts []*Prompt
	for _, p := range all {
		if keep(p) {
			prompts = append(prompts, p)
		}
	}
	return prompts, nil
}
