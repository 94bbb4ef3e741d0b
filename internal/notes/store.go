// Package notes implements the provenance ledger: an append-only,
// namespaced key-value store layered on git notes. Keys are commit
// hashes, values are canonically encoded CommitRecords.
package notes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pders01/git-provenance/internal/audit"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/models"
)

// DefaultNamespace is the notes ref used unless configured otherwise
const DefaultNamespace = "ai-provenance"

// DefaultMaxRetries bounds the optimistic-concurrency retry loop
const DefaultMaxRetries = 3

// ErrNoteNotFound is returned when a commit has no ledger entry
var ErrNoteNotFound = errors.New("no provenance record for commit")

// WriteConflictError reports that the ledger ref moved concurrently while
// a write was in flight and retries were exhausted. The caller must
// refresh and retry.
type WriteConflictError struct {
	CommitID string
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("concurrent ledger write detected for commit %s", e.CommitID)
}

// MergeConflictError reports that two branches modified the same commit's
// ledger entry independently. Resolution is manual; the store never picks
// one side.
type MergeConflictError struct {
	Ref string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("notes merge from %s left conflicts requiring manual resolution", e.Ref)
}

// Store reads and writes the provenance ledger of the repository in the
// current working directory.
type Store struct {
	Namespace  string
	MaxRetries int
}

// NewStore creates a store over the given namespace. Empty namespace
// selects DefaultNamespace.
func NewStore(namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{Namespace: namespace, MaxRetries: DefaultMaxRetries}
}

// Ref returns the full notes ref for the namespace
func (s *Store) Ref() string {
	return "refs/notes/" + s.Namespace
}

// afterWrite runs between the ref update and the read-back verification.
// Tests use it to interleave a competing writer.
var afterWrite = func() {}

// Write stores a record for a commit, overwriting any existing entry
// (last-writer-wins). Writes use optimistic concurrency: after the update
// the entry is read back, and a mismatch means a concurrent writer landed
// in between. The write is retried up to MaxRetries times before
// surfacing WriteConflictError.
func (s *Store) Write(commitID string, rec *models.CommitRecord) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	sha, err := git.ResolveRevision(commitID)
	if err != nil {
		return err
	}

	payload, err := rec.MarshalNote()
	if err != nil {
		return err
	}

	retries := s.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		if err := git.NotesAdd(s.Namespace, sha, string(payload)); err != nil {
			return err
		}

		afterWrite()

		stored, ok, err := git.NotesShow(s.Namespace, sha)
		if err != nil {
			return err
		}
		if ok && strings.TrimSpace(stored) == string(payload) {
			return nil
		}
	}

	return &WriteConflictError{CommitID: commitID}
}

// Read returns the record stored for a commit, or ErrNoteNotFound
func (s *Store) Read(commitID string) (*models.CommitRecord, error) {
	if !git.IsGitRepo() {
		return nil, git.ErrNotARepository
	}

	sha, err := git.ResolveRevision(commitID)
	if err != nil {
		return nil, err
	}

	content, ok, err := git.NotesShow(s.Namespace, sha)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, commitID)
	}

	return models.UnmarshalNote(sha, []byte(strings.TrimSpace(content)))
}

// Entry is one ledger entry returned by List
type Entry struct {
	CommitID string
	Time     time.Time
	Record   *models.CommitRecord
}

// List returns all ledger entries in reverse-chronological order,
// optionally bounded by since/until. Bounds resolve as commit-ish first,
// then as YYYY-MM-DD dates. The cursor is stateless: every call rescans
// the commit topology, so a partial consumer can simply call again.
//
// Entries whose payload no longer decodes are skipped; the ledger is
// authoritative for well-formed records only.
func (s *Store) List(since, until string) ([]Entry, error) {
	if !git.IsGitRepo() {
		return nil, git.ErrNotARepository
	}

	lower, err := resolveBound(since)
	if err != nil {
		return nil, err
	}
	upper, err := resolveBound(until)
	if err != nil {
		return nil, err
	}

	pairs, err := git.NotesList(s.Namespace)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, pair := range pairs {
		t, err := git.CommitTime(pair.CommitID)
		if err != nil {
			continue // annotated object pruned from history
		}
		if !lower.IsZero() && t.Before(lower) {
			continue
		}
		if !upper.IsZero() && t.After(upper) {
			continue
		}

		content, ok, err := git.NotesShow(s.Namespace, pair.CommitID)
		if err != nil || !ok {
			continue
		}
		rec, err := models.UnmarshalNote(pair.CommitID, []byte(strings.TrimSpace(content)))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{CommitID: pair.CommitID, Time: t, Record: rec})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Time.Equal(entries[j].Time) {
			return entries[i].Time.After(entries[j].Time)
		}
		return entries[i].CommitID > entries[j].CommitID
	})

	return entries, nil
}

// Remove purges the ledger entry for a commit. Purges are logged to the
// local audit trail; reason is recorded verbatim.
func (s *Store) Remove(commitID, reason string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	sha, err := git.ResolveRevision(commitID)
	if err != nil {
		return err
	}

	if err := git.NotesRemove(s.Namespace, sha); err != nil {
		return err
	}

	if err := audit.LogAction("purge", sha, s.Namespace, reason); err != nil {
		return fmt.Errorf("entry purged but audit logging failed: %w", err)
	}
	return nil
}

// Merge folds another notes ref into the namespace. Disjoint commit sets
// merge trivially by key union; independent edits to the same commit's
// entry surface as MergeConflictError.
func (s *Store) Merge(remoteRef string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}

	conflicted, err := git.NotesMerge(s.Namespace, remoteRef)
	if err != nil {
		return err
	}
	if conflicted {
		return &MergeConflictError{Ref: remoteRef}
	}
	return nil
}

// Publish copies the namespace to a remote. Writes stay local until this
// explicit step; the store never publishes implicitly.
func (s *Store) Publish(remote string) error {
	if !git.IsGitRepo() {
		return git.ErrNotARepository
	}
	return git.PushRef(remote, s.Ref())
}

// resolveBound interprets a list bound as a commit-ish, falling back to a
// YYYY-MM-DD date. Empty bound means unbounded.
func resolveBound(bound string) (time.Time, error) {
	if bound == "" {
		return time.Time{}, nil
	}
	if sha, err := git.ResolveRevision(bound); err == nil {
		return git.CommitTime(sha)
	}
	t, err := time.ParseInLocation("2006-01-02", bound, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bound %q is neither a revision nor a YYYY-MM-DD date", bound)
	}
	return t, nil
}
