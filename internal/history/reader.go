// Package history reads files and provenance records as they existed at
// an arbitrary historical revision. Commit-level data lives in the ledger
// keyed by commit hash, so only file-level inline data needs re-parsing.
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/git-provenance/internal/blocks"
	"github.com/pders01/git-provenance/internal/git"
	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/notes"
	"github.com/pders01/git-provenance/internal/tagparse"
)

// Reader resolves file snapshots and commit records at revisions
type Reader struct {
	Store *notes.Store
}

// NewReader creates a Reader backed by the given ledger store
func NewReader(store *notes.Store) *Reader {
	return &Reader{Store: store}
}

// FileAt returns a file's text at a revision. The empty revision (or
// models.WorkingTree) reads the on-disk working tree copy.
func (r *Reader) FileAt(path, rev string) (string, error) {
	if rev == "" || rev == models.WorkingTree {
		root, err := git.RepoRoot()
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(filepath.Join(root, path))
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	sha, err := git.ResolveRevision(rev)
	if err != nil {
		return "", err
	}
	return git.ShowFile(sha, path)
}

// SnapshotAt re-runs tag parsing and block resolution against the file's
// text at a revision and returns the resulting FileRecord.
func (r *Reader) SnapshotAt(path, rev string) (*models.FileRecord, error) {
	revision := models.WorkingTree
	if rev != "" && rev != models.WorkingTree {
		sha, err := git.ResolveRevision(rev)
		if err != nil {
			return nil, err
		}
		revision = sha
	}

	text, err := r.FileAt(path, revision)
	if err != nil {
		return nil, err
	}

	return blocks.Resolve(path, revision, text, tagparse.StylesFor(path))
}

// CommitRecordAt reads the ledger entry for a revision
func (r *Reader) CommitRecordAt(rev string) (*models.CommitRecord, error) {
	return r.Store.Read(rev)
}

// SnapshotAll resolves FileRecords for every tracked file at a revision.
// Per-file resolution errors are collected, never aborting the scan.
func (r *Reader) SnapshotAll(rev string) ([]*models.FileRecord, []error) {
	var paths []string
	var err error

	if rev == "" || rev == models.WorkingTree {
		paths, err = git.ListFiles()
	} else {
		paths, err = git.ListFilesAt(rev)
	}
	if err != nil {
		return nil, []error{err}
	}

	var records []*models.FileRecord
	var errs []error
	for _, path := range paths {
		record, err := r.SnapshotAt(path, rev)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, record)
	}
	return records, errs
}
