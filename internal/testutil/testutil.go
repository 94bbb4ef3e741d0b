package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempGitRepo creates a temporary git repository for testing
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a new temporary git repository with one initial
// commit and a configured test user.
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "provenance-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	repo := &TempGitRepo{Path: tmpDir, T: t}

	repo.git("init")
	repo.git("config", "user.name", "Test User")
	repo.git("config", "user.email", "test@example.com")

	repo.CreateFile("README.md", "# Test Repository\n")
	repo.git("add", ".")
	repo.git("commit", "-m", "Initial commit")

	return repo
}

// Cleanup removes the temporary git repository
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// Chdir enters the repository and registers a cleanup returning to the
// previous working directory.
func (r *TempGitRepo) Chdir() {
	r.T.Helper()
	oldWd, err := os.Getwd()
	if err != nil {
		r.T.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(r.Path); err != nil {
		r.T.Fatalf("failed to enter temp repo: %v", err)
	}
	r.T.Cleanup(func() { os.Chdir(oldWd) })
}

// CreateFile creates a file in the repository
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes, returning the new commit hash
func (r *TempGitRepo) Commit(message string) string {
	r.T.Helper()
	r.git("add", ".")
	r.git("commit", "-m", message)
	return r.Head()
}

// Head returns the current HEAD commit hash
func (r *TempGitRepo) Head() string {
	r.T.Helper()
	return r.git("rev-parse", "HEAD")
}

// CommitMessage returns the full message of a commit
func (r *TempGitRepo) CommitMessage(rev string) string {
	r.T.Helper()
	return r.git("log", "-1", "--format=%B", rev)
}

// Note reads a raw note from a namespace, or "" when absent
func (r *TempGitRepo) Note(namespace, commit string) string {
	r.T.Helper()
	cmd := exec.Command("git", "notes", "--ref="+namespace, "show", commit)
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// AddNote writes a raw note into a namespace, bypassing the store
func (r *TempGitRepo) AddNote(namespace, commit, content string) {
	r.T.Helper()
	r.git("notes", "--ref="+namespace, "add", "-f", "-m", content, commit)
}

// FileContent reads a file from the working tree
func (r *TempGitRepo) FileContent(name string) string {
	r.T.Helper()
	data, err := os.ReadFile(filepath.Join(r.Path, name))
	if err != nil {
		r.T.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

func (r *TempGitRepo) git(args ...string) string {
	r.T.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.T.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output))
}
