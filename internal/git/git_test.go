package git

import (
	"errors"
	"strings"
	"testing"

	"github.com/pders01/git-provenance/internal/testutil"
)

func setupRepo(t *testing.T) *testutil.TempGitRepo {
	t.Helper()
	repo := testutil.NewTempGitRepo(t)
	t.Cleanup(repo.Cleanup)
	repo.Chdir()
	return repo
}

func TestResolveRevision(t *testing.T) {
	repo := setupRepo(t)
	sha := repo.Head()

	resolved, err := ResolveRevision("HEAD")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved != sha {
		t.Errorf("expected %s, got %s", sha, resolved)
	}

	if _, err := ResolveRevision(sha[:8]); err != nil {
		t.Errorf("short hash should resolve: %v", err)
	}

	_, err = ResolveRevision("deadbeef")
	var unknown *UnknownRevisionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRevisionError, got %v", err)
	}
	if unknown.Revision != "deadbeef" {
		t.Errorf("error names revision %s", unknown.Revision)
	}
}

func TestShowFile(t *testing.T) {
	repo := setupRepo(t)

	repo.CreateFile("auth.py", "x = 1\n")
	sha := repo.Commit("add auth")

	content, err := ShowFile(sha, "auth.py")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if content != "x = 1\n" {
		t.Errorf("unexpected content %q", content)
	}

	_, err = ShowFile(sha, "missing.py")
	var notFound *FileNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected FileNotFoundError, got %v", err)
	}
}

func TestListFilesAt(t *testing.T) {
	repo := setupRepo(t)

	repo.CreateFile("a.py", "a = 1\n")
	first := repo.Commit("add a")
	repo.CreateFile("b.py", "b = 2\n")
	repo.Commit("add b")

	files, err := ListFilesAt(first)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	joined := strings.Join(files, " ")
	if !strings.Contains(joined, "a.py") || strings.Contains(joined, "b.py") {
		t.Errorf("unexpected file list at first commit: %v", files)
	}

	current, err := ListFiles()
	if err != nil {
		t.Fatalf("ls-files failed: %v", err)
	}
	if len(current) != 3 {
		t.Errorf("expected 3 tracked files, got %v", current)
	}
}

func TestStagedFiles(t *testing.T) {
	repo := setupRepo(t)

	repo.CreateFile("README.md", "# Test Repository\nchanged\n")
	if err := AddUpdated(); err != nil {
		t.Fatalf("add -u failed: %v", err)
	}

	staged, err := StagedFiles()
	if err != nil {
		t.Fatalf("staged files failed: %v", err)
	}
	if len(staged) != 1 || staged[0] != "README.md" {
		t.Errorf("expected README.md staged, got %v", staged)
	}
}

func TestNotesRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	sha := repo.Head()

	if err := NotesAdd("test-ns", sha, "payload one"); err != nil {
		t.Fatalf("notes add failed: %v", err)
	}

	content, ok, err := NotesShow("test-ns", sha)
	if err != nil || !ok {
		t.Fatalf("notes show failed: ok=%v err=%v", ok, err)
	}
	if strings.TrimSpace(content) != "payload one" {
		t.Errorf("unexpected note %q", content)
	}

	// overwrite is allowed
	if err := NotesAdd("test-ns", sha, "payload two"); err != nil {
		t.Fatalf("notes overwrite failed: %v", err)
	}
	content, _, _ = NotesShow("test-ns", sha)
	if strings.TrimSpace(content) != "payload two" {
		t.Errorf("expected the overwrite to win, got %q", content)
	}

	pairs, err := NotesList("test-ns")
	if err != nil {
		t.Fatalf("notes list failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].CommitID != sha {
		t.Errorf("unexpected pairs %v", pairs)
	}

	if err := NotesRemove("test-ns", sha); err != nil {
		t.Fatalf("notes remove failed: %v", err)
	}
	if _, ok, _ := NotesShow("test-ns", sha); ok {
		t.Error("note still present after remove")
	}
}

func TestNotesShowAbsent(t *testing.T) {
	repo := setupRepo(t)

	_, ok, err := NotesShow("empty-ns", repo.Head())
	if err != nil {
		t.Fatalf("absence should not be an error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for a missing note")
	}
}

func TestNotesListAbsentRef(t *testing.T) {
	setupRepo(t)

	pairs, err := NotesList("never-written")
	if err != nil {
		t.Fatalf("list of an absent ref should not fail: %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected no pairs, got %v", pairs)
	}
}

func TestRefTip(t *testing.T) {
	repo := setupRepo(t)

	tip, err := RefTip("HEAD")
	if err != nil {
		t.Fatalf("ref tip failed: %v", err)
	}
	if tip != repo.Head() {
		t.Errorf("expected HEAD tip %s, got %s", repo.Head(), tip)
	}

	tip, err = RefTip("refs/notes/absent")
	if err != nil {
		t.Fatalf("absent ref should not fail: %v", err)
	}
	if tip != "" {
		t.Errorf("expected empty tip, got %s", tip)
	}
}

func TestCommitTimeAndSubject(t *testing.T) {
	repo := setupRepo(t)

	repo.CreateFile("a.py", "a = 1\n")
	sha := repo.Commit("feat: add a")

	when, err := CommitTime(sha)
	if err != nil {
		t.Fatalf("commit time failed: %v", err)
	}
	if when.IsZero() {
		t.Error("expected a non-zero commit time")
	}

	subject, err := CommitSubject(sha)
	if err != nil {
		t.Fatalf("commit subject failed: %v", err)
	}
	if subject != "feat: add a" {
		t.Errorf("unexpected subject %q", subject)
	}
}
