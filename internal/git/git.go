// Package git wraps the git plumbing commands the provenance engine
// needs. All commands run in the current working directory; reads are
// snapshot reads of whatever state exists at call time and no lock is
// held across calls.
package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNotARepository is returned when an operation runs outside a
// version-controlled tree.
var ErrNotARepository = errors.New("not a git repository")

// UnknownRevisionError reports a revision that could not be resolved
type UnknownRevisionError struct {
	Revision string
}

func (e *UnknownRevisionError) Error() string {
	return fmt.Sprintf("unknown revision: %s", e.Revision)
}

// FileNotFoundError reports a path absent at a given revision
type FileNotFoundError struct {
	Revision string
	Path     string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found at revision %s: %s", e.Revision, e.Path)
}

// IsGitRepo checks if current directory is inside a git repository
func IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// RepoRoot returns the repository's top-level directory
func RepoRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", ErrNotARepository
	}
	return strings.TrimSpace(string(output)), nil
}

// ResolveRevision resolves a revision expression to a full commit hash
func ResolveRevision(rev string) (string, error) {
	output, err := exec.Command("git", "rev-parse", "--verify", rev+"^{commit}").Output()
	if err != nil {
		return "", &UnknownRevisionError{Revision: rev}
	}
	return strings.TrimSpace(string(output)), nil
}

// CurrentCommit returns the current HEAD commit hash
func CurrentCommit() (string, error) {
	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current commit: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ShowFile reads a file's contents at a revision
func ShowFile(rev, path string) (string, error) {
	output, err := exec.Command("git", "show", fmt.Sprintf("%s:%s", rev, path)).Output()
	if err != nil {
		return "", &FileNotFoundError{Revision: rev, Path: path}
	}
	return string(output), nil
}

// ListFiles returns all tracked files in the working tree, relative to
// the repository root. Run via -C at the root: plain ls-files in a
// subdirectory would restrict to the subtree and return paths callers
// could not join onto RepoRoot.
func ListFiles() ([]string, error) {
	root, err := RepoRoot()
	if err != nil {
		return nil, err
	}
	output, err := exec.Command("git", "-C", root, "ls-files").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}
	return splitNonEmpty(string(output)), nil
}

// ListFilesAt returns all tracked files at a revision
func ListFilesAt(rev string) ([]string, error) {
	output, err := exec.Command("git", "ls-tree", "-r", "--name-only", rev).Output()
	if err != nil {
		return nil, &UnknownRevisionError{Revision: rev}
	}
	return splitNonEmpty(string(output)), nil
}

// CommitTime returns a commit's committer timestamp
func CommitTime(rev string) (time.Time, error) {
	output, err := exec.Command("git", "show", "-s", "--format=%ct", rev).Output()
	if err != nil {
		return time.Time{}, &UnknownRevisionError{Revision: rev}
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit time for %s: %w", rev, err)
	}
	return time.Unix(secs, 0), nil
}

// CommitSubject returns the first line of a commit's message
func CommitSubject(rev string) (string, error) {
	output, err := exec.Command("git", "show", "-s", "--format=%s", rev).Output()
	if err != nil {
		return "", &UnknownRevisionError{Revision: rev}
	}
	return strings.TrimSpace(string(output)), nil
}

// AddUpdated stages all modified tracked files
func AddUpdated() error {
	if err := exec.Command("git", "add", "-u").Run(); err != nil {
		return fmt.Errorf("failed to stage modified files: %w", err)
	}
	return nil
}

// StagedFiles returns the paths currently staged for commit
func StagedFiles() ([]string, error) {
	output, err := exec.Command("git", "diff", "--cached", "--name-only").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	return splitNonEmpty(string(output)), nil
}

// Commit creates a commit with the given message
func Commit(message string) error {
	output, err := exec.Command("git", "commit", "-m", message).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to commit: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// RefTip returns the commit a ref points to, or "" if the ref is absent
func RefTip(ref string) (string, error) {
	output, err := exec.Command("git", "rev-parse", "--verify", "-q", ref).Output()
	if err != nil {
		// exit status 1 means the ref does not exist
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve ref %s: %w", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// NotesAdd writes a note for a commit, overwriting any existing note
func NotesAdd(ref, commit, message string) error {
	output, err := exec.Command("git", "notes", "--ref="+ref, "add", "-f", "-m", message, commit).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to add note for %s: %s: %w", commit, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// NotesShow reads the note attached to a commit. Returns ok=false when no
// note exists, distinguishing absence from genuine failures.
func NotesShow(ref, commit string) (content string, ok bool, err error) {
	cmd := exec.Command("git", "notes", "--ref="+ref, "show", commit)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if strings.Contains(stderr.String(), "no note found") {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to show note for %s: %s: %w", commit, strings.TrimSpace(stderr.String()), err)
	}
	return string(output), true, nil
}

// NotePair is one entry of `git notes list`
type NotePair struct {
	NoteObject string
	CommitID   string
}

// NotesList returns all (note object, annotated commit) pairs in a
// namespace. An absent notes ref yields an empty list.
func NotesList(ref string) ([]NotePair, error) {
	tip, err := RefTip("refs/notes/" + ref)
	if err != nil {
		return nil, err
	}
	if tip == "" {
		return nil, nil
	}

	output, err := exec.Command("git", "notes", "--ref="+ref, "list").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var pairs []NotePair
	for _, line := range splitNonEmpty(string(output)) {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			pairs = append(pairs, NotePair{NoteObject: fields[0], CommitID: fields[1]})
		}
	}
	return pairs, nil
}

// NotesRemove deletes the note attached to a commit
func NotesRemove(ref, commit string) error {
	output, err := exec.Command("git", "notes", "--ref="+ref, "remove", commit).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to remove note for %s: %s: %w", commit, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// NotesMerge merges another notes ref into the namespace. Returns
// conflicted=true when git detected same-commit note conflicts and left
// them for manual resolution; it never silently picks one side.
func NotesMerge(ref, remoteRef string) (conflicted bool, err error) {
	output, err := exec.Command("git", "notes", "--ref="+ref, "merge", remoteRef).CombinedOutput()
	if err != nil {
		text := string(output)
		if strings.Contains(strings.ToLower(text), "conflict") {
			return true, nil
		}
		return false, fmt.Errorf("failed to merge notes from %s: %s: %w", remoteRef, strings.TrimSpace(text), err)
	}
	return false, nil
}

// PushRef pushes a ref to a remote
func PushRef(remote, ref string) error {
	output, err := exec.Command("git", "push", remote, ref).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to push %s to %s: %s: %w", ref, remote, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// FetchRef fetches a remote ref into a local one
func FetchRef(remote, refspec string) error {
	output, err := exec.Command("git", "fetch", remote, refspec).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to fetch %s from %s: %s: %w", refspec, remote, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// SetConfig sets a repository-local git config value
func SetConfig(key, value string) error {
	if err := exec.Command("git", "config", key, value).Run(); err != nil {
		return fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return nil
}

func splitNonEmpty(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
