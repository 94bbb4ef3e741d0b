package analysis

import (
	"sort"

	"github.com/pders01/git-provenance/internal/models"
	"github.com/pders01/git-provenance/internal/requirements"
)

// UnknownTitle marks requirement IDs referenced by code but absent from
// the requirements collaborator.
const UnknownTitle = "(unknown)"

// StatusUnimplemented is the review status for requirements known to the
// collaborator but linked to no code at all.
const StatusUnimplemented models.ReviewStatus = "unimplemented"

type rowAccum struct {
	commits     []string
	files       []string
	tests       []string
	seenCommit  map[string]bool
	seenFile    map[string]bool
	seenTest    map[string]bool
	totalLines  int // non-blank lines of contributing files
	aiLines     int
	hasAI       bool
	anyUnreview bool
}

func newRowAccum() *rowAccum {
	return &rowAccum{
		seenCommit: make(map[string]bool),
		seenFile:   make(map[string]bool),
		seenTest:   make(map[string]bool),
	}
}

func (r *rowAccum) addCommit(id string) {
	if id != "" && !r.seenCommit[id] {
		r.seenCommit[id] = true
		r.commits = append(r.commits, id)
	}
}

func (r *rowAccum) addFile(path string) {
	if path != "" && !r.seenFile[path] {
		r.seenFile[path] = true
		r.files = append(r.files, path)
	}
}

func (r *rowAccum) addTests(ids []string) {
	for _, id := range ids {
		if !r.seenTest[id] {
			r.seenTest[id] = true
			r.tests = append(r.tests, id)
		}
	}
}

// TraceMatrix groups commit records and file-level tags by requirement
// ID, producing one TraceEntry per ID. Requirement IDs known only to the
// collaborator appear with empty link sets; IDs referenced by code but
// unknown to the collaborator are flagged, never dropped.
//
// AI percentage per row is the weighted average over contributing files:
// the sum of AI non-blank lines over the sum of non-blank lines of every
// file whose tags reference the requirement.
func TraceMatrix(commits []*models.CommitRecord, files []*models.FileRecord, reqs []requirements.Requirement) []models.TraceEntry {
	rows := make(map[string]*rowAccum)
	row := func(id string) *rowAccum {
		if r, ok := rows[id]; ok {
			return r
		}
		r := newRowAccum()
		rows[id] = r
		return r
	}

	for _, rec := range commits {
		for _, id := range rec.Trace {
			r := row(id)
			r.addCommit(rec.CommitID)
			for _, path := range rec.Files {
				r.addFile(path)
			}
			r.addTests(rec.Tests)
			if rec.Tool != "" {
				r.hasAI = true
				if !rec.Reviewed() {
					r.anyUnreview = true
				}
			}
		}
	}

	for _, f := range files {
		counted := make(map[string]bool)
		for i := range f.Blocks {
			tag := f.Blocks[i].Tag
			if tag == nil {
				continue
			}
			for _, id := range tag.Trace {
				r := row(id)
				r.addFile(f.Path)
				r.addTests(tag.Tests)
				r.hasAI = true
				if !tag.Reviewed() {
					r.anyUnreview = true
				}
				if !counted[id] {
					counted[id] = true
					r.totalLines += f.NonBlankLines()
					r.aiLines += f.AINonBlankLines()
				}
			}
		}
	}

	byID := make(map[string]requirements.Requirement, len(reqs))
	for _, req := range reqs {
		byID[req.ID] = req
		if _, linked := rows[req.ID]; !linked {
			rows[req.ID] = newRowAccum()
		}
	}

	ids := make([]string, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]models.TraceEntry, 0, len(ids))
	for _, id := range ids {
		r := rows[id]
		entry := models.TraceEntry{
			RequirementID: id,
			Commits:       r.commits,
			Files:         r.files,
			Tests:         r.tests,
		}

		if req, ok := byID[id]; ok {
			entry.Title = req.Title
			entry.Status = req.Status
		} else {
			entry.Title = UnknownTitle
			entry.Unknown = true
		}

		if r.totalLines > 0 {
			entry.AIPercentage = float64(r.aiLines) / float64(r.totalLines) * 100
		}

		entry.ReviewStatus = reviewStatus(r)
		entries = append(entries, entry)
	}

	return entries
}

func reviewStatus(r *rowAccum) models.ReviewStatus {
	switch {
	case len(r.commits) == 0 && len(r.files) == 0:
		return StatusUnimplemented
	case len(r.tests) == 0:
		return models.StatusNoTests
	case r.anyUnreview:
		return models.StatusNeedsReview
	case r.hasAI:
		return models.StatusReviewed
	default:
		return models.StatusComplete
	}
}
