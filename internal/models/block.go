package models

// BlockKind classifies a code block
type BlockKind string

const (
	KindFunction BlockKind = "function"
	KindMethod   BlockKind = "method"
	KindClass    BlockKind = "class"
	KindModule   BlockKind = "module"
	KindBlock    BlockKind = "block"
)

// Block is a contiguous line range in one file version, attributed to at
// most one Tag. Blocks are a derived view computed fresh on every analysis;
// they are never persisted.
type Block struct {
	Kind      BlockKind `json:"kind"`
	Name      string    `json:"name,omitempty"`
	StartLine int       `json:"start_line"` // 1-indexed, inclusive
	EndLine   int       `json:"end_line"`   // 1-indexed, inclusive
	IsAI      bool      `json:"is_ai"`
	NonBlank  int       `json:"non_blank"` // non-blank lines within the range
	Tag       *Tag      `json:"tag,omitempty"`
}

// Lines returns the number of lines the block covers
func (b *Block) Lines() int {
	return b.EndLine - b.StartLine + 1
}

// WorkingTree is the pseudo-revision for on-disk file contents
const WorkingTree = "working tree"

// FileRecord aggregates all Blocks plus an optional file-level Tag for one
// file at one revision. Value type: never mutated after construction.
type FileRecord struct {
	Path     string  `json:"path"`
	Revision string  `json:"revision"`
	Blocks   []Block `json:"blocks"`

	// FileTag is a tag stamped at the top of the file (before any code),
	// attributing the whole file rather than a single hunk.
	FileTag *Tag `json:"file_tag,omitempty"`

	// Warnings are per-line parse errors collected during analysis. A bad
	// tag never aborts processing of the rest of the file.
	Warnings []ParseWarning `json:"warnings,omitempty"`
}

// ParseWarning records one malformed inline tag
type ParseWarning struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
}

// NonBlankLines returns the total count of non-blank lines in the file
func (f *FileRecord) NonBlankLines() int {
	total := 0
	for i := range f.Blocks {
		total += f.Blocks[i].NonBlank
	}
	return total
}

// AINonBlankLines returns the count of non-blank lines inside AI blocks
func (f *FileRecord) AINonBlankLines() int {
	ai := 0
	for i := range f.Blocks {
		if f.Blocks[i].IsAI {
			ai += f.Blocks[i].NonBlank
		}
	}
	return ai
}

// AIPercentage computes AI-tagged non-blank lines / total non-blank lines
// as a percentage at full precision. Returns nil when the file has no
// non-blank lines (the percentage is undefined, not zero).
func (f *FileRecord) AIPercentage() *float64 {
	total := f.NonBlankLines()
	if total == 0 {
		return nil
	}
	pct := float64(f.AINonBlankLines()) / float64(total) * 100
	return &pct
}

// TraceIDs returns the union of requirement IDs across the file tag and
// all block tags, in first-seen order.
func (f *FileRecord) TraceIDs() []string {
	return f.collectIDs(func(t *Tag) []string { return t.Trace })
}

// TestIDs returns the union of test case IDs across the file tag and all
// block tags, in first-seen order.
func (f *FileRecord) TestIDs() []string {
	return f.collectIDs(func(t *Tag) []string { return t.Tests })
}

func (f *FileRecord) collectIDs(pick func(*Tag) []string) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(t *Tag) {
		if t == nil {
			return
		}
		for _, id := range pick(t) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	add(f.FileTag)
	for i := range f.Blocks {
		if f.Blocks[i].Tag != f.FileTag {
			add(f.Blocks[i].Tag)
		}
	}
	return ids
}
