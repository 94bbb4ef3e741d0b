package tagparse

import (
	"path/filepath"
	"sort"
	"strings"
)

// CommentStyle describes how provenance comments look in one language
type CommentStyle struct {
	Prefix string // leading comment marker, e.g. "#", "//", "--"
	Suffix string // closing marker for block-comment styles, e.g. "*/"
}

// prefixTable maps file extensions to comment styles. Registered table,
// not ad hoc matching: unknown extensions fall back to FallbackStyles.
var prefixTable = map[string][]CommentStyle{
	// hash-comment languages
	".py":   {{Prefix: "#"}},
	".rb":   {{Prefix: "#"}},
	".sh":   {{Prefix: "#"}},
	".bash": {{Prefix: "#"}},
	".yaml": {{Prefix: "#"}},
	".yml":  {{Prefix: "#"}},
	".toml": {{Prefix: "#"}},
	".r":    {{Prefix: "#"}},
	".ex":   {{Prefix: "#"}},
	".exs":  {{Prefix: "#"}},
	// C-style languages
	".js":    cStyles,
	".ts":    cStyles,
	".jsx":   cStyles,
	".tsx":   cStyles,
	".java":  cStyles,
	".c":     cStyles,
	".cpp":   cStyles,
	".cc":    cStyles,
	".h":     cStyles,
	".hpp":   cStyles,
	".cs":    cStyles,
	".go":    cStyles,
	".rs":    cStyles,
	".swift": cStyles,
	".kt":    cStyles,
	".scala": cStyles,
	".php":   cStyles,
	// others
	".sql": {{Prefix: "--"}},
	".lua": {{Prefix: "--"}},
	".hs":  {{Prefix: "--"}},
	".ml":  {{Prefix: "(*", Suffix: "*)"}},
}

var cStyles = []CommentStyle{
	{Prefix: "//"},
	{Prefix: "/*", Suffix: "*/"},
}

// FallbackStyles is the language-agnostic set used when no extension
// matches. Broad on purpose: tags in historical repositories must stay
// readable regardless of how the table evolves.
var FallbackStyles = []CommentStyle{
	{Prefix: "#"},
	{Prefix: "//"},
	{Prefix: "/*", Suffix: "*/"},
	{Prefix: "--"},
	{Prefix: ";"},
	{Prefix: "(*", Suffix: "*)"},
}

// StylesFor returns the comment styles registered for a file path
func StylesFor(path string) []CommentStyle {
	ext := strings.ToLower(filepath.Ext(path))
	if styles, ok := prefixTable[ext]; ok {
		return styles
	}
	return FallbackStyles
}

// PrimaryStyle returns the style used when writing a new tag into a file
func PrimaryStyle(path string) CommentStyle {
	return StylesFor(path)[0]
}

// RegisterStyle adds or replaces the comment styles for an extension.
// Extension must include the leading dot.
func RegisterStyle(ext string, styles ...CommentStyle) {
	prefixTable[strings.ToLower(ext)] = styles
}

// RegisteredExtensions returns all known extensions, sorted
func RegisteredExtensions() []string {
	exts := make([]string, 0, len(prefixTable))
	for ext := range prefixTable {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
