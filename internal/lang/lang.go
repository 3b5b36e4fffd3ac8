// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and their embedded query files.
package lang

import (
	"embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/phpdoccheck/internal/model"
)

//go:embed queries/*.scm
var queryFS embed.FS

var whitespaceRe = regexp.MustCompile(`\s+`)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error

	// DocComment returns the docblock attached to a declaration node, or nil.
	DocComment func(node *sitter.Node, source []byte) *string

	// TypeRef converts a type node into a declared type. Returns nil for a
	// nil node.
	TypeRef func(node *sitter.Node, source []byte) *model.TypeRef

	// Params extracts the parameters of a method declaration node.
	Params func(node *sitter.Node, source []byte) []model.Param

	// Imports returns alias -> fully qualified name for an import node.
	Imports func(node *sitter.Node, source []byte) map[string]string
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetQuery returns the compiled tree-sitter query (safe to share across goroutines).
func (l *Language) GetQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// ForExtension returns the language name for a file extension, or "" if
// unsupported. Extensions match case-insensitively.
func ForExtension(ext string) string {
	ext = strings.ToLower(ext)
	for _, l := range Languages {
		if slices.Contains(l.Extensions, ext) {
			return l.Name
		}
	}
	return ""
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace removes runs of whitespace and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, ""))
}
