// Package finder locates structural elements (functions, classes, methods,
// properties, interfaces, type aliases, JSX components) in TypeScript and
// JavaScript source text and reports their 1-indexed line ranges.
//
// Every lookup parses the given source fresh: the finder holds no state
// between calls beyond pooled parsers and compiled queries, so it is safe
// for concurrent use. Callers that look up many elements in the same file
// repeatedly should cache results themselves (see pkg/workspace).
package finder

import (
	"errors"
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/parser/queries"
)

// Finder performs structural lookups on TypeScript/JavaScript source text.
//
// The zero value is not usable; construct with NewFinder. A Finder is
// cheap to share: parsers and compiled queries are pooled internally.
type Finder struct {
	parsers *parser.Manager
	queries *queries.Manager
	logger  *slog.Logger

	// lang selects the grammar family. TypeScript is the default and
	// parses nearly all JavaScript; the JavaScript grammar is selected
	// per-file by the workspace layer for .js/.jsx files.
	lang parser.Language
}

// NewFinder creates a Finder backed by the given parser and query
// managers. Both managers are owned by the caller and must outlive the
// Finder. A nil logger falls back to slog.Default().
func NewFinder(pm *parser.Manager, qm *queries.Manager, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{
		parsers: pm,
		queries: qm,
		logger:  logger,
		lang:    parser.LanguageTypeScript,
	}
}

// WithLanguage returns a copy of the Finder that parses with the given
// grammar family. Used when the caller knows the dialect from a file
// extension.
func (f *Finder) WithLanguage(lang parser.Language) *Finder {
	clone := *f
	clone.lang = lang
	return &clone
}

// document bundles one parsed source text for the duration of a lookup.
// The tree must be closed when the lookup finishes.
type document struct {
	tree  *ts.Tree
	src   []byte
	lang  parser.Language
	isTSX bool
}

func (d *document) close() {
	if d.tree != nil {
		d.tree.Close()
	}
}

// parse produces the syntax tree and byte buffer for source. For the
// TypeScript family the TSX grammar variant is selected when the text
// contains JSX markers.
func (f *Finder) parse(source string) (*document, error) {
	src := []byte(source)

	if f.lang == parser.LanguageJavaScript {
		tree, err := f.parsers.Parse(src, parser.LanguageJavaScript, false)
		if err != nil {
			return nil, fmt.Errorf("parse javascript: %w", err)
		}
		return &document{tree: tree, src: src, lang: parser.LanguageJavaScript}, nil
	}

	tree, isTSX, err := f.parsers.ParseSource(src)
	if err != nil {
		return nil, fmt.Errorf("parse typescript: %w", err)
	}
	return &document{tree: tree, src: src, lang: parser.LanguageTypeScript, isTSX: isTSX}, nil
}

// runQuery executes the element query of the given kind against a parsed
// document. A kind the grammar does not support yields no matches.
func (f *Finder) runQuery(doc *document, kind queries.Kind) ([]queries.Match, error) {
	query, err := f.queries.Get(doc.lang, doc.isTSX, kind)
	if err != nil {
		if errors.Is(err, queries.ErrUnsupported) {
			return nil, nil
		}
		return nil, err
	}
	return f.queries.Execute(doc.tree, query, doc.src)
}

// IsCorrectSyntax reports whether the source parses without errors.
//
// Unlike every other entry point, parse failures are swallowed here and
// reported as false: the method's contract is a plain boolean verdict.
func (f *Finder) IsCorrectSyntax(source string) bool {
	doc, err := f.parse(source)
	if err != nil {
		return false
	}
	defer doc.close()

	return !doc.tree.RootNode().HasError()
}

// Element is one named element found in source text, as returned by the
// listing operations. The line range is copied out of the syntax node so
// the value stays valid after the backing tree is released.
type Element struct {
	Name  string
	Kind  string
	Range LineRange
}
