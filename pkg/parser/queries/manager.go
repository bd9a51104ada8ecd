// Package queries provides tree-sitter query compilation, caching, and
// execution for the structural element lookups.
package queries

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/parser/queries/elements"
)

// ErrUnsupported is returned when a query kind does not exist for a
// language (e.g. interface queries for JavaScript). Callers treat it as
// "no matches possible", not as a failure.
var ErrUnsupported = errors.New("query kind not supported for language")

// Kind identifies which element query to execute.
type Kind int

const (
	// KindFunctions matches named functions and arrow-consts
	KindFunctions Kind = iota
	// KindClasses matches class declarations
	KindClasses
	// KindMethods matches method definitions (including accessors)
	KindMethods
	// KindFields matches class field declarations
	KindFields
	// KindInterfaces matches interface declarations (TypeScript only)
	KindInterfaces
	// KindTypeAliases matches type alias declarations (TypeScript only)
	KindTypeAliases
	// KindImports matches whole import statements
	KindImports
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindFunctions:
		return "functions"
	case KindClasses:
		return "classes"
	case KindMethods:
		return "methods"
	case KindFields:
		return "fields"
	case KindInterfaces:
		return "interfaces"
	case KindTypeAliases:
		return "type_aliases"
	case KindImports:
		return "imports"
	default:
		return "unknown"
	}
}

// queryKey uniquely identifies a compiled query.
// The TSX grammar is a distinct language as far as tree-sitter query
// compilation is concerned, so the dialect is part of the key.
type queryKey struct {
	lang  parser.Language
	isTSX bool
	kind  Kind
}

// Manager compiles and caches tree-sitter queries.
//
// Queries are compiled lazily on first use and cached per
// (language, dialect, kind). Thread-safe via double-checked locking.
//
// Usage:
//
//	qm := NewManager(parserManager, logger)
//	defer qm.Close()
//
//	query, err := qm.Get(parser.LanguageTypeScript, false, KindMethods)
//	if err != nil {
//	    return err
//	}
//	matches, err := qm.Execute(tree, query, sourceCode)
type Manager struct {
	parsers *parser.Manager
	cache   map[queryKey]*ts.Query
	mutex   sync.RWMutex
	logger  *slog.Logger
}

// NewManager creates a new query manager. The parser manager is required
// to access grammar pointers for query compilation. Logger can be nil.
func NewManager(pm *parser.Manager, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		parsers: pm,
		cache:   make(map[queryKey]*ts.Query),
		logger:  logger,
	}
}

// Get returns a compiled query for the given language, dialect and kind.
//
// Returns ErrUnsupported (wrapped) when the language has no query for the
// kind. A compilation failure is a bug in the pattern constants and is
// returned as a hard error.
func (m *Manager) Get(lang parser.Language, isTSX bool, kind Kind) (*ts.Query, error) {
	key := queryKey{lang: lang, isTSX: isTSX, kind: kind}

	// Fast path: query already compiled (read lock).
	m.mutex.RLock()
	query, exists := m.cache[key]
	m.mutex.RUnlock()

	if exists {
		return query, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Double-check: another goroutine may have compiled it.
	if query, exists = m.cache[key]; exists {
		return query, nil
	}

	queryString, err := queryString(lang, kind)
	if err != nil {
		return nil, err
	}

	langPtr, err := m.parsers.GetLanguagePointer(lang, isTSX)
	if err != nil {
		return nil, fmt.Errorf("failed to get language pointer for %s: %w", lang, err)
	}

	query, qerr := ts.NewQuery(ts.NewLanguage(langPtr), queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", kind, lang, qerr.Message)
	}

	m.cache[key] = query

	m.logger.Debug("compiled query",
		"language", lang.String(),
		"isTSX", isTSX,
		"kind", kind.String())

	return query, nil
}

// queryString returns the pattern constant for a language and kind.
func queryString(lang parser.Language, kind Kind) (string, error) {
	switch lang {
	case parser.LanguageTypeScript:
		switch kind {
		case KindFunctions:
			return elements.TSFunctionQueries, nil
		case KindClasses:
			return elements.TSClassQueries, nil
		case KindMethods:
			return elements.TSMethodQueries, nil
		case KindFields:
			return elements.TSFieldQueries, nil
		case KindInterfaces:
			return elements.TSInterfaceQueries, nil
		case KindTypeAliases:
			return elements.TSTypeAliasQueries, nil
		case KindImports:
			return elements.TSImportQueries, nil
		}
	case parser.LanguageJavaScript:
		switch kind {
		case KindFunctions:
			return elements.JSFunctionQueries, nil
		case KindClasses:
			return elements.JSClassQueries, nil
		case KindMethods:
			return elements.JSMethodQueries, nil
		case KindFields:
			return elements.JSFieldQueries, nil
		case KindImports:
			return elements.JSImportQueries, nil
		case KindInterfaces, KindTypeAliases:
			return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, lang, kind)
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnsupported, lang, kind)
}

// Execute runs a compiled query on a parse tree and returns structured
// matches. The source parameter must be the exact byte buffer the tree was
// parsed from; all capture text is sliced from it by byte offsets.
func (m *Manager) Execute(tree *ts.Tree, query *ts.Query, source []byte) ([]Match, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, tree.RootNode(), source)
	captureNames := query.CaptureNames()

	var matches []Match
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []Capture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}
			category, field := parseCaptureName(captureName)

			captures = append(captures, Capture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &capture.Node,
				Text:     capture.Node.Utf8Text(source),
				Location: NodeLocation(&capture.Node),
			})
		}

		matches = append(matches, Match{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	return matches, nil
}

// Close releases all compiled queries. The Manager cannot be used after.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Debug("closing query manager", "queries_compiled", len(m.cache))

	for key, query := range m.cache {
		if query != nil {
			query.Close()
		}
		delete(m.cache, key)
	}

	return nil
}

// Match represents a single pattern match from query execution.
type Match struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []Capture
}

// Capture represents a single captured node from a query match.
type Capture struct {
	// Name is the full capture name (e.g., "method.name")
	Name string

	// Category is the part before the dot (e.g., "method")
	Category string

	// Field is the part after the dot (e.g., "name"); empty if no dot
	Field string

	// Node is the captured syntax node
	Node *ts.Node

	// Text is the source text of the captured node
	Text string

	// Location is the position of the captured node
	Location Location
}

// NameCapture returns the capture with Field == "name", or nil.
func (m *Match) NameCapture() *Capture {
	for i := range m.Captures {
		if m.Captures[i].Field == "name" {
			return &m.Captures[i]
		}
	}
	return nil
}

// DefinitionCapture returns the capture with Field == "definition", or nil.
func (m *Match) DefinitionCapture() *Capture {
	for i := range m.Captures {
		if m.Captures[i].Field == "definition" {
			return &m.Captures[i]
		}
	}
	return nil
}

// Location represents a position in source code.
type Location struct {
	StartLine   uint32 // 1-based line number
	StartColumn uint32 // 1-based column number
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32 // 0-based byte offset
	EndByte     uint32
}

// parseCaptureName splits "method.name" into ("method", "name").
// A name with no dot returns (name, "").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}

// NodeLocation extracts location information from a tree-sitter node.
//
// Converts tree-sitter's 0-based coordinates to 1-based line/column
// numbers; byte offsets stay 0-based for direct slicing.
func NodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()

	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
