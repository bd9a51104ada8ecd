package finder

import (
	"strings"

	"github.com/gnana997/codefind/pkg/parser/queries"
)

// LineRange is an inclusive span of 1-indexed line numbers in a source
// text. The zero value means "not found": lookups report absence through
// it rather than through an error.
type LineRange struct {
	Start int
	End   int
}

// NotFound is the sentinel returned when an element does not exist in the
// source. Both fields are zero, which can never describe a real element
// since line numbers start at 1.
var NotFound = LineRange{}

// Found reports whether the range describes an actual element.
func (r LineRange) Found() bool {
	return r.Start > 0
}

// Contains reports whether the 1-indexed line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return r.Found() && line >= r.Start && line <= r.End
}

// Lines returns the number of lines spanned, or 0 for NotFound.
func (r LineRange) Lines() int {
	if !r.Found() {
		return 0
	}
	return r.End - r.Start + 1
}

// envelope returns the smallest range covering both inputs. If either is
// NotFound the other is returned unchanged.
func envelope(a, b LineRange) LineRange {
	if !a.Found() {
		return b
	}
	if !b.Found() {
		return a
	}
	out := a
	if b.Start < out.Start {
		out.Start = b.Start
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}

// locationRange converts a query capture location to a line range.
func locationRange(loc queries.Location) LineRange {
	return LineRange{Start: int(loc.StartLine), End: int(loc.EndLine)}
}

// ExtractRange returns the lines of source covered by the range, joined
// with newlines. Returns "" for NotFound or a range outside the text.
func ExtractRange(source string, r LineRange) string {
	if !r.Found() {
		return ""
	}
	lines := splitLines(source)
	if r.Start > len(lines) {
		return ""
	}
	end := r.End
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[r.Start-1:end], "\n")
}

// splitLines splits source on "\n". A trailing newline does not produce a
// phantom empty final line beyond what the split yields; line N of the
// text is lines[N-1].
func splitLines(source string) []string {
	return strings.Split(source, "\n")
}

// braceBalanceEnd scans forward from startLine (1-indexed) counting curly
// braces and returns the line on which the block that opens at or after
// startLine closes. If no opening brace is ever seen the start line itself
// is returned, so a declaration with no body still yields a 1-line range.
//
// The scan is textual, so braces inside string literals or comments will
// miscount. Acceptable: the inputs are declaration headers and bodies
// where this is vanishingly rare, and the syntax-tree paths are used
// wherever precision matters.
func braceBalanceEnd(lines []string, startLine int) int {
	depth := 0
	opened := false

	for i := startLine - 1; i < len(lines); i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i + 1
		}
	}

	if !opened {
		return startLine
	}
	// Unbalanced text: the block never closes, take everything.
	return len(lines)
}

// indentOf returns the leading whitespace of a line.
func indentOf(line string) string {
	for i, ch := range line {
		if ch != ' ' && ch != '\t' {
			return line[:i]
		}
	}
	return line
}
