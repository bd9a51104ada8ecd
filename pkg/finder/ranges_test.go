package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineRangeSentinel(t *testing.T) {
	assert.False(t, NotFound.Found())
	assert.Equal(t, 0, NotFound.Lines())
	assert.True(t, LineRange{Start: 1, End: 1}.Found())
	assert.Equal(t, 3, LineRange{Start: 2, End: 4}.Lines())
}

func TestEnvelope(t *testing.T) {
	a := LineRange{Start: 3, End: 5}
	b := LineRange{Start: 7, End: 9}

	assert.Equal(t, LineRange{Start: 3, End: 9}, envelope(a, b))
	assert.Equal(t, a, envelope(a, NotFound))
	assert.Equal(t, b, envelope(NotFound, b))
	assert.Equal(t, NotFound, envelope(NotFound, NotFound))
}

func TestBraceBalanceEnd(t *testing.T) {
	lines := []string{
		"class Foo {",
		"  bar() {",
		"    if (x) { y(); }",
		"  }",
		"}",
		"const after = 1;",
	}
	assert.Equal(t, 5, braceBalanceEnd(lines, 1))
	assert.Equal(t, 4, braceBalanceEnd(lines, 2))
}

func TestBraceBalanceEndNoBrace(t *testing.T) {
	lines := []string{"type ID = string;", "const x = 1;"}
	// No block opens: the start line stands alone.
	assert.Equal(t, 1, braceBalanceEnd(lines, 1))
}

func TestBraceBalanceEndUnclosed(t *testing.T) {
	lines := []string{"class Broken {", "  a = 1;"}
	assert.Equal(t, 2, braceBalanceEnd(lines, 1))
}

func TestExtractRange(t *testing.T) {
	source := "one\ntwo\nthree\nfour"

	assert.Equal(t, "two\nthree", ExtractRange(source, LineRange{Start: 2, End: 3}))
	assert.Equal(t, "", ExtractRange(source, NotFound))
	assert.Equal(t, "four", ExtractRange(source, LineRange{Start: 4, End: 10}))
	assert.Equal(t, "", ExtractRange(source, LineRange{Start: 9, End: 10}))
}
