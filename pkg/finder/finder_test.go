package finder

import (
	"testing"

	"github.com/gnana997/codefind/pkg/parser"
	"github.com/gnana997/codefind/pkg/parser/queries"
)

// newTestFinder builds a Finder with fresh managers, cleaned up with the
// test.
func newTestFinder(t *testing.T) *Finder {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })
	qm := queries.NewManager(pm, nil)
	t.Cleanup(func() { qm.Close() })
	return NewFinder(pm, qm, nil)
}
