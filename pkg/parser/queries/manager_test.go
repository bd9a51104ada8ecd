package queries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/codefind/pkg/parser"
)

const sampleTS = `import { thing } from "./thing";

function topLevel(a: number): number {
  return a * 2;
}

const arrowFn = (x: string) => x.length;

class Widget {
  size: number = 0;

  get label(): string {
    return "widget";
  }

  render(): void {}
}

interface Shape {
  area(): number;
}

type ID = string | number;
`

func newManagers(t *testing.T) (*parser.Manager, *Manager) {
	t.Helper()
	pm := parser.NewManager(nil)
	t.Cleanup(func() { pm.Close() })
	qm := NewManager(pm, nil)
	t.Cleanup(func() { qm.Close() })
	return pm, qm
}

func runKind(t *testing.T, kind Kind) []Match {
	t.Helper()
	pm, qm := newManagers(t)

	source := []byte(sampleTS)
	tree, err := pm.Parse(source, parser.LanguageTypeScript, false)
	require.NoError(t, err)
	t.Cleanup(func() { tree.Close() })

	query, err := qm.Get(parser.LanguageTypeScript, false, kind)
	require.NoError(t, err)

	matches, err := qm.Execute(tree, query, source)
	require.NoError(t, err)
	return matches
}

func matchNames(matches []Match) []string {
	var names []string
	for i := range matches {
		if nc := matches[i].NameCapture(); nc != nil {
			names = append(names, nc.Text)
		}
	}
	return names
}

func TestFunctionQuery(t *testing.T) {
	names := matchNames(runKind(t, KindFunctions))
	assert.Contains(t, names, "topLevel")
	assert.Contains(t, names, "arrowFn")
	assert.NotContains(t, names, "render", "methods are not functions")
}

func TestClassQuery(t *testing.T) {
	names := matchNames(runKind(t, KindClasses))
	assert.Equal(t, []string{"Widget"}, names)
}

func TestMethodQuery(t *testing.T) {
	names := matchNames(runKind(t, KindMethods))
	assert.Contains(t, names, "render")
	assert.Contains(t, names, "label", "accessors are method definitions")
}

func TestFieldQuery(t *testing.T) {
	names := matchNames(runKind(t, KindFields))
	assert.Equal(t, []string{"size"}, names)
}

func TestInterfaceAndTypeAliasQueries(t *testing.T) {
	assert.Equal(t, []string{"Shape"}, matchNames(runKind(t, KindInterfaces)))
	assert.Equal(t, []string{"ID"}, matchNames(runKind(t, KindTypeAliases)))
}

func TestImportQuery(t *testing.T) {
	matches := runKind(t, KindImports)
	require.Len(t, matches, 1)
	def := matches[0].DefinitionCapture()
	require.NotNil(t, def)
	assert.Equal(t, uint32(1), def.Location.StartLine)
}

func TestQueryCacheReuse(t *testing.T) {
	_, qm := newManagers(t)

	q1, err := qm.Get(parser.LanguageTypeScript, false, KindMethods)
	require.NoError(t, err)
	q2, err := qm.Get(parser.LanguageTypeScript, false, KindMethods)
	require.NoError(t, err)
	assert.Same(t, q1, q2, "compiled query should be cached")
}

func TestUnsupportedKindForJavaScript(t *testing.T) {
	_, qm := newManagers(t)

	_, err := qm.Get(parser.LanguageJavaScript, false, KindInterfaces)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestJavaScriptFieldQuery(t *testing.T) {
	pm, qm := newManagers(t)

	source := []byte("class Counter {\n  count = 0;\n  inc() { this.count++; }\n}\n")
	tree, err := pm.Parse(source, parser.LanguageJavaScript, false)
	require.NoError(t, err)
	defer tree.Close()

	query, err := qm.Get(parser.LanguageJavaScript, false, KindFields)
	require.NoError(t, err)

	matches, err := qm.Execute(tree, query, source)
	require.NoError(t, err)
	assert.Equal(t, []string{"count"}, matchNames(matches))
}
