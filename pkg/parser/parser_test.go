package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeScript(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	source := []byte("const x: number = 1;\nfunction add(a: number, b: number): number { return a + b; }\n")
	tree, err := manager.Parse(source, LanguageTypeScript, false)
	require.NoError(t, err, "Parse should succeed")
	require.NotNil(t, tree, "Tree should not be nil")
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind(), "Root should be a program node")
	assert.False(t, root.HasError())
}

func TestParseTSX(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	source := []byte("const App = () => <div className=\"app\">hello</div>;\n")
	tree, err := manager.Parse(source, LanguageTypeScript, true)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.Contains(t, root.ToSexp(), "jsx", "TSX grammar should produce JSX nodes")
}

func TestParseJavaScript(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	source := []byte("function greet(name) { return 'hi ' + name; }\n")
	tree, err := manager.Parse(source, LanguageJavaScript, false)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, "program", tree.RootNode().Kind())
}

func TestParseSourceSelectsTSX(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	testCases := []struct {
		name      string
		source    string
		expectTSX bool
	}{
		{"plain typescript", "interface Foo { bar: string }\n", false},
		{"generic is not jsx", "function id<T>(v: T): T { return v; }\n", false},
		{"jsx element", "const App = () => <div>hello</div>;\n", true},
		{"self closing jsx", "const Icon = () => <Spinner />;\n", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree, isTSX, err := manager.ParseSource([]byte(tc.source))
			require.NoError(t, err)
			defer tree.Close()

			assert.Equal(t, tc.expectTSX, isTSX)
			assert.False(t, tree.RootNode().HasError(), "sample should parse cleanly")
		})
	}
}

func TestParseFile(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	testCases := []struct {
		fileName string
		source   string
	}{
		{"sample.ts", "const n: number = 1;\n"},
		{"sample.tsx", "const App = () => <div />;\n"},
		{"sample.js", "var n = 1;\n"},
		{"sample.jsx", "const App = () => <div />;\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.fileName, func(t *testing.T) {
			tree, err := manager.ParseFile([]byte(tc.source), tc.fileName)
			require.NoError(t, err, "ParseFile should succeed for %s", tc.fileName)
			defer tree.Close()

			assert.Equal(t, "program", tree.RootNode().Kind())
		})
	}
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	_, err := manager.ParseFile([]byte("print('hi')"), "script.py")
	assert.Error(t, err)
}

func TestLazyInitialization(t *testing.T) {
	manager := NewManager(nil)
	defer manager.Close()

	stats := manager.GetStats()
	assert.Equal(t, 0, stats.ParsersCreated, "should start with 0 parsers")

	source := []byte("const x: number = 1;")
	tree, err := manager.Parse(source, LanguageTypeScript, false)
	require.NoError(t, err)
	tree.Close()

	stats = manager.GetStats()
	assert.Equal(t, 1, stats.ParsersCreated, "should have created 1 parser")
	assert.Equal(t, 1, stats.ParsesCalled)

	// Second parse reuses the pooled parser.
	tree, err = manager.Parse(source, LanguageTypeScript, false)
	require.NoError(t, err)
	tree.Close()

	stats = manager.GetStats()
	assert.Equal(t, 1, stats.ParsersCreated, "pooled parser should be reused")
	assert.Equal(t, 2, stats.ParsesCalled)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LanguageTypeScript, DetectLanguage("a/b/c.ts"))
	assert.Equal(t, LanguageTypeScript, DetectLanguage("app.tsx"))
	assert.Equal(t, LanguageJavaScript, DetectLanguage("lib.mjs"))
	assert.Equal(t, LanguageJavaScript, DetectLanguage("widget.jsx"))
	assert.Equal(t, LanguageUnknown, DetectLanguage("main.py"))
}

func TestContainsJSX(t *testing.T) {
	assert.True(t, ContainsJSX([]byte("<div>hello</div>")))
	assert.True(t, ContainsJSX([]byte("return <Spinner size={2} />;")))
	assert.False(t, ContainsJSX([]byte("const a: Map<string, number> = new Map();")))
	assert.False(t, ContainsJSX([]byte("if (a < b && c > d) {}")))
}
