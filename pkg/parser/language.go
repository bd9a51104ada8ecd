package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Language represents a supported programming language for parsing.
type Language int

const (
	// LanguageTypeScript represents TypeScript (.ts, .tsx files)
	LanguageTypeScript Language = iota
	// LanguageJavaScript represents JavaScript (.js, .jsx files)
	LanguageJavaScript
	// LanguageUnknown represents an unsupported language
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage detects the programming language from a file path.
// Returns LanguageUnknown if the file extension is not recognized.
func DetectLanguage(filePath string) Language {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".ts", ".mts", ".cts", ".tsx":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile checks if a file path represents a TSX file.
// TSX files use the TypeScript grammar with JSX support enabled.
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}

// jsxOpenTag matches an opening JSX tag such as "<Button" or "<div".
// HTML and component tags both start with a letter, which keeps generic
// type parameters like "<T>" or comparisons like "a < b" from matching
// when there is no corresponding closing sequence.
var jsxOpenTag = regexp.MustCompile(`<[A-Za-z][A-Za-z0-9]*[\s/>]`)

// ContainsJSX reports whether source text looks like it contains JSX
// markup. Used to pick the TSX grammar variant when parsing raw text
// without a file extension to go by.
//
// The check is a heuristic: an opening tag sequence together with a
// closing "</" sequence. Plain generics trip neither.
func ContainsJSX(source []byte) bool {
	text := string(source)
	if !strings.Contains(text, "</") && !strings.Contains(text, "/>") {
		return false
	}
	return jsxOpenTag.MatchString(text)
}

// ParseLanguageString converts a language string to a Language type.
// Returns LanguageUnknown if the string is not recognized.
func ParseLanguageString(lang string) Language {
	switch strings.ToLower(lang) {
	case "typescript", "ts":
		return LanguageTypeScript
	case "javascript", "js":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{
		LanguageTypeScript,
		LanguageJavaScript,
	}
}
