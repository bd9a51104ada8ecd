package finder

import (
	"regexp"
	"strings"
)

// Signal weights for the language sniffer. CanHandle is a cheap gate for
// a multi-language dispatcher, not a parser: it only needs to be right
// often enough to skip obviously foreign snippets.
const (
	strongWeight   = 3
	mediumWeight   = 2
	weakWeight     = 1
	negativeWeight = 4
	acceptScore    = 3
)

var (
	// Strong: constructs that essentially only TS/JS writes this way.
	strongSignals = []*regexp.Regexp{
		regexp.MustCompile(`\bfunction\s+\w+\s*\([^)]*\)\s*(:\s*[\w<>\[\], |&]+)?\s*\{`),
		regexp.MustCompile(`\bclass\s+\w+[^{\n]*\{`),
		regexp.MustCompile(`=>\s*\{`),
		regexp.MustCompile(`\binterface\s+\w+[^{\n]*\{`),
		regexp.MustCompile(`\benum\s+\w+\s*\{`),
		regexp.MustCompile(`\bimport\s+\{[^}]*\}\s+from\s+['"]`),
	}

	// Medium: common in TS/JS but occasionally seen elsewhere.
	mediumSignals = []*regexp.Regexp{
		regexp.MustCompile(`\b(const|let|var)\s+\w+`),
		regexp.MustCompile(`=>`),
		regexp.MustCompile(`<[A-Za-z_]\w*(\s*,\s*[A-Za-z_]\w*)*>`),
		regexp.MustCompile(`\bexport\s+(default\s+)?(class|const|function|interface)\b`),
	}

	// Weak: ambient punctuation habits.
	weakSignals = []*regexp.Regexp{
		regexp.MustCompile(`;\s*$`),
		regexp.MustCompile(`//`),
		regexp.MustCompile(`\w+\s*:\s*\w+`),
	}

	// Negative: Python shapes that rule the snippet out.
	negativeSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*def\s+\w+\s*\([^)]*\)\s*:`),
		regexp.MustCompile(`(?m)^\s*@\w+\s*$`),
		regexp.MustCompile(`(?m)^from\s+\S+\s+import\s+`),
	}

	classHeaderRe = regexp.MustCompile(`(?m)^\s*(export\s+)?(default\s+)?(abstract\s+)?class\s+[A-Za-z_$][\w$]*`)
)

// CanHandle reports whether the source looks like TypeScript or
// JavaScript. Weighted scoring: any strong signal with no negative
// signals accepts outright; otherwise the summed score must reach the
// acceptance threshold.
func (f *Finder) CanHandle(source string) bool {
	strong := countSignals(source, strongSignals)
	negative := countSignals(source, negativeSignals)

	if strong > 0 && negative == 0 {
		return true
	}

	score := strong*strongWeight +
		countSignals(source, mediumSignals)*mediumWeight +
		countWeakSignals(source)*weakWeight -
		negative*negativeWeight

	return score >= acceptScore
}

// countSignals counts how many of the patterns fire at least once.
// Each pattern contributes at most one hit so a long file full of
// semicolons cannot outvote a Python def header.
func countSignals(source string, patterns []*regexp.Regexp) int {
	hits := 0
	for _, re := range patterns {
		if re.MatchString(source) {
			hits++
		}
	}
	return hits
}

// countWeakSignals evaluates weak patterns line by line but still caps
// each pattern at one hit overall.
func countWeakSignals(source string) int {
	hits := 0
	for _, re := range weakSignals {
		for _, line := range strings.Split(source, "\n") {
			if re.MatchString(line) {
				hits++
				break
			}
		}
	}
	return hits
}

// LooksLikeClassDefinition reports whether the content contains a class
// declaration header. Purely textual: used to decide whether a snippet
// should be treated as a class body without paying for a parse.
func LooksLikeClassDefinition(content string) bool {
	return classHeaderRe.MatchString(content)
}
