package finder

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/gnana997/codefind/pkg/parser/queries"
)

// FindFunction returns the line range of a named top-level function.
// Both `function name() {}` and `const name = () => {}` forms match.
func (f *Finder) FindFunction(source, name string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	return f.findNamedDefinition(doc, queries.KindFunctions, name)
}

// FindClass returns the line range of a class declaration.
//
// Classes are located textually: a header regex finds the declaration
// line and a brace-balance scan finds the closing line. Class bodies can
// nest arbitrarily deep, and whole-line extents come out of the scan
// directly instead of being reconstructed from node byte offsets.
func (f *Finder) FindClass(source, name string) (LineRange, error) {
	re, err := classPattern(name)
	if err != nil {
		return NotFound, err
	}

	lines := splitLines(source)
	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}
		start := i + 1
		return LineRange{Start: start, End: braceBalanceEnd(lines, start)}, nil
	}
	return NotFound, nil
}

func classPattern(name string) (*regexp.Regexp, error) {
	pattern := fmt.Sprintf(`^\s*(export\s+)?(default\s+)?(abstract\s+)?class\s+%s\b`, regexp.QuoteMeta(name))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile class pattern for %q: %w", name, err)
	}
	return re, nil
}

// FindMethod returns the line range of a method inside the named class.
// A same-named method in a different class never matches.
func (f *Finder) FindMethod(source, className, methodName string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	return f.findScopedDefinition(doc, queries.KindMethods, methodName, className)
}

// FindInterface returns the line range of an interface declaration.
// Always NotFound for JavaScript sources.
func (f *Finder) FindInterface(source, name string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	return f.findNamedDefinition(doc, queries.KindInterfaces, name)
}

// FindTypeAlias returns the line range of a type alias declaration.
// Always NotFound for JavaScript sources.
func (f *Finder) FindTypeAlias(source, name string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	return f.findNamedDefinition(doc, queries.KindTypeAliases, name)
}

// FindJSXComponent returns the line range of a JSX component declared as
// `const Name = ...` (optionally typed, e.g. `const Name: React.FC = ...`)
// or `class Name ...`. The extent is found by balancing both braces and
// parentheses from the header line, so multi-line JSX return expressions
// wrapped in parens are covered in full.
func (f *Finder) FindJSXComponent(source, name string) (LineRange, error) {
	quoted := regexp.QuoteMeta(name)
	headers := []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`^\s*(export\s+)?(default\s+)?const\s+%s\s*(:[^=]+)?=`, quoted)),
		regexp.MustCompile(fmt.Sprintf(`^\s*(export\s+)?(default\s+)?(abstract\s+)?class\s+%s\b`, quoted)),
		regexp.MustCompile(fmt.Sprintf(`^\s*(export\s+)?(default\s+)?function\s+%s\s*\(`, quoted)),
	}

	lines := splitLines(source)
	for i, line := range lines {
		for _, re := range headers {
			if !re.MatchString(line) {
				continue
			}
			start := i + 1
			return LineRange{Start: start, End: bracketBalanceEnd(lines, start)}, nil
		}
	}
	return NotFound, nil
}

// bracketBalanceEnd is braceBalanceEnd generalized to count parentheses
// too: arrow components like `const C = () => (\n <div/>\n);` close on
// the paren, not a brace.
func bracketBalanceEnd(lines []string, startLine int) int {
	depth := 0
	opened := false

	for i := startLine - 1; i < len(lines); i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{', '(':
				depth++
				opened = true
			case '}', ')':
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
	return len(lines)
}

// FindImportsSection returns the envelope covering every import
// statement in the source, from the first import's start line to the
// last import's end line. NotFound when the source has no imports.
func (f *Finder) FindImportsSection(source string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	matches, err := f.runQuery(doc, queries.KindImports)
	if err != nil {
		return NotFound, err
	}

	result := NotFound
	for i := range matches {
		def := matches[i].DefinitionCapture()
		if def == nil {
			continue
		}
		result = envelope(result, locationRange(def.Location))
	}
	return result, nil
}

// FindPropertiesSection returns the envelope covering the field
// declarations of the named class. Fields are assumed to precede
// methods, so collection stops at the class's first method definition:
// an arrow-function field declared after the methods is configuration,
// not state, and stays out of the section.
func (f *Finder) FindPropertiesSection(source, className string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	firstMethodLine := 0
	methods, err := f.runQuery(doc, queries.KindMethods)
	if err != nil {
		return NotFound, err
	}
	for i := range methods {
		nc := methods[i].NameCapture()
		if nc == nil || !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		line := int(nc.Location.StartLine)
		if firstMethodLine == 0 || line < firstMethodLine {
			firstMethodLine = line
		}
	}

	fields, err := f.runQuery(doc, queries.KindFields)
	if err != nil {
		return NotFound, err
	}

	result := NotFound
	for i := range fields {
		nc := fields[i].NameCapture()
		def := fields[i].DefinitionCapture()
		if nc == nil || def == nil || !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		fieldRange := locationRange(def.Location)
		if firstMethodLine > 0 && fieldRange.Start > firstMethodLine {
			continue
		}
		result = envelope(result, fieldRange)
	}
	return result, nil
}

// FindClassForMethod is the reverse lookup: given only a method name, it
// returns the name of the class declaring it. Fields holding arrow
// functions count as methods here. Returns "" when no class declares the
// name.
func (f *Finder) FindClassForMethod(methodName, source string) (string, error) {
	doc, err := f.parse(source)
	if err != nil {
		return "", err
	}
	defer doc.close()

	for _, kind := range []queries.Kind{queries.KindMethods, queries.KindFields} {
		matches, err := f.runQuery(doc, kind)
		if err != nil {
			return "", err
		}
		for i := range matches {
			nc := matches[i].NameCapture()
			if nc == nil || nc.Text != methodName {
				continue
			}
			if class := enclosingClassName(nc.Node, doc.src); class != "" {
				return class, nil
			}
		}
	}
	return "", nil
}

// ClassesFromCode lists every class declared in the source.
func (f *Finder) ClassesFromCode(source string) ([]Element, error) {
	return f.listElements(source, queries.KindClasses, "class", "")
}

// MethodsFromCode lists every method in the source regardless of class.
func (f *Finder) MethodsFromCode(source string) ([]Element, error) {
	return f.listElements(source, queries.KindMethods, "method", "")
}

// MethodsFromClass lists the methods declared by the named class.
func (f *Finder) MethodsFromClass(source, className string) ([]Element, error) {
	return f.listElements(source, queries.KindMethods, "method", className)
}

// InterfacesFromCode lists every interface declared in the source.
// Empty for JavaScript.
func (f *Finder) InterfacesFromCode(source string) ([]Element, error) {
	return f.listElements(source, queries.KindInterfaces, "interface", "")
}

// listElements runs one element query and converts the matches to
// Elements, optionally filtered to a class scope, sorted by start line.
func (f *Finder) listElements(source string, kind queries.Kind, kindName, className string) ([]Element, error) {
	doc, err := f.parse(source)
	if err != nil {
		return nil, err
	}
	defer doc.close()

	matches, err := f.runQuery(doc, kind)
	if err != nil {
		return nil, err
	}

	var out []Element
	for i := range matches {
		nc := matches[i].NameCapture()
		def := matches[i].DefinitionCapture()
		if nc == nil || def == nil {
			continue
		}
		if className != "" && !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		out = append(out, Element{
			Name:  nc.Text,
			Kind:  kindName,
			Range: locationRange(def.Location),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Range.Start < out[j].Range.Start
	})
	return out, nil
}

// findNamedDefinition returns the definition range of the first match
// whose name capture equals name. First declaration in traversal order
// wins when names collide.
func (f *Finder) findNamedDefinition(doc *document, kind queries.Kind, name string) (LineRange, error) {
	matches, err := f.runQuery(doc, kind)
	if err != nil {
		return NotFound, err
	}
	for i := range matches {
		nc := matches[i].NameCapture()
		def := matches[i].DefinitionCapture()
		if nc == nil || def == nil || nc.Text != name {
			continue
		}
		return locationRange(def.Location), nil
	}
	return NotFound, nil
}

// findScopedDefinition is findNamedDefinition plus the class-scope
// filter.
func (f *Finder) findScopedDefinition(doc *document, kind queries.Kind, name, className string) (LineRange, error) {
	matches, err := f.runQuery(doc, kind)
	if err != nil {
		return NotFound, err
	}
	for i := range matches {
		nc := matches[i].NameCapture()
		def := matches[i].DefinitionCapture()
		if nc == nil || def == nil || nc.Text != name {
			continue
		}
		if !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		return locationRange(def.Location), nil
	}
	return NotFound, nil
}
