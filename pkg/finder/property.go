package finder

import (
	"unicode"
	"unicode/utf8"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/codefind/pkg/parser/queries"
)

// FindProperty returns the line range of a class property. Three forms
// are unified under one name, tried in order until one matches:
//
//  1. a field declaration `x: number`
//  2. a conventionally named getter method `get_x()` / `getX()`
//  3. an accessor method `get x()`
//
// All three apply the same class-scope filter as FindMethod.
func (f *Finder) FindProperty(source, className, propertyName string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	if r, err := f.findScopedDefinition(doc, queries.KindFields, propertyName, className); err != nil || r.Found() {
		return r, err
	}

	for _, name := range accessorNames("get", propertyName) {
		if r, err := f.findScopedDefinition(doc, queries.KindMethods, name, className); err != nil || r.Found() {
			return r, err
		}
	}

	return f.findAccessorMethod(doc, className, propertyName, "get")
}

// FindPropertySetter returns the line range of a property's setter,
// matching either the `set_x()` / `setX()` naming convention or an
// accessor method `set x(v)`.
func (f *Finder) FindPropertySetter(source, className, propertyName string) (LineRange, error) {
	doc, err := f.parse(source)
	if err != nil {
		return NotFound, err
	}
	defer doc.close()

	for _, name := range accessorNames("set", propertyName) {
		if r, err := f.findScopedDefinition(doc, queries.KindMethods, name, className); err != nil || r.Found() {
			return r, err
		}
	}

	return f.findAccessorMethod(doc, className, propertyName, "set")
}

// FindPropertyAndSetter returns the envelope covering both a property's
// getter form and its setter. With only one of the two present, that
// one's range is returned as is.
func (f *Finder) FindPropertyAndSetter(source, className, propertyName string) (LineRange, error) {
	getter, err := f.FindProperty(source, className, propertyName)
	if err != nil {
		return NotFound, err
	}
	setter, err := f.FindPropertySetter(source, className, propertyName)
	if err != nil {
		return NotFound, err
	}
	return envelope(getter, setter), nil
}

// accessorNames produces the conventional method names for a property
// accessor: get_x and getX for prefix "get" on property "x". The
// capitalization is rune-aware since identifiers are not ASCII-only.
func accessorNames(prefix, property string) []string {
	names := []string{prefix + "_" + property}
	if r, size := utf8.DecodeRuneInString(property); size > 0 {
		names = append(names, prefix+string(unicode.ToUpper(r))+property[size:])
	}
	return names
}

// findAccessorMethod locates a method whose name equals the property and
// whose definition carries the given accessor keyword token (`get` or
// `set`), scoped to the class.
func (f *Finder) findAccessorMethod(doc *document, className, propertyName, keyword string) (LineRange, error) {
	matches, err := f.runQuery(doc, queries.KindMethods)
	if err != nil {
		return NotFound, err
	}
	for i := range matches {
		nc := matches[i].NameCapture()
		def := matches[i].DefinitionCapture()
		if nc == nil || def == nil || nc.Text != propertyName {
			continue
		}
		if !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		if !hasAccessorKeyword(def.Node, keyword) {
			continue
		}
		return locationRange(def.Location), nil
	}
	return NotFound, nil
}

// hasAccessorKeyword reports whether a method_definition node carries a
// `get` or `set` keyword child. The grammar emits the keyword as an
// anonymous token before the name.
func hasAccessorKeyword(method *ts.Node, keyword string) bool {
	for i := uint(0); i < method.ChildCount(); i++ {
		child := method.Child(i)
		if child != nil && child.Kind() == keyword {
			return true
		}
	}
	return false
}
