package finder

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/codefind/pkg/parser/queries"
)

// ParameterInfo describes one declared parameter of a function or
// method.
type ParameterInfo struct {
	// Name is the parameter identifier.
	Name string
	// Type is the annotation text without the leading colon; empty when
	// the parameter is untyped.
	Type string
	// Optional marks a `?` parameter.
	Optional bool
	// Default is the default-value expression text; empty when absent.
	Default string
}

// ReturnInfo describes what a function or method returns.
type ReturnInfo struct {
	// ReturnType is the annotation text without the leading colon; empty
	// when unannotated.
	ReturnType string
	// ReturnExpressions lists the expression text of every return
	// statement in the body, in source order. For an arrow function with
	// an expression body this is the implicit return expression.
	ReturnExpressions []string
}

// FunctionParameters extracts the parameter list of a function or, when
// className is non-empty, of a method inside that class. A nil slice
// means the function was not found; a found function with no parameters
// yields an empty slice.
func (f *Finder) FunctionParameters(source, functionName, className string) ([]ParameterInfo, error) {
	doc, err := f.parse(source)
	if err != nil {
		return nil, err
	}
	defer doc.close()

	fn, err := f.locateFunction(doc, functionName, className)
	if err != nil || fn == nil {
		return nil, err
	}

	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return []ParameterInfo{}, nil
	}

	out := []ParameterInfo{}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		child := params.NamedChild(i)
		if child == nil {
			continue
		}
		if info, ok := classifyParameter(child, doc.src); ok {
			out = append(out, info)
		}
	}
	return out, nil
}

// FunctionReturnInfo extracts the return-type annotation and every
// return expression of a function or method. Returns nil when the
// function is not found.
func (f *Finder) FunctionReturnInfo(source, functionName, className string) (*ReturnInfo, error) {
	doc, err := f.parse(source)
	if err != nil {
		return nil, err
	}
	defer doc.close()

	fn, err := f.locateFunction(doc, functionName, className)
	if err != nil || fn == nil {
		return nil, err
	}

	info := &ReturnInfo{}
	if annotation := fn.ChildByFieldName("return_type"); annotation != nil {
		info.ReturnType = annotationText(annotation, doc.src)
	}

	body := fn.ChildByFieldName("body")
	if body == nil {
		return info, nil
	}
	if body.Kind() != "statement_block" {
		// Arrow function with an expression body: the body is the
		// implicit return expression.
		info.ReturnExpressions = append(info.ReturnExpressions, body.Utf8Text(doc.src))
		return info, nil
	}

	collectReturns(body, doc.src, &info.ReturnExpressions)
	return info, nil
}

// locateFunction finds the callable node for a name: the
// function_declaration or arrow/function expression for standalone
// functions, the method_definition for class members. Returns nil when
// nothing matches.
func (f *Finder) locateFunction(doc *document, functionName, className string) (*ts.Node, error) {
	kind := queries.KindFunctions
	if className != "" {
		kind = queries.KindMethods
	}

	matches, err := f.runQuery(doc, kind)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		nc := matches[i].NameCapture()
		def := matches[i].DefinitionCapture()
		if nc == nil || def == nil || nc.Text != functionName {
			continue
		}
		if className != "" && !inClassScope(nc.Node, doc.src, className) {
			continue
		}
		return callableNode(def.Node), nil
	}
	return nil, nil
}

// callableNode resolves a definition capture to the node carrying the
// parameters and body fields. For `const f = () => {}` the capture is
// the whole lexical_declaration and the arrow function sits under the
// declarator's value field.
func callableNode(def *ts.Node) *ts.Node {
	switch def.Kind() {
	case "function_declaration", "method_definition", "arrow_function", "function_expression":
		return def
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < def.NamedChildCount(); i++ {
			child := def.NamedChild(i)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			if value := child.ChildByFieldName("value"); value != nil {
				return value
			}
		}
	}
	return def
}

// classifyParameter converts one formal_parameters child into a
// ParameterInfo. Unrecognized shapes (rest patterns, destructuring) are
// reported verbatim by their source text with no type information.
func classifyParameter(node *ts.Node, src []byte) (ParameterInfo, bool) {
	switch node.Kind() {
	case "identifier":
		return ParameterInfo{Name: node.Utf8Text(src)}, true

	case "required_parameter", "optional_parameter":
		info := ParameterInfo{Optional: node.Kind() == "optional_parameter"}
		if pattern := node.ChildByFieldName("pattern"); pattern != nil {
			info.Name = pattern.Utf8Text(src)
		}
		if annotation := node.ChildByFieldName("type"); annotation != nil {
			info.Type = annotationText(annotation, src)
		}
		if value := node.ChildByFieldName("value"); value != nil {
			info.Default = value.Utf8Text(src)
		}
		return info, true

	case "assignment_pattern":
		// JavaScript defaulted parameter: left = right.
		info := ParameterInfo{}
		if left := node.ChildByFieldName("left"); left != nil {
			info.Name = left.Utf8Text(src)
		}
		if right := node.ChildByFieldName("right"); right != nil {
			info.Default = right.Utf8Text(src)
		}
		return info, true
	}

	text := strings.TrimSpace(node.Utf8Text(src))
	if text == "" {
		return ParameterInfo{}, false
	}
	return ParameterInfo{Name: text}, true
}

// annotationText strips the leading colon from a type_annotation node's
// text.
func annotationText(annotation *ts.Node, src []byte) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(annotation.Utf8Text(src)), ":"))
}

// collectReturns walks a body subtree appending every return
// statement's expression text, in source order. Bare `return;` carries
// no expression and is skipped.
func collectReturns(node *ts.Node, src []byte, out *[]string) {
	if node.Kind() == "return_statement" {
		if expr := node.NamedChild(0); expr != nil {
			*out = append(*out, expr.Utf8Text(src))
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			collectReturns(child, src, out)
		}
	}
}
