package finder

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// enclosingClassName walks upward from node to the nearest class or
// interface declaration and returns its name. Returns "" when the node
// sits outside any class scope.
func enclosingClassName(node *ts.Node, src []byte) string {
	decl := ancestorOfKind(node, "class_declaration", "interface_declaration")
	if decl == nil {
		return ""
	}
	return declarationName(decl, src)
}

// inClassScope reports whether the node's nearest enclosing class or
// interface carries the given name. Members of a differently named or
// nested class never pass.
func inClassScope(node *ts.Node, src []byte, className string) bool {
	return enclosingClassName(node, src) == className
}

// ancestorOfKind walks parent links upward and returns the first
// ancestor whose kind matches one of the given kinds, or nil.
func ancestorOfKind(node *ts.Node, kinds ...string) *ts.Node {
	for cur := node.Parent(); cur != nil; cur = cur.Parent() {
		kind := cur.Kind()
		for _, want := range kinds {
			if kind == want {
				return cur
			}
		}
	}
	return nil
}

// declarationName extracts the name of a declaration node via its "name"
// field. Returns "" when the grammar attaches no name.
func declarationName(decl *ts.Node, src []byte) string {
	name := decl.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	return name.Utf8Text(src)
}
