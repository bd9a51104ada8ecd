package finder

import (
	"strings"
)

// ClassWithUpdatedProperty returns the source with the named property of
// the named class replaced by newCode. When the property (getter and/or
// setter) exists, exactly its lines are replaced; when it does not, the
// code is inserted after the last member line of the class body with a
// blank-line separator.
//
// newCode arrives unindented; every non-blank line is re-indented to one
// level inside the class, derived from the class header's own
// indentation. Blank lines stay empty. The source is returned unchanged
// when the class does not exist.
func (f *Finder) ClassWithUpdatedProperty(source, className, propertyName, newCode string) (string, error) {
	classRange, err := f.FindClass(source, className)
	if err != nil {
		return source, err
	}
	if !classRange.Found() {
		return source, nil
	}

	propRange, err := f.FindPropertyAndSetter(source, className, propertyName)
	if err != nil {
		return source, err
	}

	lines := splitLines(source)
	indent := indentOf(lines[classRange.Start-1]) + "  "
	block := reindent(newCode, indent)

	if propRange.Found() {
		out := make([]string, 0, len(lines))
		out = append(out, lines[:propRange.Start-1]...)
		out = append(out, block...)
		out = append(out, lines[propRange.End:]...)
		return strings.Join(out, "\n"), nil
	}

	insertAfter := lastMemberLine(lines, classRange)

	out := make([]string, 0, len(lines)+len(block)+1)
	out = append(out, lines[:insertAfter]...)
	out = append(out, "")
	out = append(out, block...)
	out = append(out, lines[insertAfter:]...)
	return strings.Join(out, "\n"), nil
}

// reindent rebases a code block onto the given indentation: the block's
// common leading whitespace is stripped and indent is prefixed to every
// non-blank line, so relative indentation inside the block survives.
// Blank lines are preserved as empty lines.
func reindent(code, indent string) []string {
	raw := splitLines(strings.TrimRight(code, "\n"))

	common := ""
	first := true
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			common = indentOf(line)
			first = false
			continue
		}
		lead := indentOf(line)
		if len(lead) < len(common) {
			common = common[:len(lead)]
		}
	}

	out := make([]string, len(raw))
	for i, line := range raw {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = indent + strings.TrimPrefix(line, common)
	}
	return out
}

// lastMemberLine returns the 1-indexed line of the class's last member:
// the last line inside the body that is neither blank nor the closing
// brace. Falls back to the header line for an empty body, so insertion
// lands directly after the opening brace.
func lastMemberLine(lines []string, classRange LineRange) int {
	for i := classRange.End - 1; i > classRange.Start; i-- {
		trimmed := strings.TrimSpace(lines[i-1])
		if trimmed == "" || trimmed == "}" || trimmed == "};" {
			continue
		}
		return i
	}
	return classRange.Start
}
