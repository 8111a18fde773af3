package renderer

import (
	"github.com/dellyoung/lessgo/internal/strings"
)

// Serialize renders an evaluated stylesheet to CSS per §4.7. pretty=false
// selects minified output.
func Serialize(sheet *EvaluatedStylesheet, pretty bool) string {
	var b strings.Builder
	for _, imp := range sheet.Imports {
		b.WriteString(imp)
		if pretty {
			b.WriteByte('\n')
		}
	}
	if pretty && len(sheet.Imports) > 0 && hasContent(sheet.Nodes) {
		b.WriteByte('\n')
	}

	first := true
	for _, n := range sheet.Nodes {
		if !n.HasContent() && !n.StatementForm {
			continue
		}
		if pretty && !first {
			b.WriteByte('\n')
		}
		first = false
		writeNode(&b, n, 0, pretty)
	}
	return b.String()
}

func hasContent(nodes []EvaluatedNode) bool {
	for _, n := range nodes {
		if n.HasContent() || n.StatementForm {
			return true
		}
	}
	return false
}

func writeNode(b *strings.Builder, n EvaluatedNode, depth int, pretty bool) {
	indent := ""
	innerIndent := ""
	if pretty {
		indent = strings.Repeat("  ", depth)
		innerIndent = strings.Repeat("  ", depth+1)
	}

	if n.IsAtRule {
		writeAtRule(b, n, depth, pretty, indent, innerIndent)
		return
	}

	b.WriteString(indent)
	writeSelectorList(b, n.Selectors, pretty)
	b.WriteString(" {")
	if pretty {
		b.WriteByte('\n')
	}
	writeDeclarations(b, n.Declarations, innerIndent, pretty)
	if pretty {
		b.WriteString(indent)
	}
	b.WriteByte('}')
	if pretty {
		b.WriteByte('\n')
	}
}

func writeAtRule(b *strings.Builder, n EvaluatedNode, depth int, pretty bool, indent, innerIndent string) {
	b.WriteString(indent)
	b.WriteByte('@')
	b.WriteString(n.Name)
	params := n.Params
	if !pretty {
		params = collapseWhitespace(params)
	}
	if params != "" {
		b.WriteByte(' ')
		b.WriteString(params)
	}

	if n.StatementForm {
		b.WriteByte(';')
		if pretty {
			b.WriteByte('\n')
		}
		return
	}

	b.WriteString(" {")
	if pretty {
		b.WriteByte('\n')
	}
	writeDeclarations(b, n.Declarations, innerIndent, pretty)
	for _, child := range n.Children {
		if !child.HasContent() && !child.StatementForm {
			continue
		}
		writeNode(b, child, depth+1, pretty)
	}
	if pretty {
		b.WriteString(indent)
	}
	b.WriteByte('}')
	if pretty {
		b.WriteByte('\n')
	}
}

func writeDeclarations(b *strings.Builder, decls []EvaluatedDeclaration, innerIndent string, pretty bool) {
	for i, d := range decls {
		if pretty {
			b.WriteString(innerIndent)
		} else if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.Property)
		b.WriteString(": ")
		b.WriteString(d.Value)
		if d.Important {
			b.WriteString(" !important")
		}
		if pretty {
			b.WriteString(";\n")
		}
	}
}

func writeSelectorList(b *strings.Builder, selectors []string, pretty bool) {
	for i, s := range selectors {
		if i > 0 {
			if pretty {
				b.WriteString(", ")
			} else {
				b.WriteByte(',')
			}
		}
		b.WriteString(s)
	}
}

// collapseWhitespace reduces any whitespace run to a single space and trims
// the edges.
func collapseWhitespace(s string) string {
	var out []byte
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			inSpace = true
			continue
		}
		if inSpace && len(out) > 0 {
			out = append(out, ' ')
		}
		inSpace = false
		out = append(out, c)
	}
	return string(out)
}
