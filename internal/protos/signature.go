package protos

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Signature returns the declaration text in front of the function body:
// the bytes from the start of the definition up to the start of the body,
// with surrounding whitespace removed. Line comments are cut out, since
// they would swallow the rest of a one-line prototype. Signatures spanning
// several lines are joined into one line, each line trimmed and separated
// by a space.
func (r Record) Signature(src *Source) string {
	if !r.Complete() {
		return ""
	}

	start, end := r.Definition.StartByte(), r.Body.StartByte()

	var b strings.Builder
	for _, comment := range lineComments(r.Definition, end, src) {
		b.WriteString(src.Span(start, comment.StartByte()))
		start = comment.EndByte()
	}
	b.WriteString(src.Span(start, end))

	sig := strings.TrimSpace(b.String())
	if !strings.Contains(sig, "\n") {
		return sig
	}

	lines := strings.Split(sig, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// lineComments returns the // comments under node that start before end,
// in source order.
func lineComments(node *sitter.Node, end uint, src *Source) []*sitter.Node {
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.StartByte() >= end {
			break
		}
		if child.Kind() == "comment" {
			if strings.HasPrefix(src.Text(child), "//") {
				out = append(out, child)
			}
			continue
		}
		out = append(out, lineComments(child, end, src)...)
	}
	return out
}

// Prototype renders the signature as a terminated declaration.
func (r Record) Prototype(src *Source) string {
	return r.Signature(src) + ";"
}

// FunctionName returns the text of the name capture. ok is false when the
// match did not capture a name.
func (r Record) FunctionName(src *Source) (name string, ok bool) {
	if r.Name == nil {
		return "", false
	}
	return src.Text(r.Name), true
}
