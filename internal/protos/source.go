package protos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrInvalidEncoding is returned for input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("source is not valid UTF-8")

// Source is the immutable text of one input. It is validated as UTF-8 when
// created, so every span cut from it is already valid text.
type Source struct {
	Name    string
	content []byte
}

// NewSource wraps content, rejecting anything that is not UTF-8.
func NewSource(name string, content []byte) (*Source, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidEncoding)
	}
	return &Source{Name: name, content: content}, nil
}

// ReadSource reads r to EOF in a single pass.
func ReadSource(r io.Reader, name string) (*Source, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return NewSource(name, content)
}

// LoadFile reads the file at path.
func LoadFile(path string) (*Source, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewSource(path, content)
}

// Bytes returns the underlying buffer. Callers must not modify it.
func (s *Source) Bytes() []byte {
	return s.content
}

// Len returns the size of the source in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// Span returns the text between two byte offsets. Out of range offsets are
// clamped; an inverted range yields "".
func (s *Source) Span(start, end uint) string {
	if end > uint(len(s.content)) {
		end = uint(len(s.content))
	}
	if start >= end {
		return ""
	}
	return string(s.content[start:end])
}

// Text returns the source text covered by node.
func (s *Source) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return s.Span(node.StartByte(), node.EndByte())
}
