package protos

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Extractor:
// - Plain function definition emits its trimmed signature with ";"
// - static functions are suppressed
// - Pointer-returning functions are emitted like value-returning ones
// - Several definitions come out in source order, static ones dropped
// - Empty input emits nothing and succeeds
// - Prototypes without a body never match
// - Debug mode only adds trace lines, never changes prototype lines
// - Name filter drops functions and counts them
// - Multi-line signatures are flattened to one line
// - Line comments inside a signature do not end up in the prototype
// - Fixture file produces one line per exported definition
// - Cancelled context stops the pass
// - Extractor can be reused for several sources

func newTestExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()

	e, err := NewExtractor(opts...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func extractString(t *testing.T, e *Extractor, code string) (string, Stats) {
	t.Helper()

	src, err := NewSource("test.c", []byte(code))
	require.NoError(t, err)

	var buf bytes.Buffer
	stats, err := e.Extract(context.Background(), src, &buf)
	require.NoError(t, err)
	return buf.String(), stats
}

func TestExtractor_Scenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     string
		expected string
	}{
		{
			name:     "plain function",
			code:     "int foo(int x) { return x; }",
			expected: "int foo(int x);\n",
		},
		{
			name:     "static function",
			code:     "static int bar(void) { return 0; }",
			expected: "",
		},
		{
			name:     "pointer returning function",
			code:     "int *baz(void) { return 0; }",
			expected: "int *baz(void);\n",
		},
		{
			name:     "mixed linkage in source order",
			code:     "int foo(int x) { return x; }\nstatic void bar() {}\nint baz() { return 1; }",
			expected: "int foo(int x);\nint baz();\n",
		},
		{
			name:     "empty input",
			code:     "",
			expected: "",
		},
		{
			name:     "prototype without body",
			code:     "int foo(int);",
			expected: "",
		},
		{
			name:     "surrounding whitespace trimmed",
			code:     "\n\n   unsigned long   hash(const char *s)   \n{ return 0; }\n",
			expected: "unsigned long   hash(const char *s);\n",
		},
		{
			name:     "extern storage class is kept",
			code:     "extern int shared(void) { return 1; }",
			expected: "extern int shared(void);\n",
		},
		{
			name:     "static inline is suppressed",
			code:     "static inline int clamp(int v) { return v; }",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestExtractor(t)
			got, _ := extractString(t, e, tt.code)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractor_Stats(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	_, stats := extractString(t, e, "int foo(int x) { return x; }\nstatic void bar() {}\nint *baz() { return 0; }")

	assert.Equal(t, 3, stats.Matches)
	assert.Equal(t, 2, stats.Emitted)
	assert.Equal(t, 1, stats.Static)
	assert.Equal(t, 0, stats.Filtered)
	assert.Equal(t, 0, stats.Skipped)
}

func TestExtractor_DebugOnlyAddsLines(t *testing.T) {
	t.Parallel()

	code := "int foo(int x) { return x; }\nstatic void bar() {}\nint *baz(void) { return 0; }"

	plain, _ := extractString(t, newTestExtractor(t), code)
	debug, _ := extractString(t, newTestExtractor(t, WithDebug(true)), code)

	var prototypes, traces []string
	for _, line := range strings.Split(strings.TrimSuffix(debug, "\n"), "\n") {
		if strings.HasPrefix(line, "parameters: ") {
			traces = append(traces, line)
			continue
		}
		prototypes = append(prototypes, line)
	}

	assert.Equal(t, plain, strings.Join(prototypes, "\n")+"\n")
	assert.Equal(t, []string{
		`parameters: "(int x)"`,
		`parameters: "()"`,
		`parameters: "(void)"`,
	}, traces)
}

func TestExtractor_DebugTraceInterleaves(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t, WithDebug(true))
	got, _ := extractString(t, e, "int foo(int x) { return x; }")

	assert.Equal(t, "parameters: \"(int x)\"\nint foo(int x);\n", got)
}

func TestExtractor_NameFilter(t *testing.T) {
	t.Parallel()

	filter, err := NewNameFilter([]string{"user_*", "main"}, []string{"*_internal"})
	require.NoError(t, err)

	e := newTestExtractor(t, WithNameFilter(filter))
	got, stats := extractString(t, e, strings.Join([]string{
		"int main(void) { return 0; }",
		"int user_add(int id) { return id; }",
		"int user_add_internal(int id) { return id; }",
		"void helper(void) {}",
	}, "\n"))

	assert.Equal(t, "int main(void);\nint user_add(int id);\n", got)
	assert.Equal(t, 2, stats.Emitted)
	assert.Equal(t, 2, stats.Filtered)
}

func TestExtractor_MultiLineSignature(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	got, _ := extractString(t, e, "int\nadd(int a,\n    int b)\n{\n    return a + b;\n}\n")

	assert.Equal(t, "int add(int a, int b);\n", got)
}

func TestExtractor_LineCommentInParameters(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	got, _ := extractString(t, e, strings.Join([]string{
		"int copy_n(char *dst, // destination",
		"           const char *src, // source",
		"           int n)",
		"{",
		"    return n;",
		"}",
		"",
	}, "\n"))

	assert.Equal(t, "int copy_n(char *dst, const char *src, int n);\n", got)
}

func TestExtractor_FixtureFile(t *testing.T) {
	t.Parallel()

	src, err := LoadFile("../../testdata/code/c/repository.c")
	require.NoError(t, err)

	e := newTestExtractor(t)
	var buf bytes.Buffer
	stats, err := e.Extract(context.Background(), src, &buf)
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"UserRepository *create_repository(int capacity);",
		"int add_user(UserRepository *repo, int id, const char *name);",
		"User *find_user(UserRepository *repo, int id);",
		"void free_repository(UserRepository *repo);",
	}, "\n")+"\n", buf.String())
	assert.Equal(t, 4, stats.Emitted)
	assert.Equal(t, 2, stats.Static)
}

func TestExtractor_CancelledContext(t *testing.T) {
	t.Parallel()

	src, err := NewSource("test.c", []byte("int foo(void) { return 0; }"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := newTestExtractor(t)
	var buf bytes.Buffer
	_, err = e.Extract(ctx, src, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestExtractor_Reuse(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	first, _ := extractString(t, e, "int one(void) { return 1; }")
	second, _ := extractString(t, e, "int two(void) { return 2; }")

	assert.Equal(t, "int one(void);\n", first)
	assert.Equal(t, "int two(void);\n", second)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestExtractor_WriteError(t *testing.T) {
	t.Parallel()

	src, err := NewSource("test.c", []byte("int foo(void) { return 0; }"))
	require.NoError(t, err)

	e := newTestExtractor(t)
	_, err = e.Extract(context.Background(), src, failingWriter{})
	assert.ErrorIs(t, err, assert.AnError)
}
