package protos

import (
	"context"
	"errors"
	"fmt"
	"io"

	sitter "github.com/tree-sitter/go-tree-sitter"
	c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	"go.uber.org/zap"
)

// ErrParseFailed is returned when tree-sitter produces no tree at all.
var ErrParseFailed = errors.New("tree-sitter failed to parse source")

// Stats summarises one extraction pass.
type Stats struct {
	Matches  int // query matches seen
	Emitted  int // prototypes written
	Static   int // dropped for internal linkage
	Filtered int // dropped by the name filter
	Skipped  int // matches without a definition or body
}

// Extractor turns C source into prototypes for its externally visible
// functions. An Extractor reuses one parser and is not safe for concurrent
// use.
type Extractor struct {
	language *sitter.Language
	parser   *sitter.Parser
	registry *Registry

	debug  bool
	names  *NameFilter
	logger *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDebug enables the trace of unclassified captures.
func WithDebug(debug bool) Option {
	return func(e *Extractor) {
		e.debug = debug
	}
}

// WithNameFilter restricts output to functions the filter keeps.
func WithNameFilter(f *NameFilter) Option {
	return func(e *Extractor) {
		e.names = f
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor loads the C grammar and compiles the function definition
// query. Any failure here is fatal for the run.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		language: sitter.NewLanguage(c.Language()),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.parser = sitter.NewParser()
	if err := e.parser.SetLanguage(e.language); err != nil {
		e.parser.Close()
		return nil, fmt.Errorf("failed to load C grammar: %w", err)
	}

	registry, err := NewRegistry(e.language)
	if err != nil {
		e.parser.Close()
		return nil, err
	}
	e.registry = registry

	for _, role := range roles {
		if _, ok := registry.Index(role); !ok {
			e.logger.Warn("role not captured by query", zap.Stringer("role", role))
		}
	}

	return e, nil
}

// Extract parses src and writes one prototype line per exported function to
// w, in the order the query cursor yields matches. With debug enabled,
// unclassified captures are written to w as they are resolved.
func (e *Extractor) Extract(ctx context.Context, src *Source, w io.Writer) (Stats, error) {
	var stats Stats

	tree := e.parser.Parse(src.Bytes(), nil)
	if tree == nil {
		return stats, fmt.Errorf("%w: %s", ErrParseFailed, src.Name)
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	out := &output{w: w}
	var unclassified UnclassifiedFunc
	if e.debug {
		unclassified = out.trace(src)
	}

	matches := cursor.Matches(e.registry.Query(), tree.RootNode(), src.Bytes())
	for match := matches.Next(); match != nil; match = matches.Next() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Matches++

		rec := e.registry.Resolve(match.Captures, unclassified)
		switch {
		case !rec.Complete():
			stats.Skipped++
		case !rec.Exported(src):
			stats.Static++
		case !e.names.Keep(rec.FunctionName(src)):
			stats.Filtered++
		default:
			out.prototype(rec, src)
			stats.Emitted++
		}

		if out.err != nil {
			return stats, fmt.Errorf("failed to write output: %w", out.err)
		}
	}

	e.logger.Debug("extracted prototypes",
		zap.String("source", src.Name),
		zap.Int("bytes", src.Len()),
		zap.Int("matches", stats.Matches),
		zap.Int("emitted", stats.Emitted),
		zap.Int("static", stats.Static),
		zap.Int("filtered", stats.Filtered),
		zap.Int("skipped", stats.Skipped),
	)

	return stats, nil
}

// Close releases the parser and the compiled query.
func (e *Extractor) Close() {
	if e.registry != nil {
		e.registry.Close()
	}
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
}
