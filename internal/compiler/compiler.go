package compiler

import (
	"fmt"
	"log/slog"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/internal/common"
	"github.com/kevinseim/beanio-sub003/internal/diagnostic"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
	"github.com/kevinseim/beanio-sub003/primitive"
)

// Diagnostic codes reported by the compiler.
const (
	CodeUnknownClass     = "unknown_class"
	CodeAbstractClass    = "abstract_class"
	CodeUnknownProperty  = "unknown_property"
	CodeUnknownType      = "unknown_type"
	CodeInvalidDefault   = "invalid_default"
	CodeInvalidLayout    = "invalid_layout"
	CodeInvalidOrder     = "invalid_order"
	CodeInvalidOccursRef = "invalid_occurs_ref"
	CodeInvalidTarget    = "invalid_target"
	CodeInvalidKey       = "invalid_key"
	CodeCollection       = "invalid_collection"
	CodeIdentifier       = "invalid_identifier"
	CodeAmbiguousRecord  = "ambiguous_record"
	CodeTypeHandler      = "invalid_type_handler"
	CodeCompiled         = "compiled"
)

// Error is returned when a mapping has compile errors. It carries every diagnostic,
// warnings included.
type Error struct {
	Diagnostics diagnostic.Diagnostics
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid mapping: %v", e.Diagnostics.Error())
}

// Result holds the streams of a compiled mapping file and the warnings found on the way.
type Result struct {
	Streams     []*parser.Stream
	Diagnostics diagnostic.Diagnostics
}

// Stream returns the compiled stream named name.
func (r *Result) Stream(name string) (*parser.Stream, bool) {
	for _, s := range r.Streams {
		if s.Name == name {
			return s, true
		}
	}

	return nil, false
}

// Compiler compiles mapping streams against a class binder and a type handler registry.
// It is safe for concurrent use.
type Compiler struct {
	binder   *bind.Binder
	handlers *primitive.Registry
	logger   *slog.Logger
}

// New creates a compiler. Nil arguments fall back to a map-only binder, the default
// handler registry and slog.Default().
func New(binder *bind.Binder, handlers *primitive.Registry, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}

	if handlers == nil {
		handlers = primitive.NewRegistry()
	}

	if binder == nil {
		binder = bind.NewBinder(bind.NewRegistry(), handlers.Categories())
	}

	return &Compiler{binder: binder, handlers: handlers, logger: logger}
}

// CompileFile expands templates, validates the file and compiles every stream in it.
// Type handlers declared in the file are visible to its streams only.
func (c *Compiler) CompileFile(f *mapping.File) (*Result, error) {
	if err := mapping.Expand(f); err != nil {
		return nil, err
	}

	diags := mapping.Validate(f)
	if diags.HasErrors() {
		return nil, &Error{Diagnostics: *diags}
	}

	handlers := c.fileHandlers(f, diags)
	res := &Result{}

	for i := range f.Streams {
		stream, d := c.compile(&f.Streams[i], handlers)
		diags.Merge(d)

		if stream != nil {
			res.Streams = append(res.Streams, stream)
		}
	}

	res.Diagnostics = *diags

	if diags.HasErrors() {
		return nil, &Error{Diagnostics: *diags}
	}

	return res, nil
}

// Compile compiles one validated stream. Warnings are logged.
func (c *Compiler) Compile(s *mapping.Stream) (*parser.Stream, error) {
	stream, diags := c.compile(s, nil)
	if diags.HasErrors() {
		return nil, &Error{Diagnostics: diags}
	}

	for _, w := range diags.Warnings {
		c.logger.Warn("mapping warning", "stream", s.Name, "diagnostic", w.String())
	}

	return stream, nil
}

func (c *Compiler) fileHandlers(f *mapping.File, diags *diagnostic.Diagnostics) map[string]primitive.Handler {
	handlers := make(map[string]primitive.Handler, len(f.TypeHandlers))

	for _, th := range f.TypeHandlers {
		h, err := c.handlers.Lookup(th.Type, th.Format)
		if err != nil {
			diags.AddErrorf(CodeTypeHandler, mapping.Path{{Kind: "typeHandler", Name: th.Name}}.String(),
				"type handler %s: %v", common.Quote(th.Name), err)

			continue
		}

		handlers[th.Name] = h
	}

	return handlers
}

func (c *Compiler) compile(s *mapping.Stream, handlers map[string]primitive.Handler) (*parser.Stream, diagnostic.Diagnostics) {
	b := &builder{
		Compiler: c,
		handlers: handlers,
		config:   s,
		path:     mapping.StreamPath(s.Name),
	}

	strategy, err := StrategyFor(s.Format)
	if err != nil {
		b.diags.AddError(mapping.CodeInvalidFormat, b.path.String(), err.Error())
		return nil, b.diags
	}

	b.strategy = strategy

	stream := b.build()
	if b.diags.HasErrors() {
		return nil, b.diags
	}

	c.logger.Debug("compiled stream",
		"stream", stream.Name,
		"format", stream.Format,
		"nodes", stream.NodeCount,
		"records", len(stream.Records))

	b.diags.AddInfo(CodeCompiled, b.path.String(),
		fmt.Sprintf("%s stream with %d nodes and %d records", stream.Format, stream.NodeCount, len(stream.Records)))

	return stream, b.diags
}
