// Package beanio reads and writes streams of text records bound to Go values, as laid out
// by YAML mapping files.
//
// A Factory loads mapping files once and hands out sessions over their streams:
//
//	factory := beanio.NewFactory(beanio.WithTypes(registry))
//	if err := factory.Load("orders.yaml"); err != nil {
//		return err
//	}
//
//	reader, err := factory.NewReader("orders", file)
//	for {
//		obj, err := reader.Read()
//		if errors.Is(err, io.EOF) {
//			break
//		}
//		...
//	}
package beanio

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/internal/compiler"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
	"github.com/kevinseim/beanio-sub003/primitive"
)

var (
	// ErrUnknownStream is returned for a stream name no loaded mapping declares.
	ErrUnknownStream = errors.New("unknown stream")
	// ErrDuplicateStream is returned when two mapping files declare the same stream.
	ErrDuplicateStream = errors.New("duplicate stream")
)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger of the factory and of the sessions it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithTypes sets the class registry mapping files bind against. Without it only the map
// class is known.
func WithTypes(types *bind.Registry) Option {
	return func(f *Factory) {
		f.types = types
	}
}

// WithHandlers sets the type handler registry fields convert text with.
func WithHandlers(handlers *primitive.Registry) Option {
	return func(f *Factory) {
		f.handlers = handlers
	}
}

// Factory compiles mapping files and creates readers and writers over their streams.
// It is safe for concurrent use; concurrent loads of one file compile it once.
type Factory struct {
	logger   *slog.Logger
	types    *bind.Registry
	handlers *primitive.Registry
	compiler *compiler.Compiler

	streams sync.Map // stream name -> *mappedStream
	files   sync.Map // absolute path -> struct{}
	loads   singleflight.Group
	mu      sync.Mutex
}

type mappedStream struct {
	stream *parser.Stream
	config mapping.ParserConfig
	format mapping.Format
}

// NewFactory creates an empty factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	if f.types == nil {
		f.types = bind.NewRegistry()
	}

	if f.handlers == nil {
		f.handlers = primitive.NewRegistry()
	}

	binder := bind.NewBinder(f.types, f.handlers.Categories())
	f.compiler = compiler.New(binder, f.handlers, f.logger)

	return f
}

// Load compiles the mapping file at path, with its imports, and registers its streams.
// Loading a file again is a no-op.
func (f *Factory) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve mapping path: %w", err)
	}

	if _, done := f.files.Load(abs); done {
		f.logger.Debug("mapping already loaded", "path", abs)
		return nil
	}

	_, err, shared := f.loads.Do(abs, func() (any, error) {
		if _, done := f.files.Load(abs); done {
			return nil, nil
		}

		file, err := mapping.LoadFile(abs)
		if err != nil {
			return nil, err
		}

		if err := f.add(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		f.files.Store(abs, struct{}{})

		return nil, nil
	})

	if shared {
		f.logger.Debug("shared mapping load", "path", abs)
	}

	return err
}

// LoadBytes compiles a mapping from YAML data. Imports are not followed.
func (f *Factory) LoadBytes(data []byte) error {
	file, err := mapping.Parse(data)
	if err != nil {
		return err
	}

	return f.add(file)
}

func (f *Factory) add(file *mapping.File) error {
	res, err := f.compiler.CompileFile(file)
	if err != nil {
		return err
	}

	for _, w := range res.Diagnostics.Warnings {
		f.logger.Warn("mapping warning", "diagnostic", w.String())
	}

	byName := make(map[string]mapping.Stream, len(file.Streams))
	for _, s := range file.Streams {
		byName[s.Name] = s
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range res.Streams {
		if _, exists := f.streams.Load(s.Name); exists {
			return fmt.Errorf("%w %q", ErrDuplicateStream, s.Name)
		}
	}

	for _, s := range res.Streams {
		cfg := byName[s.Name]
		f.streams.Store(s.Name, &mappedStream{stream: s, config: cfg.Parser, format: cfg.Format})
		f.logger.Debug("registered stream", "stream", s.Name, "format", s.Format, "mode", s.Mode)
	}

	return nil
}

// Remove unregisters the stream named name and reports whether it was registered.
// Readers and writers already created over it keep working.
func (f *Factory) Remove(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.streams.LoadAndDelete(name); !ok {
		return false
	}

	f.logger.Debug("removed stream", "stream", name)

	return true
}

// Streams lists the names of the registered streams in sorted order.
func (f *Factory) Streams() []string {
	var names []string

	f.streams.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})

	slices.Sort(names)

	return names
}

// Stream returns the compiled stream named name.
func (f *Factory) Stream(name string) (*parser.Stream, bool) {
	m, err := f.lookup(name)
	if err != nil {
		return nil, false
	}

	return m.stream, true
}

func (f *Factory) lookup(name string) (*mappedStream, error) {
	v, ok := f.streams.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStream, name)
	}

	return v.(*mappedStream), nil
}
