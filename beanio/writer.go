package beanio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/kevinseim/beanio-sub003/internal/format"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Writer writes bound objects as records. Output is buffered until Flush or Close.
type Writer struct {
	session *parser.Session
	out     parser.RecordWriter
	logger  *slog.Logger
}

// NewWriter starts writing stream name to w. Closing the writer closes w when it is an
// io.Closer.
func (f *Factory) NewWriter(name string, w io.Writer) (*Writer, error) {
	m, err := f.lookup(name)
	if err != nil {
		return nil, err
	}

	if !m.stream.Mode.CanWrite() {
		return nil, fmt.Errorf("stream %q: %w", name, parser.ErrReadOnly)
	}

	out, err := format.NewWriter(m.format, m.config, w)
	if err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}

	return &Writer{
		session: parser.NewSession(m.stream),
		out:     out,
		logger:  f.logger.With("stream", name),
	}, nil
}

// Write writes obj with the first record of the stream whose class and identifying
// literals match it.
func (w *Writer) Write(obj any) error {
	rec, err := w.session.Write(obj)
	if err != nil {
		return err
	}

	return w.out.Write(rec)
}

// WriteRecord writes obj with the named record.
func (w *Writer) WriteRecord(name string, obj any) error {
	rec, err := w.session.WriteRecord(name, obj)
	if err != nil {
		return err
	}

	return w.out.Write(rec)
}

// RecordName is the name of the last record written.
func (w *Writer) RecordName() string { return w.session.RecordName() }

// LineNumber is the number of records written.
func (w *Writer) LineNumber() int { return w.session.LineNumber() }

func (w *Writer) Flush() error {
	return w.out.Flush()
}

func (w *Writer) Close() error {
	w.logger.Debug("closing writer", "records", w.session.LineNumber())

	return w.out.Close()
}
