package beanio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kevinseim/beanio-sub003/internal/format"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Reader reads bound objects from a record stream.
type Reader struct {
	session *parser.Session
	in      parser.RecordReader
	logger  *slog.Logger
	eof     bool
}

// NewReader starts reading stream name from r. Closing the reader closes r when it is an
// io.Closer.
func (f *Factory) NewReader(name string, r io.Reader) (*Reader, error) {
	m, err := f.lookup(name)
	if err != nil {
		return nil, err
	}

	if !m.stream.Mode.CanRead() {
		return nil, fmt.Errorf("stream %q: %w", name, parser.ErrWriteOnly)
	}

	in, err := format.NewReader(m.format, m.config, r)
	if err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}

	return &Reader{
		session: parser.NewSession(m.stream),
		in:      in,
		logger:  f.logger.With("stream", name),
	}, nil
}

// Read returns the next bound object, or io.EOF once the input is exhausted and every
// mandatory record has occurred. A record that fails validation returns
// *parser.InvalidRecordError and reading may continue; sequencing errors are final.
func (r *Reader) Read() (any, error) {
	if r.eof {
		return nil, io.EOF
	}

	for {
		rec, err := r.in.Read()
		if errors.Is(err, io.EOF) {
			r.eof = true

			if err := r.session.Close(); err != nil {
				return nil, err
			}

			return nil, io.EOF
		}

		if err != nil {
			return nil, err
		}

		obj, err := r.session.Read(rec)

		var unidentified *parser.UnidentifiedRecordError
		if errors.As(err, &unidentified) && r.ignoresUnidentified() {
			r.logger.Debug("skipped unidentified record", "line", rec.LineNumber)
			continue
		}

		return obj, err
	}
}

// Skip reads past up to n records without binding or validating them and returns how
// many were skipped. Reaching the end of the input early is not an error; the next Read
// then returns io.EOF.
func (r *Reader) Skip(n int) (int, error) {
	skipped := 0

	for skipped < n && !r.eof {
		rec, err := r.in.Read()
		if errors.Is(err, io.EOF) {
			r.eof = true
			break
		}

		if err != nil {
			return skipped, err
		}

		// Unmatched records are skipped all the same; matched ones keep the sequence.
		if _, err := r.session.Match(rec); err != nil {
			r.logger.Debug("skipped unmatched record", "line", rec.LineNumber, "error", err)
		}

		skipped++
	}

	return skipped, nil
}

func (r *Reader) ignoresUnidentified() bool {
	s := r.session.Stream()

	return s.IgnoreUnidentified && !s.Strict
}

// RecordName is the name of the last record read.
func (r *Reader) RecordName() string { return r.session.RecordName() }

// LineNumber is the line the last record read started on.
func (r *Reader) LineNumber() int { return r.session.LineNumber() }

// RecordContext details the last record read, including its validation errors.
func (r *Reader) RecordContext() *parser.RecordContext { return r.session.Context() }

func (r *Reader) Close() error {
	return r.in.Close()
}
