// Package csv reads and writes RFC 4180 records through encoding/csv.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/format/textio"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Config configures a csv reader or writer.
type Config struct {
	// Delimiter separates fields, ',' by default.
	Delimiter rune
	// Comment starts a comment line; zero disables comments.
	Comment    rune
	LazyQuotes bool
	// RecordTerminator ends written records: "\n" (default) or "\r\n".
	RecordTerminator string
}

// DefaultConfig returns comma separated, '\n' terminated records.
func DefaultConfig() Config {
	return Config{Delimiter: ',', RecordTerminator: "\n"}
}

// Validate checks the options encoding/csv supports.
func (c Config) Validate() error {
	switch c.RecordTerminator {
	case "", "\n", "\r\n":
	default:
		return fmt.Errorf("csv record terminator %q must be \\n or \\r\\n", c.RecordTerminator)
	}

	if c.Delimiter == '"' || c.Delimiter == '\r' || c.Delimiter == '\n' {
		return fmt.Errorf("invalid csv delimiter %q", c.Delimiter)
	}

	return nil
}

func (c Config) delimiter() rune {
	if c.Delimiter == 0 {
		return ','
	}

	return c.Delimiter
}

// Reader reads csv records. A quoted field may span lines; the line number of a record
// is the line it starts on.
type Reader struct {
	cfg Config
	r   *csv.Reader
	c   io.Closer
}

// NewReader reads records from r. Closing the reader closes r when it is an io.Closer.
func NewReader(r io.Reader, cfg Config) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter()
	cr.Comment = cfg.Comment
	cr.LazyQuotes = cfg.LazyQuotes
	cr.FieldsPerRecord = -1

	c, _ := r.(io.Closer)

	return &Reader{cfg: cfg, r: cr, c: c}
}

func (r *Reader) Read() (*parser.RawRecord, error) {
	fields, err := r.r.Read()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &textio.Error{Line: perr.StartLine, Err: perr.Err}
		}

		return nil, err
	}

	line, _ := r.r.FieldPos(0)

	return &parser.RawRecord{
		Fields:     fields,
		Text:       strings.Join(fields, string(r.cfg.delimiter())),
		LineNumber: line,
	}, nil
}

func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}

	return r.c.Close()
}

// Writer writes csv records, quoting fields as needed.
type Writer struct {
	w *csv.Writer
	c io.Closer
}

// NewWriter writes records to w. Closing the writer flushes it and closes w when it is
// an io.Closer.
func NewWriter(w io.Writer, cfg Config) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = cfg.delimiter()
	cw.UseCRLF = cfg.RecordTerminator == "\r\n"

	c, _ := w.(io.Closer)

	return &Writer{w: cw, c: c}
}

func (w *Writer) Write(rec *parser.RawRecord) error {
	return w.w.Write(rec.Fields)
}

func (w *Writer) Flush() error {
	w.w.Flush()

	return w.w.Error()
}

func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		return err
	}

	if w.c == nil {
		return nil
	}

	return w.c.Close()
}
