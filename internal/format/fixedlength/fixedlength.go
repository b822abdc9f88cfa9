// Package fixedlength reads and writes records laid out by character position, one
// record per line.
package fixedlength

import (
	"bufio"
	"io"

	"github.com/kevinseim/beanio-sub003/internal/format/textio"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Config configures a fixed-length reader or writer.
type Config struct {
	Comments []string
	// RecordTerminator ends written records, "\n" by default.
	RecordTerminator string
}

// Reader reads fixed-length records.
type Reader struct {
	lines *textio.LineReader
	c     io.Closer
}

// NewReader reads records from r. Closing the reader closes r when it is an io.Closer.
func NewReader(r io.Reader, cfg Config) *Reader {
	c, _ := r.(io.Closer)

	return &Reader{lines: textio.NewLineReader(r, cfg.Comments), c: c}
}

func (r *Reader) Read() (*parser.RawRecord, error) {
	text, line, err := r.lines.Next()
	if err != nil {
		return nil, err
	}

	return &parser.RawRecord{Text: text, LineNumber: line}, nil
}

func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}

	return r.c.Close()
}

// Writer writes fixed-length records.
type Writer struct {
	terminator string
	w          *bufio.Writer
	c          io.Closer
}

// NewWriter writes records to w. Closing the writer flushes it and closes w when it is
// an io.Closer.
func NewWriter(w io.Writer, cfg Config) *Writer {
	terminator := cfg.RecordTerminator
	if terminator == "" {
		terminator = "\n"
	}

	c, _ := w.(io.Closer)

	return &Writer{terminator: terminator, w: bufio.NewWriter(w), c: c}
}

func (w *Writer) Write(rec *parser.RawRecord) error {
	if _, err := w.w.WriteString(rec.Text); err != nil {
		return err
	}

	_, err := w.w.WriteString(w.terminator)

	return err
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}

	if w.c == nil {
		return nil
	}

	return w.c.Close()
}
