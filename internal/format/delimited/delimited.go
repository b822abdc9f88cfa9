// Package delimited reads and writes records whose fields are separated by a delimiter
// character, one record per line, with optional escaping and no quoting.
package delimited

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/format/textio"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Config configures a delimited reader or writer.
type Config struct {
	// Delimiter separates fields, tab by default.
	Delimiter rune
	// Escape escapes the delimiter and itself; zero disables escaping.
	Escape   rune
	Comments []string
	// RecordTerminator ends written records, "\n" by default.
	RecordTerminator string
}

// DefaultConfig returns a tab delimited configuration without escaping.
func DefaultConfig() Config {
	return Config{Delimiter: '\t', RecordTerminator: "\n"}
}

func (c Config) withDefaults() Config {
	if c.Delimiter == 0 {
		c.Delimiter = '\t'
	}

	if c.RecordTerminator == "" {
		c.RecordTerminator = "\n"
	}

	return c
}

// ErrDanglingEscape is returned for a line that ends in an escape character.
var ErrDanglingEscape = errors.New("line ends with an escape character")

// Reader reads delimited records.
type Reader struct {
	cfg   Config
	lines *textio.LineReader
	c     io.Closer
}

// NewReader reads records from r. Closing the reader closes r when it is an io.Closer.
func NewReader(r io.Reader, cfg Config) *Reader {
	cfg = cfg.withDefaults()
	c, _ := r.(io.Closer)

	return &Reader{cfg: cfg, lines: textio.NewLineReader(r, cfg.Comments), c: c}
}

func (r *Reader) Read() (*parser.RawRecord, error) {
	text, line, err := r.lines.Next()
	if err != nil {
		return nil, err
	}

	fields, err := Split(text, r.cfg.Delimiter, r.cfg.Escape)
	if err != nil {
		return nil, &textio.Error{Line: line, Err: err}
	}

	return &parser.RawRecord{Fields: fields, Text: text, LineNumber: line}, nil
}

func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}

	return r.c.Close()
}

// Split splits one line into fields.
func Split(text string, delimiter, escape rune) ([]string, error) {
	if escape == 0 {
		return strings.Split(text, string(delimiter)), nil
	}

	var (
		fields  []string
		sb      strings.Builder
		escaped bool
	)

	for _, ch := range text {
		switch {
		case escaped:
			sb.WriteRune(ch)
			escaped = false
		case ch == escape:
			escaped = true
		case ch == delimiter:
			fields = append(fields, sb.String())
			sb.Reset()
		default:
			sb.WriteRune(ch)
		}
	}

	if escaped {
		return nil, ErrDanglingEscape
	}

	return append(fields, sb.String()), nil
}

// Join is the inverse of Split.
func Join(fields []string, delimiter, escape rune) string {
	if escape == 0 {
		return strings.Join(fields, string(delimiter))
	}

	replacer := strings.NewReplacer(
		string(escape), string(escape)+string(escape),
		string(delimiter), string(escape)+string(delimiter),
	)

	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = replacer.Replace(f)
	}

	return strings.Join(escaped, string(delimiter))
}

// Writer writes delimited records.
type Writer struct {
	cfg Config
	w   *bufio.Writer
	c   io.Closer
}

// NewWriter writes records to w. Closing the writer flushes it and closes w when it is
// an io.Closer.
func NewWriter(w io.Writer, cfg Config) *Writer {
	c, _ := w.(io.Closer)

	return &Writer{cfg: cfg.withDefaults(), w: bufio.NewWriter(w), c: c}
}

func (w *Writer) Write(rec *parser.RawRecord) error {
	if _, err := w.w.WriteString(Join(rec.Fields, w.cfg.Delimiter, w.cfg.Escape)); err != nil {
		return err
	}

	_, err := w.w.WriteString(w.cfg.RecordTerminator)

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
