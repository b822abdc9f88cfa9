// Package format binds stream formats to the physical readers and writers of the
// delimited, csv and fixedlength packages.
package format

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kevinseim/beanio-sub003/internal/format/csv"
	"github.com/kevinseim/beanio-sub003/internal/format/delimited"
	"github.com/kevinseim/beanio-sub003/internal/format/fixedlength"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// ErrUnsupportedFormat is returned for formats without a reader or writer.
var ErrUnsupportedFormat = errors.New("unsupported format")

// NewReader returns the record reader of format f over r.
func NewReader(f mapping.Format, cfg mapping.ParserConfig, r io.Reader) (parser.RecordReader, error) {
	switch f {
	case mapping.FormatDelimited:
		c, err := delimitedConfig(cfg)
		if err != nil {
			return nil, err
		}

		return delimited.NewReader(r, c), nil

	case mapping.FormatCSV:
		c, err := csvConfig(cfg)
		if err != nil {
			return nil, err
		}

		return csv.NewReader(r, c), nil

	case mapping.FormatFixedLength:
		return fixedlength.NewReader(r, fixedLengthConfig(cfg)), nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
}

// NewWriter returns the record writer of format f over w.
func NewWriter(f mapping.Format, cfg mapping.ParserConfig, w io.Writer) (parser.RecordWriter, error) {
	switch f {
	case mapping.FormatDelimited:
		c, err := delimitedConfig(cfg)
		if err != nil {
			return nil, err
		}

		return delimited.NewWriter(w, c), nil

	case mapping.FormatCSV:
		c, err := csvConfig(cfg)
		if err != nil {
			return nil, err
		}

		return csv.NewWriter(w, c), nil

	case mapping.FormatFixedLength:
		return fixedlength.NewWriter(w, fixedLengthConfig(cfg)), nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
}

// ParseRecord reads one record from text.
func ParseRecord(f mapping.Format, cfg mapping.ParserConfig, text string) (*parser.RawRecord, error) {
	r, err := NewReader(f, cfg, strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &parser.RawRecord{Fields: []string{""}, LineNumber: 1}, nil
	}

	return rec, err
}

// FormatRecord renders one record without its terminator.
func FormatRecord(f mapping.Format, cfg mapping.ParserConfig, rec *parser.RawRecord) (string, error) {
	var sb strings.Builder

	w, err := NewWriter(f, cfg, &sb)
	if err != nil {
		return "", err
	}

	if err := w.Write(rec); err != nil {
		return "", err
	}

	if err := w.Flush(); err != nil {
		return "", err
	}

	return strings.TrimSuffix(strings.TrimSuffix(sb.String(), "\n"), "\r"), nil
}

func singleRune(name, s string, def rune) (rune, error) {
	if s == "" {
		return def, nil
	}

	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s %q must be a single character", name, s)
	}

	r, _ := utf8.DecodeRuneInString(s)

	return r, nil
}

func delimitedConfig(cfg mapping.ParserConfig) (delimited.Config, error) {
	c := delimited.DefaultConfig()
	c.Comments = cfg.Comments

	if cfg.RecordTerminator != "" {
		c.RecordTerminator = cfg.RecordTerminator
	}

	var err error

	if c.Delimiter, err = singleRune("delimiter", cfg.Delimiter, c.Delimiter); err != nil {
		return c, err
	}

	if c.Escape, err = singleRune("escape", cfg.Escape, 0); err != nil {
		return c, err
	}

	if c.Escape != 0 && c.Escape == c.Delimiter {
		return c, errors.New("escape and delimiter must differ")
	}

	return c, nil
}

func csvConfig(cfg mapping.ParserConfig) (csv.Config, error) {
	c := csv.DefaultConfig()
	c.LazyQuotes = cfg.LazyQuotes

	if cfg.RecordTerminator != "" {
		c.RecordTerminator = cfg.RecordTerminator
	}

	var err error

	if c.Delimiter, err = singleRune("delimiter", cfg.Delimiter, c.Delimiter); err != nil {
		return c, err
	}

	if cfg.Quote != "" && cfg.Quote != `"` {
		return c, fmt.Errorf("csv quote %q is not supported, only '\"'", cfg.Quote)
	}

	switch len(cfg.Comments) {
	case 0:
	case 1:
		if c.Comment, err = singleRune("csv comment", cfg.Comments[0], 0); err != nil {
			return c, err
		}
	default:
		return c, errors.New("csv streams accept one comment character")
	}

	return c, c.Validate()
}

func fixedLengthConfig(cfg mapping.ParserConfig) fixedlength.Config {
	return fixedlength.Config{Comments: cfg.Comments, RecordTerminator: cfg.RecordTerminator}
}
