package parser

import "fmt"

// RawRecord is one physical record. Delimited formats fill Fields; fixed-length formats
// fill Text.
type RawRecord struct {
	Fields     []string
	Text       string
	LineNumber int

	runes []rune
}

func (r *RawRecord) chars() []rune {
	if r.runes == nil {
		r.runes = []rune(r.Text)
	}

	return r.runes
}

// Layout is how a format addresses field positions within a raw record.
type Layout interface {
	// Length is the physical length of rec in positions: tokens or characters.
	Length(rec *RawRecord) int
	// Extract returns the raw text of one occurrence of f at position at, false when the
	// record ends before at.
	Extract(rec *RawRecord, at int, f *Field) (string, bool)
	NewBuffer() Buffer
}

// Buffer assembles one raw record while marshalling.
type Buffer interface {
	Put(at int, f *Field, text string) error
	Record() *RawRecord
}

// DelimitedLayout addresses fields by token index.
type DelimitedLayout struct{}

func (DelimitedLayout) Length(rec *RawRecord) int { return len(rec.Fields) }

func (DelimitedLayout) Extract(rec *RawRecord, at int, _ *Field) (string, bool) {
	if at < 0 || at >= len(rec.Fields) {
		return "", false
	}

	return rec.Fields[at], true
}

func (DelimitedLayout) NewBuffer() Buffer { return &tokenBuffer{} }

type tokenBuffer struct {
	fields []string
}

func (b *tokenBuffer) Put(at int, _ *Field, text string) error {
	for len(b.fields) <= at {
		b.fields = append(b.fields, "")
	}

	b.fields[at] = text

	return nil
}

func (b *tokenBuffer) Record() *RawRecord {
	return &RawRecord{Fields: b.fields}
}

// FixedLayout addresses fields by character offset. A field at the end of a record may be
// shorter than its width.
type FixedLayout struct{}

func (FixedLayout) Length(rec *RawRecord) int { return len(rec.chars()) }

func (FixedLayout) Extract(rec *RawRecord, at int, f *Field) (string, bool) {
	runes := rec.chars()
	if at < 0 || at >= len(runes) {
		return "", false
	}

	return string(runes[at:min(at+f.Width, len(runes))]), true
}

func (FixedLayout) NewBuffer() Buffer { return &charBuffer{} }

type charBuffer struct {
	runes []rune
}

func (b *charBuffer) Put(at int, f *Field, text string) error {
	value := []rune(text)
	if len(value) != f.Width {
		return fmt.Errorf("field %s: expected %d characters, got %d", f.Path, f.Width, len(value))
	}

	for len(b.runes) < at+len(value) {
		b.runes = append(b.runes, ' ')
	}

	copy(b.runes[at:], value)

	return nil
}

func (b *charBuffer) Record() *RawRecord {
	return &RawRecord{Text: string(b.runes)}
}
