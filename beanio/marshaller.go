package beanio

import (
	"fmt"

	"github.com/kevinseim/beanio-sub003/internal/format"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// Unmarshaller binds single records of text to objects without enforcing record order.
type Unmarshaller struct {
	session *parser.Session
	m       *mappedStream
}

// NewUnmarshaller returns an unmarshaller for stream name.
func (f *Factory) NewUnmarshaller(name string) (*Unmarshaller, error) {
	m, err := f.lookup(name)
	if err != nil {
		return nil, err
	}

	if !m.stream.Mode.CanRead() {
		return nil, fmt.Errorf("stream %q: %w", name, parser.ErrWriteOnly)
	}

	return &Unmarshaller{session: parser.NewSession(m.stream), m: m}, nil
}

// Unmarshal binds text, one record without its terminator, using the first record of
// the stream that identifies it.
func (u *Unmarshaller) Unmarshal(text string) (any, error) {
	rec, err := format.ParseRecord(u.m.format, u.m.config, text)
	if err != nil {
		return nil, err
	}

	return u.session.Unmarshal(rec)
}

// RecordName is the name of the last record unmarshalled.
func (u *Unmarshaller) RecordName() string { return u.session.RecordName() }

// RecordContext details the last record unmarshalled.
func (u *Unmarshaller) RecordContext() *parser.RecordContext { return u.session.Context() }

// Marshaller formats single objects as record text.
type Marshaller struct {
	session *parser.Session
	m       *mappedStream
}

// NewMarshaller returns a marshaller for stream name.
func (f *Factory) NewMarshaller(name string) (*Marshaller, error) {
	m, err := f.lookup(name)
	if err != nil {
		return nil, err
	}

	if !m.stream.Mode.CanWrite() {
		return nil, fmt.Errorf("stream %q: %w", name, parser.ErrReadOnly)
	}

	return &Marshaller{session: parser.NewSession(m.stream), m: m}, nil
}

// Marshal formats obj with the record Writer.Write would choose, without a terminator.
func (m *Marshaller) Marshal(obj any) (string, error) {
	rec, err := m.session.Write(obj)
	if err != nil {
		return "", err
	}

	return format.FormatRecord(m.m.format, m.m.config, rec)
}

// MarshalRecord formats obj with the named record.
func (m *Marshaller) MarshalRecord(name string, obj any) (string, error) {
	rec, err := m.session.WriteRecord(name, obj)
	if err != nil {
		return "", err
	}

	return format.FormatRecord(m.m.format, m.m.config, rec)
}

// RecordName is the name of the last record marshalled.
func (m *Marshaller) RecordName() string { return m.session.RecordName() }
