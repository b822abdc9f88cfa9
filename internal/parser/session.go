package parser

import "fmt"

// Session reads or writes records of one stream in sequence. A session is not safe for
// concurrent use.
type Session struct {
	stream *Stream
	state  *State

	ctx        *RecordContext
	recordName string
	lineNumber int
	closed     bool
}

// NewSession starts a session over stream with fresh occurrence state.
func NewSession(stream *Stream) *Session {
	return &Session{stream: stream, state: NewState(stream)}
}

func (s *Session) Stream() *Stream { return s.stream }

// RecordName is the name of the last record read or written.
func (s *Session) RecordName() string { return s.recordName }

// LineNumber is the line number of the last record read, or the number of records
// written so far.
func (s *Session) LineNumber() int { return s.lineNumber }

// Context describes the last record read, nil before the first read or after a
// sequencing error.
func (s *Session) Context() *RecordContext { return s.ctx }

// State exposes the occurrence tracker of the session.
func (s *Session) State() *State { return s.state }

// Match identifies rec and advances the occurrence state without binding it. State is
// left untouched when rec cannot be matched.
func (s *Session) Match(rec *RawRecord) (*Record, error) {
	if !s.stream.Mode.CanRead() {
		return nil, ErrWriteOnly
	}

	s.ctx, s.recordName, s.lineNumber = nil, "", rec.LineNumber

	saved := s.state.snapshot()

	r, err := s.stream.Root.matchNext(s.state, rec)
	if err != nil {
		s.state.restore(saved)
		return nil, err
	}

	if r == nil {
		s.state.restore(saved)

		if other := s.stream.Root.matchAny(s.stream.Layout, rec); other != nil {
			err := &UnexpectedRecordError{RecordName: other.Name, LineNumber: rec.LineNumber, Text: rec.Text}
			if missing := s.expected(); missing != nil {
				err.Expected = missing.Info().Name
			}

			return nil, err
		}

		return nil, &UnidentifiedRecordError{LineNumber: rec.LineNumber, Text: rec.Text}
	}

	s.recordName = r.Name

	return r, nil
}

// expected returns the node that has not occurred often enough for the stream to go on.
func (s *Session) expected() Node {
	root := s.stream.Root
	if missing := root.close(s.state); missing != nil {
		return missing
	}

	if s.state.lastChild(root) == nil {
		if first := root.firstRequired(); first != Node(root) {
			return first
		}
	}

	return nil
}

// Read matches rec and unmarshals it. A record that fails validation still advances the
// state and returns *InvalidRecordError.
func (s *Session) Read(rec *RawRecord) (any, error) {
	r, err := s.Match(rec)
	if err != nil {
		return nil, err
	}

	obj, ctx := s.state.unmarshal(r, rec)
	s.ctx = ctx

	if ctx.HasErrors() {
		return nil, &InvalidRecordError{Context: ctx}
	}

	return obj, nil
}

// Unmarshal binds rec to the first record that identifies it, ignoring sequence.
func (s *Session) Unmarshal(rec *RawRecord) (any, error) {
	if !s.stream.Mode.CanRead() {
		return nil, ErrWriteOnly
	}

	s.lineNumber = rec.LineNumber

	r := s.stream.Root.matchAny(s.stream.Layout, rec)
	if r == nil {
		s.ctx, s.recordName = nil, ""
		return nil, &UnidentifiedRecordError{LineNumber: rec.LineNumber, Text: rec.Text}
	}

	s.recordName = r.Name

	obj, ctx := s.state.unmarshal(r, rec)
	s.ctx = ctx

	if ctx.HasErrors() {
		return nil, &InvalidRecordError{Context: ctx}
	}

	return obj, nil
}

// Close reports the first mandatory record or group that never occurred. Later calls
// return nil.
func (s *Session) Close() error {
	if s.closed || !s.stream.Mode.CanRead() {
		return nil
	}

	s.closed = true

	if missing := s.stream.Root.close(s.state); missing != nil {
		return &MissingRecordError{
			Name:       missing.Info().Name,
			Kind:       missing.Kind(),
			LineNumber: s.lineNumber,
		}
	}

	return nil
}

// Write marshals obj with the first record whose class accepts it and whose identifying
// literals agree with it.
func (s *Session) Write(obj any) (*RawRecord, error) {
	if !s.stream.Mode.CanWrite() {
		return nil, ErrReadOnly
	}

	r, err := s.selectRecord(obj)
	if err != nil {
		return nil, err
	}

	return s.write(r, obj)
}

// WriteRecord marshals obj with the record named name.
func (s *Session) WriteRecord(name string, obj any) (*RawRecord, error) {
	if !s.stream.Mode.CanWrite() {
		return nil, ErrReadOnly
	}

	r, ok := s.stream.Record(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRecord, name)
	}

	return s.write(r, obj)
}

func (s *Session) write(r *Record, obj any) (*RawRecord, error) {
	rec, err := s.state.marshal(r, obj)
	if err != nil {
		return nil, err
	}

	s.lineNumber++
	s.recordName = r.Name
	rec.LineNumber = s.lineNumber

	return rec, nil
}

func (s *Session) selectRecord(obj any) (*Record, error) {
	for _, r := range s.stream.Records {
		if r.Target != "" || !s.stream.Binder.IsInstance(r.Class, obj) {
			continue
		}

		if s.literalsAgree(r, obj) {
			return r, nil
		}
	}

	return nil, fmt.Errorf("%w of type %T", ErrNoRecord, obj)
}

func (s *Session) literalsAgree(r *Record, obj any) bool {
	for _, n := range r.Children {
		f, ok := n.(*Field)
		if !ok || !f.Identifier || !f.HasLiteral || f.Property == "" || f.Ignore {
			continue
		}

		value, err := s.stream.Binder.Get(obj, f.Property)
		if err != nil {
			return false
		}

		if value == nil {
			continue
		}

		text := fmt.Sprint(value)
		if f.Converter != nil {
			if text, err = f.Converter.Format(value); err != nil {
				return false
			}
		}

		if text != "" && text != f.Literal {
			return false
		}
	}

	return true
}
