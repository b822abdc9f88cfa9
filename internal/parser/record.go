package parser

import "github.com/kevinseim/beanio-sub003/utils"

// Record maps one raw record to one bound object.
type Record struct {
	Component

	Class  string
	Target string

	Children []Node
	// Identifiers are the identifying fields of the record, in position order.
	Identifiers []*Field

	// MinLength and MaxLength bound the physical length in strict mode. MaxLength is
	// Unbounded when the record has no upper limit.
	MinLength int
	MaxLength int
	// MinMatchLength and MaxMatchLength bound the physical length of records this
	// record identifies.
	MinMatchLength int
	MaxMatchLength int
}

func (*Record) Kind() NodeKind { return KindRecord }

// identify reports whether rec has a length this record accepts and every identifier
// field matches.
func (r *Record) identify(l Layout, rec *RawRecord) bool {
	if !utils.IsInOpenRange(r.MinMatchLength, l.Length(rec), r.MaxMatchLength) {
		return false
	}

	for _, f := range r.Identifiers {
		raw, ok := l.Extract(rec, f.Offset, f)
		if !ok || !f.matches(f.decode(raw)) {
			return false
		}
	}

	return true
}

func (r *Record) matchNext(s *State, rec *RawRecord) *Record {
	if !r.identify(s.stream.Layout, rec) {
		return nil
	}

	s.increment(r)

	return r
}
