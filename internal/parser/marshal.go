package parser

import "fmt"

type marshaller struct {
	state  *State
	binder Binder
	buf    Buffer
}

func (s *State) marshal(r *Record, obj any) (*RawRecord, error) {
	m := &marshaller{
		state:  s,
		binder: s.stream.Binder,
		buf:    s.stream.Layout.NewBuffer(),
	}

	if _, err := m.children(r.Children, wrap(obj, r.Target), 0); err != nil {
		return nil, fmt.Errorf("record %q: %w", r.Name, err)
	}

	return m.buf.Record(), nil
}

func wrap(obj any, target string) any {
	if target == "" {
		return obj
	}

	return map[string]any{target: obj}
}

func (m *marshaller) get(obj any, property string) (any, error) {
	if obj == nil || property == "" {
		return nil, nil
	}

	return m.binder.Get(obj, property)
}

func (m *marshaller) items(obj any, property string) ([]any, error) {
	value, err := m.get(obj, property)
	if err != nil {
		return nil, err
	}

	return m.binder.Items(value)
}

// children writes nodes at position start and returns the shift caused by variable
// occurrences.
func (m *marshaller) children(nodes []Node, obj any, start int) (int, error) {
	// governing fields are written from the size of the collections they count
	for _, n := range nodes {
		info := n.Info()
		if info.OccursRef == nil {
			continue
		}

		items, err := m.items(obj, property(n))
		if err != nil {
			return 0, err
		}

		m.state.setOccurs(info.OccursRef, max(len(items), info.MinOccurs))
	}

	shift := 0

	for _, n := range nodes {
		var (
			moved int
			err   error
		)

		switch n := n.(type) {
		case *Field:
			at := start + n.Position + shift
			if n.IsRepeating() {
				moved, err = m.repeatingField(n, obj, at)
			} else {
				err = m.field(n, obj, at)
			}

		case *Segment:
			at := start + n.Position + shift
			if n.IsRepeating() {
				moved, err = m.repeatingSegment(n, obj, at)
			} else {
				moved, err = m.segment(n, obj, at)
			}
		}

		if err != nil {
			return 0, err
		}

		shift += moved
	}

	return shift, nil
}

func property(n Node) string {
	switch n := n.(type) {
	case *Field:
		return n.Property
	case *Segment:
		return n.Property
	}

	return ""
}

func (m *marshaller) field(f *Field, obj any, at int) error {
	var value any

	if n, ok := m.state.Occurs(f); f.Governs && ok {
		value = n
	} else if !f.Ignore {
		v, err := m.get(obj, f.Property)
		if err != nil {
			return err
		}

		value = v
	}

	return m.put(f, value, at)
}

func (m *marshaller) put(f *Field, value any, at int) error {
	text, omit, err := f.format(value)
	if err != nil || omit {
		return err
	}

	return m.buf.Put(at, f, text)
}

func (m *marshaller) repeatingField(f *Field, obj any, at int) (int, error) {
	var items []any

	if !f.Ignore {
		var err error
		if items, err = m.items(obj, f.Property); err != nil {
			return 0, err
		}
	}

	if f.IsBounded() && len(items) > f.MaxOccurs {
		return 0, fmt.Errorf("field %s: %d values exceed maximum occurrences %d", f.Path, len(items), f.MaxOccurs)
	}

	n := max(len(items), f.MinOccurs)

	for i := range n {
		var value any
		if i < len(items) {
			value = items[i]
		}

		if err := m.put(f, value, at+i*f.Width); err != nil {
			return 0, err
		}
	}

	return (n - f.MinOccurs) * f.Width, nil
}

func (m *marshaller) segment(s *Segment, obj any, at int) (int, error) {
	if s.Inline {
		return m.children(s.Children, obj, at)
	}

	child, err := m.get(obj, s.Property)
	if err != nil {
		return 0, err
	}

	if child == nil && s.Target == "" && s.MinOccurs == 0 {
		return 0, nil
	}

	return m.children(s.Children, wrap(child, s.Target), at)
}

func (m *marshaller) repeatingSegment(s *Segment, obj any, at int) (int, error) {
	items, err := m.items(obj, s.Property)
	if err != nil {
		return 0, err
	}

	if s.IsBounded() && len(items) > s.MaxOccurs {
		return 0, fmt.Errorf("segment %s: %d values exceed maximum occurrences %d", s.Path, len(items), s.MaxOccurs)
	}

	next := at

	for i := range max(len(items), s.MinOccurs) {
		var item any
		if i < len(items) {
			item = items[i]
		}

		shift, err := m.children(s.Children, wrap(item, s.Target), next)
		if err != nil {
			return 0, err
		}

		next += s.Width + shift
	}

	return next - at - s.MinOccurs*s.Width, nil
}
