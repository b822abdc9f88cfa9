package parser

import (
	"fmt"
	"unicode/utf8"
)

// unmarshaller builds the bound object of one record. Field and record errors are
// collected in ctx rather than returned.
type unmarshaller struct {
	state  *State
	layout Layout
	binder Binder
	rec    *RawRecord
	ctx    *RecordContext
	length int
}

func (s *State) unmarshal(r *Record, rec *RawRecord) (any, *RecordContext) {
	u := &unmarshaller{
		state:  s,
		layout: s.stream.Layout,
		binder: s.stream.Binder,
		rec:    rec,
		ctx:    newRecordContext(r.Name, rec),
	}
	u.length = u.layout.Length(rec)

	if s.stream.Strict {
		switch {
		case u.length < r.MinLength:
			u.ctx.addRecordError(CodeMinLength,
				fmt.Sprintf("Expected minimum %d fields, found %d", r.MinLength, u.length))
		case r.MaxLength != Unbounded && u.length > r.MaxLength:
			u.ctx.addRecordError(CodeMaxLength,
				fmt.Sprintf("Expected maximum %d fields, found %d", r.MaxLength, u.length))
		}

		if u.ctx.HasErrors() {
			return nil, u.ctx
		}
	}

	obj, err := u.newObject(r.Class, r.Target)
	if err != nil {
		u.ctx.addRecordError(CodeType, err.Error())
		return nil, u.ctx
	}

	u.children(r.Children, obj, 0)

	return targetOf(obj, r.Target), u.ctx
}

func (u *unmarshaller) newObject(class, target string) (any, error) {
	if target != "" {
		return map[string]any{}, nil
	}

	return u.binder.New(class)
}

func targetOf(obj any, target string) any {
	if target == "" {
		return obj
	}

	return obj.(map[string]any)[target]
}

// children reads nodes starting at position start and returns how far variable
// occurrences moved the end of the nodes past their static size.
func (u *unmarshaller) children(nodes []Node, obj any, start int) int {
	shift := 0

	for _, n := range nodes {
		switch n := n.(type) {
		case *Field:
			at := start + n.Position + shift
			if n.IsRepeating() {
				shift += u.repeatingField(n, obj, at)
			} else {
				u.field(n, obj, at)
			}

		case *Segment:
			at := start + n.Position + shift
			if n.IsRepeating() {
				shift += u.repeatingSegment(n, obj, at)
			} else {
				shift += u.segment(n, obj, at)
			}
		}
	}

	return shift
}

// want resolves how many occurrences of a node to read. A false result means read as
// many as are present.
func (u *unmarshaller) want(c *Component) (int, bool) {
	if c.OccursRef != nil {
		n, _ := u.state.Occurs(c.OccursRef)
		return max(n, 0), true
	}

	if c.MinOccurs == c.MaxOccurs {
		return c.MinOccurs, true
	}

	return 0, false
}

func (u *unmarshaller) field(f *Field, obj any, at int) {
	raw, ok := u.layout.Extract(u.rec, at, f)
	if !ok {
		if f.MinOccurs > 0 {
			u.ctx.addFieldError(f.Path, ValidationError{Code: CodeMinOccurs, Message: "Expected minimum 1 occurrences"})
		} else if f.HasDefault {
			u.bind(obj, f.Path, f.Property, f.Default, f.Ignore)
		}

		if f.Governs {
			u.state.setOccurs(f, 0)
		}

		return
	}

	u.ctx.setFieldText(f.Path, raw)

	value, valid := u.parse(f, raw)
	if !valid {
		if f.Governs {
			u.state.setOccurs(f, 0)
		}

		return
	}

	if f.Governs {
		n, ok := occurrences(value)
		if !ok {
			u.ctx.addFieldError(f.Path, ValidationError{Code: CodeType, Message: fmt.Sprintf("Invalid occurrences %v", value)})
			n = 0
		}

		u.state.setOccurs(f, n)
	}

	u.bind(obj, f.Path, f.Property, value, f.Ignore)
}

func (u *unmarshaller) parse(f *Field, raw string) (any, bool) {
	if _, ok := u.layout.(DelimitedLayout); ok && f.Length > 0 {
		if n := utf8.RuneCountInString(raw); n != f.Length {
			u.ctx.addFieldError(f.Path, ValidationError{
				Code:    CodeLength,
				Message: fmt.Sprintf("Expected length %d, found %d", f.Length, n),
			})

			return nil, false
		}
	}

	value, verr := f.parse(f.decode(raw))
	if verr != nil {
		u.ctx.addFieldError(f.Path, *verr)
		return nil, false
	}

	return value, true
}

func (u *unmarshaller) bind(obj any, path, property string, value any, ignore bool) {
	if ignore || property == "" || value == nil || obj == nil {
		return
	}

	if err := u.binder.Set(obj, property, value); err != nil {
		u.ctx.addFieldError(path, ValidationError{Code: CodeType, Message: err.Error()})
	}
}

func (u *unmarshaller) checkOccurs(path string, c *Component, count int) {
	switch {
	case count < c.MinOccurs:
		u.ctx.addFieldError(path, ValidationError{
			Code:    CodeMinOccurs,
			Message: fmt.Sprintf("Expected minimum %d occurrences, found %d", c.MinOccurs, count),
		})
	case c.IsBounded() && count > c.MaxOccurs:
		u.ctx.addFieldError(path, ValidationError{
			Code:    CodeMaxOccurs,
			Message: fmt.Sprintf("Expected maximum %d occurrences, found %d", c.MaxOccurs, count),
		})
	}
}

// surplus measures one occurrence of s past its maximum without binding or validating it.
func (u *unmarshaller) surplus(s *Segment, at int) int {
	scratch := &unmarshaller{
		state:  u.state,
		layout: u.layout,
		binder: u.binder,
		rec:    u.rec,
		ctx:    newRecordContext(s.Name, u.rec),
		length: u.length,
	}

	child, err := scratch.newObject(s.Class, s.Target)
	if err != nil {
		return 0
	}

	return scratch.children(s.Children, child, at)
}

// repeatingField reads consecutive occurrences of f and returns the shift they cause.
// A variable repeat runs to the end of the record; occurrences past its maximum are
// counted but not bound.
func (u *unmarshaller) repeatingField(f *Field, obj any, at int) int {
	want, exact := u.want(&f.Component)

	var (
		items []any
		count int
	)

	for i := 0; ; i++ {
		if exact && i >= want {
			break
		}

		raw, ok := u.layout.Extract(u.rec, at+i*f.Width, f)
		if !ok {
			break
		}

		count++

		if i == 0 {
			u.ctx.setFieldText(f.Path, raw)
		}

		if f.IsBounded() && i >= f.MaxOccurs {
			continue
		}

		if value, valid := u.parse(f, raw); valid {
			items = append(items, value)
		}
	}

	if exact && count < want {
		u.ctx.addFieldError(f.Path, ValidationError{
			Code:    CodeMinOccurs,
			Message: fmt.Sprintf("Expected %d occurrences, found %d", want, count),
		})
	} else {
		u.checkOccurs(f.Path, &f.Component, count)
	}

	if items == nil {
		items = []any{}
	}

	u.bind(obj, f.Path, f.Property, items, f.Ignore)

	consumed := count
	if exact {
		consumed = want
	}

	return (consumed - f.MinOccurs) * f.Width
}

// segment reads one optional or mandatory occurrence of s and returns the shift of its
// children.
func (u *unmarshaller) segment(s *Segment, obj any, at int) int {
	if at >= u.length {
		if s.MinOccurs > 0 {
			u.ctx.addFieldError(s.Path, ValidationError{Code: CodeMinOccurs, Message: "Expected minimum 1 occurrences"})
		}

		return 0
	}

	if s.Inline {
		return u.children(s.Children, obj, at)
	}

	child, err := u.newObject(s.Class, s.Target)
	if err != nil {
		u.ctx.addFieldError(s.Path, ValidationError{Code: CodeType, Message: err.Error()})
		return 0
	}

	shift := u.children(s.Children, child, at)
	u.bind(obj, s.Path, s.Property, targetOf(child, s.Target), false)

	return shift
}

func (u *unmarshaller) repeatingSegment(s *Segment, obj any, at int) int {
	want, exact := u.want(&s.Component)

	var (
		items []any
		keyed map[string]any
		count int
		next  = at
	)

	if s.Collection == CollectionMap {
		keyed = make(map[string]any)
	}

	for i := 0; ; i++ {
		if exact && i >= want {
			break
		}

		if next >= u.length {
			break
		}

		if s.IsBounded() && i >= s.MaxOccurs {
			next += s.Width + u.surplus(s, next)
			count++

			continue
		}

		child, err := u.newObject(s.Class, s.Target)
		if err != nil {
			u.ctx.addFieldError(s.Path, ValidationError{Code: CodeType, Message: err.Error()})
			break
		}

		next += s.Width + u.children(s.Children, child, next)
		count++

		if keyed != nil {
			key, _ := u.binder.Get(child, s.Key.Property)
			keyed[fmt.Sprint(key)] = targetOf(child, s.Target)
		} else {
			items = append(items, targetOf(child, s.Target))
		}
	}

	if exact && count < want {
		u.ctx.addFieldError(s.Path, ValidationError{
			Code:    CodeMinOccurs,
			Message: fmt.Sprintf("Expected %d occurrences, found %d", want, count),
		})
	} else {
		u.checkOccurs(s.Path, &s.Component, count)
	}

	switch {
	case keyed != nil:
		u.bind(obj, s.Path, s.Property, keyed, false)
	case items == nil:
		u.bind(obj, s.Path, s.Property, []any{}, false)
	default:
		u.bind(obj, s.Path, s.Property, items, false)
	}

	consumed := next - at
	if exact && count < want {
		consumed = want * s.Width
	}

	return consumed - s.MinOccurs*s.Width
}
