package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/primitive"
)

type fieldOption func(*Field)

func rid(literal string) fieldOption {
	return func(f *Field) {
		f.Identifier, f.Literal, f.HasLiteral = true, literal, true
	}
}

func occurs(minOccurs, maxOccurs int) fieldOption {
	return func(f *Field) {
		f.MinOccurs, f.MaxOccurs = minOccurs, maxOccurs
		if f.IsRepeating() {
			f.Collection = CollectionList
		}
	}
}

func integer(t *testing.T) fieldOption {
	h, err := primitive.NewHandler(primitive.KindInt, "", primitive.CategoryDefault)
	require.NoError(t, err)

	return func(f *Field) { f.TypeName, f.Converter = "int", h }
}

func fld(name string, opts ...fieldOption) *Field {
	f := &Field{
		Component: Component{Name: name, MinOccurs: 1, MaxOccurs: 1},
		Property:  name,
		Path:      name,
		Width:     1,
		Padding:   ' ',
		MaxLength: Unbounded,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// rec lays fields out one token each and marks identifiers.
func rec(name string, order, minOccurs, maxOccurs int, fields ...*Field) *Record {
	r := &Record{
		Component:      Component{Name: name, Order: order, MinOccurs: minOccurs, MaxOccurs: maxOccurs},
		Class:          bind.MapClass,
		MaxLength:      Unbounded,
		MaxMatchLength: Unbounded,
	}

	for i, f := range fields {
		f.Position, f.Offset = i, i
		r.Children = append(r.Children, f)

		if f.Identifier {
			r.Identifiers = append(r.Identifiers, f)
		}
	}

	return r
}

func grp(name string, order, minOccurs, maxOccurs int, children ...Node) *Group {
	return &Group{
		Component: Component{Name: name, Order: order, MinOccurs: minOccurs, MaxOccurs: maxOccurs},
		Ordered:   true,
		Children:  children,
	}
}

func newTestStream(root *Group, layout Layout) *Stream {
	s := &Stream{
		Name:   "test",
		Format: "delimited",
		Root:   root,
		Layout: layout,
		Binder: bind.NewBinder(bind.NewRegistry(), primitive.CategoryDefault),
	}

	s.Walk(func(n Node, _ int) {
		n.Info().ID = s.NodeCount
		s.NodeCount++

		if r, ok := n.(*Record); ok {
			s.Records = append(s.Records, r)
		}
	})

	return s
}

func line(n int, text string) *RawRecord {
	return &RawRecord{Fields: strings.Split(text, ","), Text: text, LineNumber: n}
}

// headerDetailTrailer is H, any number of D, then T.
func headerDetailTrailer() *Stream {
	return newTestStream(grp("root", 0, 0, 1,
		rec("header", 1, 1, 1, fld("type", rid("H")), fld("date")),
		rec("detail", 2, 0, Unbounded, fld("type", rid("D")), fld("amount")),
		rec("trailer", 3, 1, 1, fld("type", rid("T")), fld("count")),
	), DelimitedLayout{})
}
