package compiler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
	"github.com/kevinseim/beanio-sub003/primitive"
)

type order struct {
	ID      int64
	Placed  time.Time `beanio:"placed"`
	Tags    []string
	Lines   []orderLine
	Address *address
	Note    string
}

type orderLine struct {
	SKU string
	Qty int
}

type address struct {
	City string
	Zip  string
}

type shape interface {
	Area() float64
}

func newCompiler(t *testing.T) *Compiler {
	t.Helper()

	handlers := primitive.NewRegistry()
	registry := bind.NewRegistry()
	require.NoError(t, bind.RegisterType[order](registry, "order"))
	require.NoError(t, bind.RegisterType[orderLine](registry, "orderLine"))
	require.NoError(t, bind.RegisterType[address](registry, "address"))
	require.NoError(t, bind.RegisterType[shape](registry, "shape"))

	return New(bind.NewBinder(registry, handlers.Categories()), handlers, nil)
}

func compileYAML(t *testing.T, src string) (*Result, error) {
	t.Helper()

	f, err := mapping.Parse([]byte(src))
	require.NoError(t, err)

	return newCompiler(t).CompileFile(f)
}

func mustCompile(t *testing.T, src string) *parser.Stream {
	t.Helper()

	res, err := compileYAML(t, src)
	require.NoError(t, err)
	require.Len(t, res.Streams, 1)

	return res.Streams[0]
}

func TestCompileDelimited(t *testing.T) {
	s := mustCompile(t, `
typeHandlers:
  - {name: ymd, type: date, format: "20060102"}
streams:
  - name: orders
    format: csv
    children:
      - record:
          name: header
          minOccurs: 1
          maxOccurs: 1
          children:
            - field: {name: type, rid: true, literal: H}
            - field: {name: date, type: ymd}
      - group:
          name: batch
          maxOccurs: unbounded
          children:
            - record:
                name: order
                class: order
                children:
                  - field: {name: type, rid: true, literal: O, ignore: true}
                  - field: {name: id}
                  - field: {name: placed, format: "2006-01-02"}
                  - segment:
                      name: address
                      class: address
                      children:
                        - field: {name: city}
                        - field: {name: zip}
                  - field: {name: count, type: int, ignore: true}
                  - segment:
                      name: lines
                      class: orderLine
                      occursRef: count
                      collection: list
                      children:
                        - field: {name: sku}
                        - field: {name: qty}
                  - field: {name: note}
`)

	assert.Equal(t, "orders", s.Name)
	assert.Equal(t, "csv", s.Format)
	assert.Equal(t, parser.ModeReadWrite, s.Mode)
	assert.Equal(t, parser.DelimitedLayout{}, s.Layout)
	require.Len(t, s.Records, 2)

	// preorder IDs: root, header, type, date, batch, order, ...
	header, ord := s.Records[0], s.Records[1]
	assert.Equal(t, 1, header.ID)
	assert.Equal(t, 5, ord.ID)
	assert.Equal(t, 1, header.Order)

	batch := s.Root.Children[1].(*parser.Group)
	assert.Equal(t, 2, batch.Order)
	assert.Equal(t, 0, batch.MinOccurs)
	assert.Equal(t, parser.Unbounded, batch.MaxOccurs)

	date := header.Children[1].(*parser.Field)
	require.NotNil(t, date.Converter)
	v, err := date.Converter.Parse("20240131")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), v)

	assert.Equal(t, 2, header.MinLength)
	assert.Equal(t, 2, header.MaxLength)
	assert.Equal(t, 1, header.MinMatchLength)
	assert.Equal(t, parser.Unbounded, header.MaxMatchLength)

	id := ord.Children[1].(*parser.Field)
	require.NotNil(t, id.Converter, "typed from the int64 property")
	assert.Equal(t, primitive.KindInt64, id.Converter.(primitive.Handler).Kind())

	addr := ord.Children[3].(*parser.Segment)
	assert.Equal(t, 3, addr.Position)
	assert.Equal(t, 2, addr.Width)
	assert.Equal(t, "address.zip", addr.Children[1].(*parser.Field).Path)
	assert.Equal(t, 4, addr.Children[1].(*parser.Field).Offset)

	count := ord.Children[4].(*parser.Field)
	lines := ord.Children[5].(*parser.Segment)
	note := ord.Children[6].(*parser.Field)

	assert.True(t, count.Governs)
	assert.Same(t, count, lines.OccursRef)
	assert.Equal(t, 0, lines.MinOccurs)
	assert.Equal(t, 6, lines.Position)
	assert.Equal(t, 2, lines.Width)
	assert.Equal(t, 6, note.Position)
	assert.Equal(t, -1, note.Offset)
	assert.Equal(t, parser.Unbounded, ord.MaxLength)
	assert.Equal(t, 7, ord.MinLength)
}

func TestCompileFixedLength(t *testing.T) {
	s := mustCompile(t, `
streams:
  - name: accounts
    format: fixedlength
    strict: true
    children:
      - record:
          name: account
          ridLength: 10-12
          children:
            - field: {name: type, length: 1, rid: true, literal: A}
            - field: {name: name, length: 5}
            - field: {name: amount, length: 6, type: int, padding: "0", justify: right, default: "0"}
`)

	assert.Equal(t, parser.FixedLayout{}, s.Layout)
	assert.True(t, s.Strict)

	r := s.Records[0]
	assert.Equal(t, 12, r.MinLength)
	assert.Equal(t, 12, r.MaxLength)
	assert.Equal(t, 10, r.MinMatchLength)
	assert.Equal(t, 12, r.MaxMatchLength)

	amount := r.Children[2].(*parser.Field)
	assert.Equal(t, 6, amount.Position)
	assert.Equal(t, 6, amount.Width)
	assert.Equal(t, '0', amount.Padding)
	assert.Equal(t, parser.JustifyRight, amount.Justify)
	assert.True(t, amount.HasDefault)
	assert.Equal(t, 0, amount.Default)
	assert.Equal(t, "0", amount.DefaultText)
}

func TestCompileWriteOnlyInterface(t *testing.T) {
	src := `
streams:
  - name: shapes
    format: delimited
    mode: %s
    children:
      - record: {name: shape, class: shape, children: [{field: {name: area, ignore: true}}]}
`
	_, err := compileYAML(t, fmt.Sprintf(src, "write"))
	require.NoError(t, err)

	_, err = compileYAML(t, fmt.Sprintf(src, "read"))

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, CodeAbstractClass, cerr.Diagnostics.Errors[0].Code)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		children string
		code     string
		path     string
		suggest  []string
	}{
		{
			name:     "unknown class",
			children: `[{record: {name: r, class: ordr, children: [{field: {name: f}}]}}]`,
			code:     CodeUnknownClass,
			path:     "stream 's': record 'r'",
			suggest:  []string{"order"},
		},
		{
			name:     "unknown property",
			children: `[{record: {name: r, class: order, children: [{field: {name: nte}}]}}]`,
			code:     CodeUnknownProperty,
			path:     "stream 's': record 'r': field 'nte'",
			suggest:  []string{"Note"},
		},
		{
			name:     "unknown type",
			children: `[{record: {name: r, children: [{field: {name: f, type: integr}}]}}]`,
			code:     CodeUnknownType,
		},
		{
			name:     "repeating field without collection",
			children: `[{record: {name: r, children: [{field: {name: f, maxOccurs: 3}}]}}]`,
			code:     CodeCollection,
		},
		{
			name:     "repeating field bound to scalar",
			children: `[{record: {name: r, class: order, children: [{field: {name: note, maxOccurs: 3, collection: list}}]}}]`,
			code:     CodeCollection,
		},
		{
			name:     "variable field not last",
			children: `[{record: {name: r, children: [{field: {name: a, maxOccurs: unbounded, collection: list}}, {field: {name: b}}]}}]`,
			code:     CodeInvalidLayout,
			path:     "stream 's': record 'r': field 'b'",
		},
		{
			name: "identifier after variable field",
			children: `[{record: {name: r, children: [
  {field: {name: n, type: int}},
  {field: {name: a, occursRef: n, collection: list}},
  {field: {name: t, rid: true, literal: X}}]}}]`,
			code: CodeIdentifier,
		},
		{
			name:     "occursRef declared later",
			children: `[{record: {name: r, children: [{field: {name: a, occursRef: n, collection: list}}, {field: {name: n}}]}}]`,
			code:     CodeInvalidOccursRef,
		},
		{
			name:     "occursRef not an integer",
			children: `[{record: {name: r, children: [{field: {name: n, type: date}}, {field: {name: a, occursRef: n, collection: list}}]}}]`,
			code:     CodeInvalidOccursRef,
		},
		{
			name:     "fixed field without length",
			format:   "fixedlength",
			children: `[{record: {name: r, children: [{field: {name: f}}]}}]`,
			code:     CodeInvalidLayout,
		},
		{
			name:     "unknown target",
			children: `[{record: {name: r, target: valu, children: [{field: {name: value}}]}}]`,
			code:     CodeInvalidTarget,
			suggest:  []string{"value"},
		},
		{
			name: "map key missing",
			children: `[{record: {name: r, children: [
  {segment: {name: s, maxOccurs: 3, collection: map, key: id, children: [{field: {name: sku}}]}}]}}]`,
			code: CodeInvalidKey,
		},
		{
			name:     "invalid default",
			children: `[{record: {name: r, children: [{field: {name: f, type: int, default: abc}}]}}]`,
			code:     CodeInvalidDefault,
		},
		{
			name:     "decreasing order",
			children: `[{record: {name: a, order: 2, children: [{field: {name: f}}]}}, {record: {name: b, order: 1, children: [{field: {name: f}}]}}]`,
			code:     CodeInvalidOrder,
		},
		{
			name:     "min above default max",
			children: `[{record: {name: r, children: [{field: {name: f, minOccurs: 2}}]}}]`,
			code:     mapping.CodeInvalidOccurs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := tt.format
			if format == "" {
				format = "delimited"
			}

			_, err := compileYAML(t, fmt.Sprintf("streams: [{name: s, format: %s, children: %s}]", format, tt.children))

			var cerr *Error
			require.ErrorAs(t, err, &cerr)

			var found bool

			for _, d := range cerr.Diagnostics.Errors {
				if d.Code != tt.code {
					continue
				}

				found = true

				if tt.path != "" {
					assert.Equal(t, tt.path, d.Path)
				}

				if tt.suggest != nil {
					assert.Equal(t, tt.suggest, d.Suggestions)
				}
			}

			assert.True(t, found, "no %s diagnostic in %v", tt.code, err)
		})
	}
}

func TestAmbiguityWarning(t *testing.T) {
	res, err := compileYAML(t, `
streams:
  - name: s
    format: csv
    ordered: false
    children:
      - record: {name: any, children: [{field: {name: type, rid: true, regex: "[A-Z]"}}]}
      - record: {name: detail, children: [{field: {name: type, rid: true, regex: "[A-Z]"}}, {field: {name: kind, rid: true, literal: X}}]}
      - record: {name: other, children: [{field: {name: type, rid: true, literal: B}}]}
`)
	require.NoError(t, err)

	require.Len(t, res.Diagnostics.Warnings, 1)
	w := res.Diagnostics.Warnings[0]
	assert.Equal(t, CodeAmbiguousRecord, w.Code)
	assert.Equal(t, "stream 's': record 'detail'", w.Path)

	require.Len(t, res.Diagnostics.Infos, 1)
	info := res.Diagnostics.Infos[0]
	assert.Equal(t, CodeCompiled, info.Code)
	assert.Equal(t, "stream 's'", info.Path)
	assert.Contains(t, info.Message, "3 records")

	s, ok := res.Stream("s")
	require.True(t, ok)
	assert.False(t, s.Root.Ordered)
	assert.Equal(t, 1, s.Records[2].Order)
}

func TestCompileStream(t *testing.T) {
	c := New(nil, nil, nil)

	stream, err := c.Compile(&mapping.Stream{
		Name:   "plain",
		Format: mapping.FormatDelimited,
		Children: []mapping.Component{{
			Kind: mapping.KindRecord,
			Name: "line",
			Children: []mapping.Component{
				{Kind: mapping.KindField, Name: "text"},
			},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, parser.ModeReadWrite, stream.Mode)
	assert.Equal(t, 3, stream.NodeCount)

	_, err = c.Compile(&mapping.Stream{Name: "bad", Format: "xml"})
	assert.ErrorContains(t, err, "unsupported format")

	_, err = StrategyFor("json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
