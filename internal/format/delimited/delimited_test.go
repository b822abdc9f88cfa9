package delimited

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/internal/format/textio"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		escape rune
		want   []string
	}{
		{name: "plain", text: "a|b||c", want: []string{"a", "b", "", "c"}},
		{name: "empty line", text: "", want: []string{""}},
		{name: "escaped delimiter", text: `a\|b|c`, escape: '\\', want: []string{"a|b", "c"}},
		{name: "escaped escape", text: `a\\|b`, escape: '\\', want: []string{`a\`, "b"}},
		{name: "escape disabled", text: `a\|b`, want: []string{`a\`, "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.text, '|', tt.escape)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitDanglingEscape(t *testing.T) {
	_, err := Split(`a|b\`, '|', '\\')
	assert.ErrorIs(t, err, ErrDanglingEscape)
}

func TestJoinInvertsSplit(t *testing.T) {
	fields := []string{`a|b`, `c\`, "", "d"}
	text := Join(fields, '|', '\\')

	assert.Equal(t, `a\|b|c\\||d`, text)

	got, err := Split(text, '|', '\\')
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader("a,b\n#skip\nc\\\n"), Config{Delimiter: ',', Escape: '\\', Comments: []string{"#"}})

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec.Fields)
	assert.Equal(t, "a,b", rec.Text)
	assert.Equal(t, 1, rec.LineNumber)

	_, err = r.Read()

	var lineErr *textio.Error
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 3, lineErr.Line)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, r.Close())
}

func TestReaderDefaultsToTab(t *testing.T) {
	rec, err := NewReader(strings.NewReader("x\ty"), Config{}).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, rec.Fields)
}

func TestWriter(t *testing.T) {
	var sb strings.Builder

	w := NewWriter(&sb, Config{Delimiter: ',', RecordTerminator: "\r\n"})
	require.NoError(t, w.Write(&parser.RawRecord{Fields: []string{"a", "b"}}))
	require.NoError(t, w.Write(&parser.RawRecord{Fields: []string{"c"}}))
	require.NoError(t, w.Close())

	assert.Equal(t, "a,b\r\nc\r\n", sb.String())
}
