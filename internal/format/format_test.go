package format

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name   string
		format mapping.Format
		cfg    mapping.ParserConfig
		input  string
		want   []string
		text   string
	}{
		{name: "delimited", format: mapping.FormatDelimited, cfg: mapping.ParserConfig{Delimiter: "|"}, input: "a|b\n", want: []string{"a", "b"}, text: "a|b"},
		{name: "delimited default tab", format: mapping.FormatDelimited, input: "a\tb\n", want: []string{"a", "b"}, text: "a\tb"},
		{name: "csv", format: mapping.FormatCSV, input: "#x\n\"a,1\",b\n", cfg: mapping.ParserConfig{Comments: []string{"#"}}, want: []string{"a,1", "b"}, text: "a,1,b"},
		{name: "fixedlength", format: mapping.FormatFixedLength, input: "AB  C\n", text: "AB  C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, tt.cfg, strings.NewReader(tt.input))
			require.NoError(t, err)

			rec, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Fields)
			assert.Equal(t, tt.text, rec.Text)

			_, err = r.Read()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		format mapping.Format
		cfg    mapping.ParserConfig
		errMsg string
	}{
		{name: "long delimiter", format: mapping.FormatDelimited, cfg: mapping.ParserConfig{Delimiter: "||"}, errMsg: "single character"},
		{name: "escape equals delimiter", format: mapping.FormatDelimited, cfg: mapping.ParserConfig{Delimiter: "|", Escape: "|"}, errMsg: "must differ"},
		{name: "csv quote", format: mapping.FormatCSV, cfg: mapping.ParserConfig{Quote: "'"}, errMsg: "quote"},
		{name: "csv comments", format: mapping.FormatCSV, cfg: mapping.ParserConfig{Comments: []string{"#", ";"}}, errMsg: "one comment"},
		{name: "csv terminator", format: mapping.FormatCSV, cfg: mapping.ParserConfig{RecordTerminator: "|"}, errMsg: "terminator"},
		{name: "unknown format", format: mapping.Format("xml"), errMsg: "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.format, tt.cfg, strings.NewReader(""))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			_, err = NewWriter(tt.format, tt.cfg, io.Discard)
			require.Error(t, err)
		})
	}
}

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord(mapping.FormatCSV, mapping.ParserConfig{}, `1,"a ""b"""`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", `a "b"`}, rec.Fields)

	rec, err = ParseRecord(mapping.FormatDelimited, mapping.ParserConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, rec.Fields)
	assert.Equal(t, 1, rec.LineNumber)
}

func TestFormatRecord(t *testing.T) {
	text, err := FormatRecord(mapping.FormatCSV, mapping.ParserConfig{RecordTerminator: "\r\n"}, &parser.RawRecord{Fields: []string{"a", "b c", "d,e"}})
	require.NoError(t, err)
	assert.Equal(t, `a,b c,"d,e"`, text)

	text, err = FormatRecord(mapping.FormatDelimited, mapping.ParserConfig{Delimiter: ",", Escape: "\\"}, &parser.RawRecord{Fields: []string{"a,b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, `a\,b,c`, text)

	text, err = FormatRecord(mapping.FormatFixedLength, mapping.ParserConfig{}, &parser.RawRecord{Text: "AB  "})
	require.NoError(t, err)
	assert.Equal(t, "AB  ", text)
}
