package fixedlength

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/internal/parser"
)

func TestReader(t *testing.T) {
	r := NewReader(strings.NewReader("H 20240101\n;c\nD   42  \n"), Config{Comments: []string{";"}})

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "H 20240101", rec.Text)
	assert.Nil(t, rec.Fields)

	rec, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, "D   42  ", rec.Text)
	assert.Equal(t, 3, rec.LineNumber)

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriter(t *testing.T) {
	var sb strings.Builder

	w := NewWriter(&sb, Config{})
	require.NoError(t, w.Write(&parser.RawRecord{Text: "AB  "}))
	require.NoError(t, w.Write(&parser.RawRecord{Text: "C"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, "AB  \nC\n", sb.String())
}
