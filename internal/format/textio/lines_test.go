package textio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("a\r\n# note\nb\n\n!x\nc"), []string{"#", "!"})

	type line struct {
		text string
		num  int
	}

	var got []line

	for {
		text, num, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		require.NoError(t, err)

		got = append(got, line{text, num})
	}

	assert.Equal(t, []line{{"a", 1}, {"b", 3}, {"", 4}, {"c", 6}}, got)
}

func TestLineReaderEmpty(t *testing.T) {
	_, _, err := NewLineReader(strings.NewReader(""), nil).Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestError(t *testing.T) {
	cause := errors.New("bad quote")
	err := &Error{Line: 7, Err: cause}

	assert.EqualError(t, err, "line 7: bad quote")
	assert.ErrorIs(t, err, cause)
}
