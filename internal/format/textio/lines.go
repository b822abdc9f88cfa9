// Package textio holds the line reading shared by the line oriented formats.
package textio

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// LineReader yields physical lines without their terminator, skipping comment lines.
// Formats whose records are single lines build on it.
type LineReader struct {
	r        *bufio.Reader
	comments []string
	line     int
}

// NewLineReader reads lines from r. Lines starting with any of the comment prefixes are
// skipped.
func NewLineReader(r io.Reader, comments []string) *LineReader {
	return &LineReader{r: bufio.NewReader(r), comments: comments}
}

// Next returns the next record line and its 1-based line number, io.EOF after the last.
func (l *LineReader) Next() (string, int, error) {
	for {
		text, err := l.r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", 0, err
		}

		if text == "" && err != nil {
			return "", 0, io.EOF
		}

		l.line++
		text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")

		if l.isComment(text) {
			continue
		}

		return text, l.line, nil
	}
}

func (l *LineReader) isComment(text string) bool {
	for _, prefix := range l.comments {
		if prefix != "" && strings.HasPrefix(text, prefix) {
			return true
		}
	}

	return false
}
