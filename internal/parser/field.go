package parser

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field is a leaf node: one token of a delimited record, or a run of characters in a
// fixed-length record.
type Field struct {
	Component

	// Property is the bound property, empty when the field is not bound.
	Property string
	// Path is the dotted name of the field within its record, e.g. "address.city". It
	// keys field text and field errors in a RecordContext.
	Path string

	// Position is relative to the start of the parent record or segment occurrence.
	Position int
	// Offset is the position within the record when no variable-length component
	// precedes the field, -1 otherwise.
	Offset int
	// Width is how many tokens or characters one occurrence consumes.
	Width int

	// Length pads field text to a fixed number of characters when positive.
	Length  int
	Padding rune
	Justify Justify

	Literal    string
	HasLiteral bool
	// Regex must match the whole field text.
	Regex *regexp.Regexp

	// Identifier fields decide which record a raw record is.
	Identifier bool
	Required   bool
	Trim       bool

	Default     any
	DefaultText string
	HasDefault  bool

	MinLength int
	MaxLength int

	// TypeName is the type tag or handler name the field was declared with.
	TypeName  string
	Converter Converter

	Collection Collection
	// Ignore fields are read and validated but never bound.
	Ignore bool
	// Governs is set on fields other nodes use as their OccursRef.
	Governs bool
}

func (*Field) Kind() NodeKind { return KindField }

// decode strips padding and, when configured, surrounding white space from raw text.
func (f *Field) decode(raw string) string {
	text := raw

	if f.Length > 0 {
		text = f.unpad(text)
	}

	if f.Trim {
		text = strings.TrimSpace(text)
	}

	return text
}

func (f *Field) unpad(s string) string {
	pad := string(f.Padding)

	var out string
	if f.Justify == JustifyRight {
		out = strings.TrimLeft(s, pad)
	} else {
		out = strings.TrimRight(s, pad)
	}

	// zero padding of a zero value leaves one digit behind
	if out == "" && s != "" && unicode.IsDigit(f.Padding) {
		return pad
	}

	return out
}

// encode pads text to Length. Text longer than Length is an error.
func (f *Field) encode(text string) (string, error) {
	if f.Length <= 0 {
		return text, nil
	}

	n := utf8.RuneCountInString(text)
	if n > f.Length {
		return "", fmt.Errorf("field %s: value %q exceeds length %d", f.Path, text, f.Length)
	}

	padding := strings.Repeat(string(f.Padding), f.Length-n)
	if f.Justify == JustifyRight {
		return padding + text, nil
	}

	return text + padding, nil
}

// matches reports whether decoded text satisfies the literal and regex constraints.
func (f *Field) matches(text string) bool {
	if f.HasLiteral && text != f.Literal {
		return false
	}

	return f.Regex == nil || f.Regex.MatchString(text)
}

// parse validates decoded text and converts it. The returned error is a field validation
// error ready for a RecordContext.
func (f *Field) parse(text string) (any, *ValidationError) {
	if text == "" {
		if f.Required {
			return nil, &ValidationError{Code: CodeRequired, Message: "Required field not set"}
		}

		if f.HasDefault {
			return f.Default, nil
		}

		return nil, nil
	}

	if f.HasLiteral && text != f.Literal {
		return nil, &ValidationError{Code: CodeLiteral, Message: fmt.Sprintf("Expected literal %q", f.Literal)}
	}

	n := utf8.RuneCountInString(text)
	if n < f.MinLength {
		return nil, &ValidationError{Code: CodeMinLength, Message: fmt.Sprintf("Expected minimum length %d, found %d", f.MinLength, n)}
	}

	if f.MaxLength != Unbounded && n > f.MaxLength {
		return nil, &ValidationError{Code: CodeMaxLength, Message: fmt.Sprintf("Expected maximum length %d, found %d", f.MaxLength, n)}
	}

	if f.Regex != nil && !f.Regex.MatchString(text) {
		return nil, &ValidationError{Code: CodeRegex, Message: fmt.Sprintf("Value does not match pattern %q", f.Regex.String())}
	}

	if f.Converter == nil {
		return text, nil
	}

	v, err := f.Converter.Parse(text)
	if err != nil {
		return nil, &ValidationError{Code: CodeType, Message: "Type conversion error: " + err.Error()}
	}

	return v, nil
}

// format renders a value for writing. A nil value writes the literal, then the default,
// then nothing; omit reports that an optional unpadded field can be left out entirely.
func (f *Field) format(value any) (text string, omit bool, err error) {
	switch {
	case value != nil && f.Converter != nil:
		text, err = f.Converter.Format(value)
		if err != nil {
			return "", false, fmt.Errorf("field %s: %w", f.Path, err)
		}
	case value != nil:
		text = fmt.Sprint(value)
	case f.HasLiteral:
		text = f.Literal
	case f.HasDefault:
		text = f.DefaultText
	default:
		omit = f.MinOccurs == 0 && f.Length <= 0
	}

	// zero string properties write the literal
	if f.HasLiteral && text == "" {
		text = f.Literal
	}

	if f.HasLiteral && text != f.Literal {
		return "", false, fmt.Errorf("field %s: value %q does not match literal %q", f.Path, text, f.Literal)
	}

	text, err = f.encode(text)

	return text, omit, err
}

// occurrences converts the decoded value of a governing field to a count.
func occurrences(value any) (int, bool) {
	if value == nil {
		return 0, true
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n := v.Int(); n >= 0 && n <= math.MaxInt {
			return int(n), true
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n := v.Uint(); n <= math.MaxInt {
			return int(n), true
		}
	case reflect.String:
		n, err := strconv.Atoi(v.String())
		return n, err == nil && n >= 0
	}

	return 0, false
}
