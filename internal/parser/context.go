package parser

import (
	"fmt"
	"strings"
)

// Validation error codes.
const (
	CodeRequired  = "required"
	CodeLiteral   = "literal"
	CodeRegex     = "regex"
	CodeMinLength = "minLength"
	CodeMaxLength = "maxLength"
	CodeType      = "type"
	CodeMinOccurs = "minOccurs"
	CodeMaxOccurs = "maxOccurs"
	CodeLength    = "length"
)

// ValidationError is one failed check on a record or field.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) String() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// RecordContext describes the last record a session read: its raw text, the text of
// each field and every validation error.
type RecordContext struct {
	RecordName string
	LineNumber int
	RecordText string

	recordErrors []ValidationError
	fieldErrors  map[string][]ValidationError
	fieldOrder   []string
	fieldText    map[string]string
}

func newRecordContext(name string, rec *RawRecord) *RecordContext {
	return &RecordContext{
		RecordName:  name,
		LineNumber:  rec.LineNumber,
		RecordText:  rec.Text,
		fieldErrors: make(map[string][]ValidationError),
		fieldText:   make(map[string]string),
	}
}

func (c *RecordContext) addRecordError(code, msg string) {
	c.recordErrors = append(c.recordErrors, ValidationError{Code: code, Message: msg})
}

func (c *RecordContext) addFieldError(path string, e ValidationError) {
	if _, ok := c.fieldErrors[path]; !ok {
		c.fieldOrder = append(c.fieldOrder, path)
	}

	c.fieldErrors[path] = append(c.fieldErrors[path], e)
}

func (c *RecordContext) setFieldText(path, text string) {
	if _, ok := c.fieldText[path]; !ok {
		c.fieldText[path] = text
	}
}

// HasErrors reports whether any record or field error was collected.
func (c *RecordContext) HasErrors() bool {
	return len(c.recordErrors) > 0 || len(c.fieldErrors) > 0
}

// RecordErrors returns errors that apply to the record as a whole.
func (c *RecordContext) RecordErrors() []ValidationError {
	return c.recordErrors
}

// FieldErrors returns the errors of the field at path.
func (c *RecordContext) FieldErrors(path string) []ValidationError {
	return c.fieldErrors[path]
}

// FieldsWithErrors returns the paths of invalid fields in the order they were reported.
func (c *RecordContext) FieldsWithErrors() []string {
	return c.fieldOrder
}

// FieldText returns the raw text of the first occurrence of the field at path.
func (c *RecordContext) FieldText(path string) (string, bool) {
	text, ok := c.fieldText[path]

	return text, ok
}

func (c *RecordContext) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "record %q at line %d", c.RecordName, c.LineNumber)

	for _, e := range c.recordErrors {
		fmt.Fprintf(&sb, "\n  %s", e)
	}

	for _, path := range c.fieldOrder {
		for _, e := range c.fieldErrors[path] {
			fmt.Fprintf(&sb, "\n  %s: %s", path, e)
		}
	}

	return sb.String()
}
