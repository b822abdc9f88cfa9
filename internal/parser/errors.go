package parser

import (
	"errors"
	"fmt"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

var (
	// ErrReadOnly is returned when writing to a stream in read mode.
	ErrReadOnly = errors.New("stream is read only")
	// ErrWriteOnly is returned when reading from a stream in write mode.
	ErrWriteOnly = errors.New("stream is write only")
	// ErrUnknownRecord is returned when a record name is not declared in the stream.
	ErrUnknownRecord = errors.New("unknown record")
	// ErrNoRecord is returned when no record of the stream can write an object.
	ErrNoRecord = errors.New("no record for object")
)

// InvalidRecordError reports a record that was identified but failed validation.
type InvalidRecordError struct {
	Context *RecordContext
}

func (e *InvalidRecordError) Error() string {
	return "invalid " + e.Context.String()
}

// UnexpectedRecordError reports a record that occurred out of sequence.
type UnexpectedRecordError struct {
	// RecordName is the record the raw record identifies as, empty when unknown.
	RecordName string
	// Expected names the record or group that has not occurred often enough.
	Expected   string
	LineNumber int
	Text       string
}

func (e *UnexpectedRecordError) Error() string {
	name := e.RecordName
	if name == "" {
		name = common.UnknownStr
	}

	if e.Expected == "" {
		return fmt.Sprintf("unexpected record %s at line %d", common.Quote(name), e.LineNumber)
	}

	return fmt.Sprintf("unexpected record %s at line %d, expected %s",
		common.Quote(name), e.LineNumber, common.Quote(e.Expected))
}

// UnidentifiedRecordError reports a raw record no record of the stream identifies.
type UnidentifiedRecordError struct {
	LineNumber int
	Text       string
}

func (e *UnidentifiedRecordError) Error() string {
	return fmt.Sprintf("unidentified record at line %d", e.LineNumber)
}

// MissingRecordError reports a mandatory record or group absent at the end of the stream.
type MissingRecordError struct {
	Name       string
	Kind       NodeKind
	LineNumber int
}

func (e *MissingRecordError) Error() string {
	return fmt.Sprintf("expected %s %s before end of stream at line %d",
		e.Kind, common.Quote(e.Name), e.LineNumber)
}

// IsSequenceError reports whether err is a structural error: an unexpected, unidentified
// or missing record.
func IsSequenceError(err error) bool {
	var (
		unexpected   *UnexpectedRecordError
		unidentified *UnidentifiedRecordError
		missing      *MissingRecordError
	)

	return errors.As(err, &unexpected) || errors.As(err, &unidentified) || errors.As(err, &missing)
}
