package compiler

import (
	"errors"
	"fmt"

	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// ErrUnsupportedFormat is returned for formats without a strategy.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Strategy supplies the format dependent parts of compilation.
type Strategy interface {
	Format() mapping.Format
	Layout() parser.Layout
	// FieldWidth returns how many positions one occurrence of a field occupies.
	FieldWidth(c *mapping.Component) (int, error)
	// RequiresLength reports whether every field must declare a length.
	RequiresLength() bool
}

// StrategyFor returns the strategy of a stream format.
func StrategyFor(format mapping.Format) (Strategy, error) {
	switch format {
	case mapping.FormatDelimited, mapping.FormatCSV:
		return delimitedStrategy{format: format}, nil
	case mapping.FormatFixedLength:
		return fixedLengthStrategy{}, nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
}

type delimitedStrategy struct {
	format mapping.Format
}

func (s delimitedStrategy) Format() mapping.Format { return s.format }

func (delimitedStrategy) Layout() parser.Layout { return parser.DelimitedLayout{} }

func (delimitedStrategy) FieldWidth(*mapping.Component) (int, error) { return 1, nil }

func (delimitedStrategy) RequiresLength() bool { return false }

type fixedLengthStrategy struct{}

func (fixedLengthStrategy) Format() mapping.Format { return mapping.FormatFixedLength }

func (fixedLengthStrategy) Layout() parser.Layout { return parser.FixedLayout{} }

func (fixedLengthStrategy) FieldWidth(c *mapping.Component) (int, error) {
	if c.Length == nil {
		return 0, errors.New("fixed-length fields need a length")
	}

	return *c.Length, nil
}

func (fixedLengthStrategy) RequiresLength() bool { return true }
