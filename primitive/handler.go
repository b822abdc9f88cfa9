package primitive

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Handler converts between field text and a typed value.
type Handler interface {
	// Kind is the kind of values Parse returns.
	Kind() KindEnum
	Parse(text string) (any, error)
	// Format renders value, which may be of any kind convertible to Kind.
	Format(value any) (string, error)
}

var (
	ErrUnknownType   = errors.New("unknown type")
	ErrInvalidFormat = errors.New("invalid format")
)

// Format values understood by time and duration handlers in addition to time layouts.
const (
	FormatUnix        = "unix"
	FormatNanoseconds = "ns"
	FormatSeconds     = "s"
)

// NewHandler builds the handler for kind k. The format is a time layout for KindTime,
// one of "", "ns" or "s" for KindDuration, a fmt verb such as "%08.2f" for numbers and a
// "true|false" text pair for KindBool.
func NewHandler(k KindEnum, format string, categories CategoryEnum) (Handler, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, k)
	}

	h := &kindHandler{kind: k, format: format, categories: categories}

	switch {
	case k == KindBool && format != "":
		t, f, ok := strings.Cut(format, "|")
		if !ok || t == "" || t == f {
			return nil, fmt.Errorf("%w: boolean format %q must be \"true|false\" text", ErrInvalidFormat, format)
		}

		h.trueText, h.falseText = t, f

	case k == KindDuration:
		switch format {
		case "", FormatNanoseconds, FormatSeconds:
		default:
			return nil, fmt.Errorf("%w: duration format %q", ErrInvalidFormat, format)
		}

	case k.IsNumber() && format != "":
		if !strings.HasPrefix(format, "%") {
			return nil, fmt.Errorf("%w: number format %q must be a fmt verb", ErrInvalidFormat, format)
		}

	case k == KindTime && format == "" && !categories.Has(CategoryDatetime) && !categories.Has(CategoryTimestamp):
		return nil, fmt.Errorf("%w: time fields need a layout", ErrInvalidFormat)
	}

	return h, nil
}

type kindHandler struct {
	kind       KindEnum
	format     string
	categories CategoryEnum

	trueText, falseText string
}

func (h *kindHandler) Kind() KindEnum { return h.kind }

func (h *kindHandler) Parse(text string) (any, error) {
	k := h.kind

	switch {
	case k == KindString:
		return text, nil

	case k.IsSigned():
		n, err := strconv.ParseInt(text, 10, k.Bits())
		if err != nil {
			return nil, h.invalid(text)
		}

		return reflect.ValueOf(n).Convert(k.ReflectType()).Interface(), nil

	case k.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, k.Bits())
		if err != nil {
			return nil, h.invalid(text)
		}

		return reflect.ValueOf(n).Convert(k.ReflectType()).Interface(), nil

	case k.IsFloat():
		f, err := strconv.ParseFloat(text, k.Bits())
		if err != nil {
			return nil, h.invalid(text)
		}

		if k == KindFloat32 {
			return float32(f), nil
		}

		return f, nil

	case k == KindBool:
		return h.parseBool(text)

	case k == KindTime:
		return h.parseTime(text)

	case k == KindDuration:
		return h.parseDuration(text)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownType, k)
}

func (h *kindHandler) invalid(text string) error {
	return fmt.Errorf("invalid %s value %q", typeName(h.kind), text)
}

func (h *kindHandler) parseBool(text string) (any, error) {
	if h.trueText != "" {
		switch text {
		case h.trueText:
			return true, nil
		case h.falseText:
			return false, nil
		}

		return nil, h.invalid(text)
	}

	switch strings.ToLower(text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "1":
		if h.categories.Has(CategoryNumericBool) {
			return true, nil
		}
	case "0":
		if h.categories.Has(CategoryNumericBool) {
			return false, nil
		}
	case "yes", "y", "on":
		if h.categories.Has(CategoryTextualBool) {
			return true, nil
		}
	case "no", "n", "off":
		if h.categories.Has(CategoryTextualBool) {
			return false, nil
		}
	}

	return nil, h.invalid(text)
}

func (h *kindHandler) parseTime(text string) (any, error) {
	switch {
	case h.format == FormatUnix || h.format == "" && h.categories.Has(CategoryTimestamp) && isDigits(text):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, h.invalid(text)
		}

		return time.Unix(n, 0).UTC(), nil

	case h.format == "":
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, h.invalid(text)
		}

		return t, nil
	}

	t, err := time.Parse(h.format, text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q, expected layout %q", typeName(h.kind), text, h.format)
	}

	return t, nil
}

func (h *kindHandler) parseDuration(text string) (any, error) {
	switch {
	case h.format == FormatSeconds:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, h.invalid(text)
		}

		return time.Duration(f * float64(time.Second)), nil

	case h.format == FormatNanoseconds || h.categories.Has(CategoryNanoseconds) && isDigits(text):
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, h.invalid(text)
		}

		return time.Duration(n), nil
	}

	d, err := time.ParseDuration(text)
	if err != nil {
		return nil, h.invalid(text)
	}

	return d, nil
}

func (h *kindHandler) Format(value any) (string, error) {
	if value == nil {
		return "", nil
	}

	if from := FromReflectType(reflect.TypeOf(value)); from != h.kind {
		converted, err := Convert(value, h.kind.ReflectType(), h.categories|CategoryEnumString)
		if err != nil {
			return "", err
		}

		value = converted
	}

	k := h.kind
	v := reflect.ValueOf(value)

	switch {
	case k.IsNumber() && h.format != "":
		return fmt.Sprintf(h.format, value), nil

	case k == KindBool && h.trueText != "":
		if v.Bool() {
			return h.trueText, nil
		}

		return h.falseText, nil

	case k == KindTime:
		t := value.(time.Time)
		switch h.format {
		case "":
			return t.Format(time.RFC3339Nano), nil
		case FormatUnix:
			return strconv.FormatInt(t.Unix(), 10), nil
		}

		return t.Format(h.format), nil

	case k == KindDuration:
		d := value.(time.Duration)
		switch h.format {
		case FormatNanoseconds:
			return strconv.FormatInt(int64(d), 10), nil
		case FormatSeconds:
			return strconv.FormatFloat(d.Seconds(), 'f', -1, 64), nil
		}

		return d.String(), nil
	}

	return formatScalar(v, k), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func typeName(k KindEnum) string {
	return strings.ToLower(strings.TrimPrefix(k.String(), "Kind"))
}
