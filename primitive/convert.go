package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// ErrNotConvertible is returned when no enabled category converts between two kinds.
var ErrNotConvertible = errors.New("value is not convertible")

// Convert converts value to type to, honouring the enabled categories. A nil value
// converts to the zero value of to.
func Convert(value any, to reflect.Type, allowed CategoryEnum) (any, error) {
	if value == nil {
		return reflect.Zero(to).Interface(), nil
	}

	src := reflect.ValueOf(value)
	if src.Type() == to {
		return value, nil
	}

	if to.Kind() == reflect.Interface {
		if src.Type().Implements(to) {
			return value, nil
		}

		return nil, fmt.Errorf("%w: %s does not implement %s", ErrNotConvertible, src.Type(), to)
	}

	from, dst := FromReflectType(src.Type()), FromReflectType(to)
	if from == 0 || dst == 0 || !allowed.Allows(from, dst) {
		return nil, fmt.Errorf("%w: %s to %s", ErrNotConvertible, src.Type(), to)
	}

	out, err := convertValue(src, from, dst, to)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

func convertValue(src reflect.Value, from, dst KindEnum, to reflect.Type) (reflect.Value, error) {
	switch {
	case from == KindPrimitiveEnum || dst == KindPrimitiveEnum:
		return convertEnum(src, to)

	case from.IsNumber() && dst.IsNumber():
		return convertNumber(src, from, dst, to)

	case from == KindString:
		return parseInto(src.String(), dst, to)

	case dst == KindString:
		return reflect.ValueOf(formatScalar(src, from)), nil

	case from == KindBool && dst.IsInteger():
		if src.Bool() {
			return reflect.ValueOf(1).Convert(to), nil
		}

		return reflect.Zero(to), nil

	case from.IsInteger() && dst == KindBool:
		return reflect.ValueOf(asFloat(src, from) != 0), nil

	case from.IsInteger() && dst == KindTime:
		return reflect.ValueOf(time.Unix(int64(asFloat(src, from)), 0).UTC()), nil

	case from == KindTime && dst.IsInteger():
		return reflect.ValueOf(src.Interface().(time.Time).Unix()).Convert(to), nil

	case from.IsInteger() && dst == KindDuration:
		return reflect.ValueOf(time.Duration(int64(asFloat(src, from)))), nil

	case from.IsFloat() && dst == KindDuration:
		return reflect.ValueOf(time.Duration(src.Float() * float64(time.Second))), nil

	case from == KindDuration && dst.IsInteger():
		return reflect.ValueOf(src.Int()).Convert(to), nil

	case from == KindDuration && dst.IsFloat():
		return reflect.ValueOf(time.Duration(src.Int()).Seconds()).Convert(to), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, src.Type(), to)
}

func convertEnum(src reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !src.Type().ConvertibleTo(to) {
		return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, src.Type(), to)
	}

	// int to string conversion yields a rune, which is never what a record means
	if to.Kind() == reflect.String && src.Kind() != reflect.String {
		return reflect.ValueOf(strconv.FormatInt(src.Int(), 10)).Convert(to), nil
	}

	if src.Kind() == reflect.String && to.Kind() != reflect.String {
		n, err := strconv.ParseInt(src.String(), 10, 64)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %q is not an integer", ErrNotConvertible, src.String())
		}

		return reflect.ValueOf(n).Convert(to), nil
	}

	return src.Convert(to), nil
}

func convertNumber(src reflect.Value, from, dst KindEnum, to reflect.Type) (reflect.Value, error) {
	f := asFloat(src, from)

	if dst.IsInteger() {
		if f != math.Trunc(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v has a fractional part", ErrNotConvertible, f)
		}

		out := reflect.New(to).Elem()
		if dst.IsSigned() {
			if from.IsUnsigned() && src.Uint() > math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrNotConvertible, src.Interface(), to)
			}

			if from.IsSigned() {
				out.SetInt(src.Int())
			} else {
				out.SetInt(int64(f))
			}

			return out, nil
		}

		if f < 0 || from.IsUnsigned() && out.OverflowUint(src.Uint()) || !from.IsUnsigned() && out.OverflowUint(uint64(f)) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrNotConvertible, src.Interface(), to)
		}

		if from.IsUnsigned() {
			out.SetUint(src.Uint())
		} else {
			out.SetUint(uint64(f))
		}

		return out, nil
	}

	return reflect.ValueOf(f).Convert(to), nil
}

func asFloat(v reflect.Value, k KindEnum) float64 {
	switch {
	case k.IsSigned():
		return float64(v.Int())
	case k.IsUnsigned():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func parseInto(text string, dst KindEnum, to reflect.Type) (reflect.Value, error) {
	h := &kindHandler{kind: dst, categories: CategoryAll}

	parsed, err := h.Parse(text)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(parsed).Convert(to), nil
}

func formatScalar(v reflect.Value, k KindEnum) string {
	switch {
	case k.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case k.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	case k.IsFloat():
		return strconv.FormatFloat(v.Float(), 'f', -1, k.Bits())
	case k == KindBool:
		return strconv.FormatBool(v.Bool())
	case k == KindTime:
		return v.Interface().(time.Time).Format(time.RFC3339Nano)
	case k == KindDuration:
		return time.Duration(v.Int()).String()
	default:
		return fmt.Sprint(v.Interface())
	}
}
