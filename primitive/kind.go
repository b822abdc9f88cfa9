// Package primitive converts field text to typed values and back.
//
// A KindEnum names one of the scalar Go types a field can carry. Handlers are resolved
// from a type tag used in mapping files ("int", "long", "date", ...) or from a named
// handler registered in a Registry, and categories control which lenient textual forms
// and cross-kind conversions a Registry accepts.
package primitive

import (
	"math"
	"reflect"
	"strings"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // alias to any integer number or string based named type

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// typeTags maps the type names accepted in mapping files to kinds.
var typeTags = map[string]KindEnum{
	"int":       KindInt,
	"integer":   KindInt,
	"int8":      KindInt8,
	"byte":      KindUint8,
	"int16":     KindInt16,
	"short":     KindInt16,
	"int32":     KindInt32,
	"int64":     KindInt64,
	"long":      KindInt64,
	"uint":      KindUint,
	"uint8":     KindUint8,
	"uint16":    KindUint16,
	"uint32":    KindUint32,
	"uint64":    KindUint64,
	"float32":   KindFloat32,
	"float":     KindFloat32,
	"float64":   KindFloat64,
	"double":    KindFloat64,
	"decimal":   KindFloat64,
	"bool":      KindBool,
	"boolean":   KindBool,
	"string":    KindString,
	"char":      KindString,
	"time":      KindTime,
	"date":      KindTime,
	"datetime":  KindTime,
	"timestamp": KindTime,
	"duration":  KindDuration,
}

// ParseKind resolves a mapping type tag, case-insensitively. The empty tag is a string.
func ParseKind(tag string) (KindEnum, bool) {
	if tag == "" {
		return KindString, true
	}

	k, ok := typeTags[strings.ToLower(tag)]

	return k, ok
}

// IsValid reports whether k is a concrete kind a handler can be built for.
func (k KindEnum) IsValid() bool {
	return k > 0 && k < KindPrimitiveEnum
}

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits is the bit size strconv needs to range-check a number of kind k.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only number kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

var reflectTypes = [...]reflect.Type{
	KindInt:      reflect.TypeOf(int(0)),
	KindInt8:     reflect.TypeOf(int8(0)),
	KindInt16:    reflect.TypeOf(int16(0)),
	KindInt32:    reflect.TypeOf(int32(0)),
	KindInt64:    reflect.TypeOf(int64(0)),
	KindUint:     reflect.TypeOf(uint(0)),
	KindUint8:    reflect.TypeOf(uint8(0)),
	KindUint16:   reflect.TypeOf(uint16(0)),
	KindUint32:   reflect.TypeOf(uint32(0)),
	KindUint64:   reflect.TypeOf(uint64(0)),
	KindFloat32:  reflect.TypeOf(float32(0)),
	KindFloat64:  reflect.TypeOf(float64(0)),
	KindBool:     reflect.TypeOf(false),
	KindString:   reflect.TypeOf(""),
	KindTime:     reflect.TypeOf(time.Time{}),
	KindDuration: reflect.TypeOf(time.Duration(0)),
}

// ReflectType returns the Go type values of kind k are parsed into, or nil for
// KindPrimitiveEnum and invalid kinds.
func (k KindEnum) ReflectType() reflect.Type {
	if !k.IsValid() {
		return nil
	}

	return reflectTypes[k]
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	for k := KindInt; k < KindPrimitiveEnum; k++ {
		if reflectTypes[k] == rtype {
			return k
		}
	}

	// check if it's a primitive enum type
	switch rtype.Kind() {
	default:
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
		return KindPrimitiveEnum
	}
}
