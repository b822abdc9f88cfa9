package bind

import (
	"reflect"

	"github.com/kevinseim/beanio-sub003/primitive"
)

//go:generate go tool stringer -type=ShapeEnum -trimprefix=Shape -output=shape_string.go

// ShapeEnum classifies a property type by how a value is assigned to it.
type ShapeEnum int

const (
	ShapeUnknown ShapeEnum = iota
	ShapePrimitive
	ShapeInterface
	ShapeSlice
	ShapeArray
	ShapeMap
	ShapeStruct

	// ShapeTotal is a constant that represents the total number of shapes defined
	ShapeTotal = int(iota)
)

// IsCollection reports whether a property of this shape holds repeated values.
func (s ShapeEnum) IsCollection() bool {
	return s == ShapeSlice || s == ShapeArray || s == ShapeMap
}

// ShapeOf dispatches on a property type, looking through pointers.
func ShapeOf(t reflect.Type) ShapeEnum {
	if t == nil {
		return ShapeUnknown
	}

	t = indirect(t)

	// time.Time is a struct, but binds like a scalar
	if primitive.FromReflectType(t) != 0 {
		return ShapePrimitive
	}

	switch t.Kind() {
	case reflect.Interface:
		return ShapeInterface
	case reflect.Slice:
		return ShapeSlice
	case reflect.Array:
		return ShapeArray
	case reflect.Map:
		return ShapeMap
	case reflect.Struct:
		return ShapeStruct
	case reflect.Bool, reflect.Float32, reflect.Float64:
		return ShapePrimitive
	default:
		return ShapeUnknown
	}
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}
