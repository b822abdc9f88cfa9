package primitive_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/primitive"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		tag  string
		want primitive.KindEnum
		ok   bool
	}{
		{"", primitive.KindString, true},
		{"int", primitive.KindInt, true},
		{"Long", primitive.KindInt64, true},
		{"double", primitive.KindFloat64, true},
		{"boolean", primitive.KindBool, true},
		{"date", primitive.KindTime, true},
		{"duration", primitive.KindDuration, true},
		{"money", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			k, ok := primitive.ParseKind(tt.tag)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestFromReflectType(t *testing.T) {
	type IntEnum int
	type StringEnum string

	assert.Equal(t, primitive.KindInt, primitive.FromReflectType(reflect.TypeOf(0)))
	assert.Equal(t, primitive.KindTime, primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	assert.Equal(t, primitive.KindDuration, primitive.FromReflectType(reflect.TypeOf(time.Second)))
	assert.Equal(t, primitive.KindPrimitiveEnum, primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	assert.Equal(t, primitive.KindPrimitiveEnum, primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	assert.Equal(t, primitive.KindEnum(0), primitive.FromReflectType(reflect.TypeOf(struct{}{})))
	assert.Equal(t, "KindEnum(0)", primitive.KindEnum(0).String())
}

func TestHandlerParse(t *testing.T) {
	reg := primitive.NewRegistry()

	tests := []struct {
		name    string
		typeTag string
		format  string
		text    string
		want    any
		wantErr bool
	}{
		{name: "int", typeTag: "int", text: "0042", want: 42},
		{name: "negative long", typeTag: "long", text: "-7", want: int64(-7)},
		{name: "int8 overflow", typeTag: "int8", text: "300", wantErr: true},
		{name: "uint negative", typeTag: "uint", text: "-1", wantErr: true},
		{name: "float", typeTag: "float", text: "1.5", want: float32(1.5)},
		{name: "double", typeTag: "double", text: "2.25", want: 2.25},
		{name: "bool yes", typeTag: "bool", text: "Yes", want: true},
		{name: "bool numeric", typeTag: "bool", text: "0", want: false},
		{name: "bool pair", typeTag: "bool", format: "Y|N", text: "N", want: false},
		{name: "bool pair rejects", typeTag: "bool", format: "Y|N", text: "yes", wantErr: true},
		{name: "date layout", typeTag: "date", format: "20060102", text: "20240131", want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{name: "date layout mismatch", typeTag: "date", format: "20060102", text: "2024-01-31", wantErr: true},
		{name: "datetime default", typeTag: "datetime", text: "2024-01-31T10:00:00Z", want: time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)},
		{name: "unix", typeTag: "time", format: "unix", text: "86400", want: time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "duration", typeTag: "duration", text: "1m30s", want: 90 * time.Second},
		{name: "duration seconds", typeTag: "duration", format: "s", text: "1.5", want: 1500 * time.Millisecond},
		{name: "string keeps spaces", typeTag: "string", text: " a ", want: " a "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := reg.Lookup(tt.typeTag, tt.format)
			require.NoError(t, err)

			got, err := h.Parse(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandlerFormat(t *testing.T) {
	type Status string

	reg := primitive.NewRegistry()

	tests := []struct {
		name    string
		typeTag string
		format  string
		value   any
		want    string
		wantErr bool
	}{
		{name: "nil", typeTag: "int", value: nil, want: ""},
		{name: "int", typeTag: "int", value: 12, want: "12"},
		{name: "widen int8", typeTag: "long", value: int8(3), want: "3"},
		{name: "narrowing rejected", typeTag: "int8", value: int64(3), wantErr: true},
		{name: "text number", typeTag: "int", value: "17", want: "17"},
		{name: "fmt verb", typeTag: "double", format: "%08.2f", value: 3.5, want: "00003.50"},
		{name: "bool pair", typeTag: "bool", format: "Y|N", value: true, want: "Y"},
		{name: "date", typeTag: "date", format: "2006-01-02", value: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), want: "2024-02-29"},
		{name: "duration ns", typeTag: "duration", format: "ns", value: time.Microsecond, want: "1000"},
		{name: "enum string", typeTag: "string", value: Status("OPEN"), want: "OPEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := reg.Lookup(tt.typeTag, tt.format)
			require.NoError(t, err)

			got, err := h.Format(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, primitive.ErrNotConvertible)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := primitive.NewRegistry(primitive.CategoryAll)

	require.NoError(t, reg.RegisterKind("yyyymmdd", "date", "20060102"))
	assert.Error(t, reg.RegisterKind("yyyymmdd", "date", "2006"))
	assert.Error(t, reg.RegisterKind("broken", "bool", "yes"))

	h, err := reg.Lookup("yyyymmdd", "ignored")
	require.NoError(t, err)
	assert.Equal(t, primitive.KindTime, h.Kind())
	assert.Equal(t, []string{"yyyymmdd"}, reg.Names())

	_, err = reg.Lookup("money", "")
	assert.ErrorIs(t, err, primitive.ErrUnknownType)

	_, err = reg.Lookup("int", "08d")
	assert.ErrorIs(t, err, primitive.ErrInvalidFormat)
}

func TestConvert(t *testing.T) {
	type Code int

	got, err := primitive.Convert(int32(5), reflect.TypeOf(int64(0)), primitive.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	got, err = primitive.Convert(7, reflect.TypeOf(Code(0)), primitive.CategoryDefault)
	require.NoError(t, err)
	assert.Equal(t, Code(7), got)

	got, err = primitive.Convert(nil, reflect.TypeOf(""), primitive.CategoryNone)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = primitive.Convert(2.5, reflect.TypeOf(0), primitive.CategoryAll)
	assert.ErrorIs(t, err, primitive.ErrNotConvertible)

	_, err = primitive.Convert(300, reflect.TypeOf(int8(0)), primitive.CategoryAll)
	assert.ErrorIs(t, err, primitive.ErrNotConvertible)

	got, err = primitive.Convert(int64(90), reflect.TypeOf(time.Duration(0)), primitive.CategoryNanoseconds)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(90), got)

	assert.True(t, primitive.CategoryDefault.Allows(primitive.KindString, primitive.KindInt))
	assert.False(t, primitive.CategoryNone.Allows(primitive.KindString, primitive.KindInt))
	assert.True(t, primitive.CategoryNone.Allows(primitive.KindInt, primitive.KindInt))
}
