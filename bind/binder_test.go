package bind_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/primitive"
)

type Status string

type Address struct {
	Street string
	City   string
}

type Audit struct {
	CreatedAt time.Time `beanio:"created"`
}

type Customer struct {
	Audit

	ID       int64 `beanio:"id"`
	Name     string
	Status   Status
	Nickname *string
	Home     Address
	Work     *Address
	Tags     []string
	Scores   [3]int
	Phones   map[string]string
	ignored  string //nolint:unused
	Secret   string `beanio:"-"`
}

type Shape interface{ Area() float64 }

func newBinder(t *testing.T) *bind.Binder {
	t.Helper()

	reg := bind.NewRegistry()
	require.NoError(t, bind.RegisterType[Customer](reg, "customer"))
	require.NoError(t, bind.RegisterType[*Address](reg, "address"))
	require.NoError(t, bind.RegisterType[Shape](reg, "shape"))

	return bind.NewBinder(reg, primitive.CategoryDefault)
}

func TestRegistry(t *testing.T) {
	reg := bind.NewRegistry()

	assert.Equal(t, []string{"map"}, reg.Names())
	assert.Error(t, reg.Register("n", reflect.TypeOf(0)))
	assert.Error(t, reg.Register("m", reflect.TypeOf(map[int]string{})))
	require.NoError(t, bind.RegisterType[Address](reg, "address"))
	require.NoError(t, bind.RegisterType[*Address](reg, "address"))
	assert.Error(t, bind.RegisterType[Customer](reg, "address"))

	require.NoError(t, bind.RegisterType[Shape](reg, "shape"))
	assert.True(t, reg.IsAbstract("shape"))
	assert.False(t, reg.IsAbstract("address"))
}

func TestNew(t *testing.T) {
	b := newBinder(t)

	obj, err := b.New("customer")
	require.NoError(t, err)
	assert.IsType(t, &Customer{}, obj)

	obj, err = b.New("map")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, obj)

	_, err = b.New("shape")
	assert.ErrorIs(t, err, bind.ErrAbstractClass)

	_, err = b.New("nope")
	assert.ErrorIs(t, err, bind.ErrUnknownClass)
}

func TestSetGetStruct(t *testing.T) {
	b := newBinder(t)
	c := &Customer{}

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, b.Set(c, "id", 42))
	require.NoError(t, b.Set(c, "name", "Ada"))
	require.NoError(t, b.Set(c, "status", "ACTIVE"))
	require.NoError(t, b.Set(c, "nickname", "ada"))
	require.NoError(t, b.Set(c, "created", created))
	require.NoError(t, b.Set(c, "home", &Address{Street: "Main", City: "Oslo"}))
	require.NoError(t, b.Set(c, "work", &Address{City: "Bergen"}))
	require.NoError(t, b.Set(c, "tags", []any{"a", "b"}))
	require.NoError(t, b.Set(c, "scores", []any{1, 2}))
	require.NoError(t, b.Set(c, "phones", map[string]any{"home": "555"}))

	assert.Equal(t, int64(42), c.ID)
	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, Status("ACTIVE"), c.Status)
	require.NotNil(t, c.Nickname)
	assert.Equal(t, "ada", *c.Nickname)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, Address{Street: "Main", City: "Oslo"}, c.Home)
	assert.Equal(t, &Address{City: "Bergen"}, c.Work)
	assert.Equal(t, []string{"a", "b"}, c.Tags)
	assert.Equal(t, [3]int{1, 2, 0}, c.Scores)
	assert.Equal(t, map[string]string{"home": "555"}, c.Phones)

	got, err := b.Get(c, "nickname")
	require.NoError(t, err)
	assert.Equal(t, "ada", got)

	got, err = b.Get(c, "ID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)

	got, err = b.Get(*c, "name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got)

	c.Work = nil
	got, err = b.Get(c, "work")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = b.Get(c, "secret")
	assert.ErrorIs(t, err, bind.ErrUnknownProperty)

	assert.ErrorIs(t, b.Set(c, "missing", 1), bind.ErrUnknownProperty)
	assert.Error(t, b.Set(c, "id", "not a number"))
	assert.Error(t, b.Set(*c, "id", 1))
}

func TestSetGetMap(t *testing.T) {
	b := newBinder(t)

	m := map[string]any{}
	require.NoError(t, b.Set(m, "values", []any{"one", "two"}))
	require.NoError(t, b.Set(m, "count", 2))

	got, err := b.Get(m, "values")
	require.NoError(t, err)
	assert.Equal(t, []any{"one", "two"}, got)

	got, err = b.Get(m, "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItems(t *testing.T) {
	b := newBinder(t)

	items, err := b.Items([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, items)

	items, err = b.Items(map[string]int{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, items)

	items, err = b.Items(nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = b.Items(7)
	assert.ErrorIs(t, err, bind.ErrNotCollection)
}

func TestIsInstanceAndProperties(t *testing.T) {
	b := newBinder(t)

	assert.True(t, b.IsInstance("customer", &Customer{}))
	assert.True(t, b.IsInstance("customer", Customer{}))
	assert.False(t, b.IsInstance("customer", &Address{}))
	assert.True(t, b.IsInstance("map", map[string]any{}))
	assert.False(t, b.IsInstance("map", nil))

	typ, err := b.PropertyType("customer", "tags")
	require.NoError(t, err)
	assert.Equal(t, bind.ShapeSlice, bind.ShapeOf(typ))

	typ, err = b.PropertyType("customer", "created")
	require.NoError(t, err)
	assert.Equal(t, bind.ShapePrimitive, bind.ShapeOf(typ))

	typ, err = b.PropertyType("map", "anything")
	require.NoError(t, err)
	assert.Nil(t, typ)

	_, err = b.PropertyType("customer", "nme")
	assert.ErrorIs(t, err, bind.ErrUnknownProperty)

	assert.Contains(t, b.Properties("customer"), "created")
	assert.NotContains(t, b.Properties("customer"), "Secret")
	assert.Equal(t, "Struct", bind.ShapeOf(reflect.TypeOf(Address{})).String())
}
