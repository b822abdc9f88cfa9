package bind

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/kevinseim/beanio-sub003/internal/match"
	"github.com/kevinseim/beanio-sub003/primitive"
)

// tagName is the struct tag consulted for property names.
const tagName = "beanio"

// Binder instantiates registered classes and reads and writes their properties.
// It is safe for concurrent use.
type Binder struct {
	registry   *Registry
	categories primitive.CategoryEnum
	structs    sync.Map // reflect.Type -> *structInfo
}

type structInfo struct {
	exact      map[string][]int
	normalized map[string][]int
	names      []string
	types      map[string]reflect.Type
}

// NewBinder creates a binder over registry. Scalar values are converted to property types
// under the given conversion categories.
func NewBinder(registry *Registry, categories primitive.CategoryEnum) *Binder {
	return &Binder{registry: registry, categories: categories}
}

// Registry returns the class registry the binder resolves names against.
func (b *Binder) Registry() *Registry {
	return b.registry
}

// New instantiates class: a pointer for struct classes, an empty map for map classes.
func (b *Binder) New(class string) (any, error) {
	t, ok := b.registry.Lookup(class)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownClass, class)
	}

	switch t.Kind() {
	case reflect.Map:
		return reflect.MakeMap(t).Interface(), nil
	case reflect.Struct:
		return reflect.New(t).Interface(), nil
	default:
		return nil, fmt.Errorf("%w: %q is %s", ErrAbstractClass, class, t)
	}
}

// IsInstance reports whether obj is a value of class, or a pointer to one.
func (b *Binder) IsInstance(class string, obj any) bool {
	t, ok := b.registry.Lookup(class)
	if !ok || obj == nil {
		return false
	}

	ot := reflect.TypeOf(obj)

	switch t.Kind() {
	case reflect.Interface:
		return ot.Implements(t)
	case reflect.Struct:
		return ot == t || ot == reflect.PointerTo(t)
	default:
		return ot == t
	}
}

// PropertyType returns the Go type of a class property. Map and interface classes accept
// any property and report a nil type.
func (b *Binder) PropertyType(class, property string) (reflect.Type, error) {
	t, ok := b.registry.Lookup(class)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownClass, class)
	}

	if t.Kind() != reflect.Struct {
		return nil, nil
	}

	info := b.structInfo(t)

	if _, ok := info.lookup(property); !ok {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownProperty, property, t)
	}

	return info.types[info.canonical(property)], nil
}

// Properties lists the bindable property names of a struct class.
func (b *Binder) Properties(class string) []string {
	t, ok := b.registry.Lookup(class)
	if !ok || t.Kind() != reflect.Struct {
		return nil
	}

	return slices.Clone(b.structInfo(t).names)
}

// Get reads property from obj. A nil pointer property reads as nil.
func (b *Binder) Get(obj any, property string) (any, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}

		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		item := v.MapIndex(reflect.ValueOf(property).Convert(v.Type().Key()))
		if !item.IsValid() {
			return nil, nil
		}

		return item.Interface(), nil

	case reflect.Struct:
		index, ok := b.structInfo(v.Type()).lookup(property)
		if !ok {
			return nil, fmt.Errorf("%w %q on %s", ErrUnknownProperty, property, v.Type())
		}

		fv, err := v.FieldByIndexErr(index)
		if err != nil {
			return nil, nil
		}

		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				return nil, nil
			}

			if ShapeOf(fv.Type()) == ShapePrimitive {
				return fv.Elem().Interface(), nil
			}
		}

		return fv.Interface(), nil
	}

	return nil, fmt.Errorf("cannot get property %q of %T", property, obj)
}

// Set assigns value to property, converting scalars and rebuilding collections to fit the
// property type.
func (b *Binder) Set(obj any, property string, value any) error {
	v := reflect.ValueOf(obj)

	switch {
	case v.Kind() == reflect.Map:
		if v.IsNil() {
			return fmt.Errorf("cannot set property %q of nil map", property)
		}

		item := reflect.New(v.Type().Elem()).Elem()
		if err := b.assign(item, value); err != nil {
			return fmt.Errorf("property %q: %w", property, err)
		}

		v.SetMapIndex(reflect.ValueOf(property).Convert(v.Type().Key()), item)

		return nil

	case v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Struct:
		s := v.Elem()

		index, ok := b.structInfo(s.Type()).lookup(property)
		if !ok {
			return fmt.Errorf("%w %q on %s", ErrUnknownProperty, property, s.Type())
		}

		fv := fieldByIndexAlloc(s, index)
		if err := b.assign(fv, value); err != nil {
			return fmt.Errorf("property %q: %w", property, err)
		}

		return nil
	}

	return fmt.Errorf("cannot set property %q of %T", property, obj)
}

// Items returns the elements of a slice or array, or the values of a map ordered by key.
func (b *Binder) Items(value any) ([]any, error) {
	if value == nil {
		return nil, nil
	}

	if items, ok := value.([]any); ok {
		return items, nil
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}

		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, v.Len())
		for i := range items {
			items[i] = v.Index(i).Interface()
		}

		return items, nil

	case reflect.Map:
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})

		items := make([]any, len(keys))
		for i, k := range keys {
			items[i] = v.MapIndex(k).Interface()
		}

		return items, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrNotCollection, value)
}

func (b *Binder) assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	src := reflect.ValueOf(value)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	switch ShapeOf(dst.Type()) {
	case ShapeStruct:
		if dst.Kind() == reflect.Ptr {
			break
		}

		if src.Kind() == reflect.Ptr && src.Type().Elem() == dst.Type() && !src.IsNil() {
			dst.Set(src.Elem())
			return nil
		}

		return fmt.Errorf("cannot assign %T to %s", value, dst.Type())

	case ShapeSlice:
		if dst.Kind() == reflect.Ptr {
			break
		}

		items, err := b.Items(value)
		if err != nil {
			return err
		}

		s := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := b.assign(s.Index(i), item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}

		dst.Set(s)

		return nil

	case ShapeArray:
		if dst.Kind() == reflect.Ptr {
			break
		}

		items, err := b.Items(value)
		if err != nil {
			return err
		}

		if len(items) > dst.Len() {
			return fmt.Errorf("%d values overflow %s", len(items), dst.Type())
		}

		for i, item := range items {
			if err := b.assign(dst.Index(i), item); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}

		return nil

	case ShapeMap:
		if dst.Kind() == reflect.Ptr {
			break
		}

		return b.assignMap(dst, src)
	}

	if dst.Kind() == reflect.Ptr {
		elem := reflect.New(dst.Type().Elem())
		if err := b.assign(elem.Elem(), value); err != nil {
			return err
		}

		dst.Set(elem)

		return nil
	}

	converted, err := primitive.Convert(value, dst.Type(), b.categories)
	if err != nil {
		return err
	}

	dst.Set(reflect.ValueOf(converted))

	return nil
}

func (b *Binder) assignMap(dst, src reflect.Value) error {
	if src.Kind() != reflect.Map {
		return fmt.Errorf("%w: cannot assign %s to %s", ErrNotCollection, src.Type(), dst.Type())
	}

	m := reflect.MakeMapWithSize(dst.Type(), src.Len())
	iter := src.MapRange()

	for iter.Next() {
		key, err := primitive.Convert(iter.Key().Interface(), dst.Type().Key(), b.categories|primitive.CategoryTextNumber)
		if err != nil {
			return fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
		}

		item := reflect.New(dst.Type().Elem()).Elem()
		if err := b.assign(item, iter.Value().Interface()); err != nil {
			return fmt.Errorf("key %v: %w", iter.Key().Interface(), err)
		}

		m.SetMapIndex(reflect.ValueOf(key), item)
	}

	dst.Set(m)

	return nil
}

func (b *Binder) structInfo(t reflect.Type) *structInfo {
	if cached, ok := b.structs.Load(t); ok {
		return cached.(*structInfo)
	}

	info := &structInfo{
		exact:      make(map[string][]int),
		normalized: make(map[string][]int),
		types:      make(map[string]reflect.Type),
	}

	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous && ShapeOf(f.Type) == ShapeStruct {
			continue
		}

		name := f.Name
		if tag := f.Tag.Get(tagName); tag == "-" {
			continue
		} else if tag != "" {
			name = tag
		}

		if _, dup := info.exact[name]; dup {
			continue
		}

		info.exact[name] = f.Index
		info.types[name] = f.Type
		info.names = append(info.names, name)

		norm := match.NormalizeIdent(name)
		if _, dup := info.normalized[norm]; !dup {
			info.normalized[norm] = f.Index
		}
	}

	actual, _ := b.structs.LoadOrStore(t, info)

	return actual.(*structInfo)
}

func (s *structInfo) lookup(property string) ([]int, bool) {
	if index, ok := s.exact[property]; ok {
		return index, true
	}

	index, ok := s.normalized[match.NormalizeIdent(property)]

	return index, ok
}

func (s *structInfo) canonical(property string) string {
	if _, ok := s.exact[property]; ok {
		return property
	}

	index := s.normalized[match.NormalizeIdent(property)]
	for _, name := range s.names {
		if slices.Equal(s.exact[name], index) {
			return name
		}
	}

	return property
}

// fieldByIndexAlloc is FieldByIndex that allocates nil embedded struct pointers on the way.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v
}
