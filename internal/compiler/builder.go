package compiler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kevinseim/beanio-sub003/bind"
	"github.com/kevinseim/beanio-sub003/internal/common"
	"github.com/kevinseim/beanio-sub003/internal/diagnostic"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/match"
	"github.com/kevinseim/beanio-sub003/internal/parser"
	"github.com/kevinseim/beanio-sub003/primitive"
)

// maxSuggestions limits "did you mean" lists.
const maxSuggestions = 3

// builder compiles one stream.
type builder struct {
	*Compiler

	handlers map[string]primitive.Handler
	config   *mapping.Stream
	strategy Strategy
	path     mapping.Path
	mode     parser.Mode
	diags    diagnostic.Diagnostics

	stream *parser.Stream
	nextID int
}

// owner is the class children of a record or segment bind into, empty when they bind
// into a target wrapper.
type owner struct {
	class string
}

// recordLayout tracks what has been laid out so far in one record.
type recordLayout struct {
	// variable is set once a component of variable size is laid out; later components
	// have no static offset.
	variable    bool
	identifiers []*parser.Field
}

// listLayout is the outcome of laying out one children list.
type listLayout struct {
	nodes []parser.Node
	// size is the static size: repeating nodes count MinOccurs occurrences.
	size int
	// minEnd is the end of the last mandatory content.
	minEnd int
	// greedy is set when the list ends with a component read until the record ends.
	greedy bool
}

func (b *builder) id() int {
	id := b.nextID
	b.nextID++

	return id
}

func (b *builder) build() *parser.Stream {
	switch b.config.Mode {
	case mapping.ModeRead:
		b.mode = parser.ModeRead
	case mapping.ModeWrite:
		b.mode = parser.ModeWrite
	default:
		b.mode = parser.ModeReadWrite
	}

	b.stream = &parser.Stream{
		Name:               b.config.Name,
		Format:             string(b.strategy.Format()),
		Mode:               b.mode,
		Strict:             b.config.Strict,
		IgnoreUnidentified: b.config.IgnoreUnidentifiedRecords,
		Layout:             b.strategy.Layout(),
		Binder:             b.binder,
	}

	root := &parser.Group{
		Component: parser.Component{
			ID:        b.id(),
			Name:      b.config.Name,
			MinOccurs: deref(b.config.MinOccurs, 0),
			MaxOccurs: 1,
		},
		Ordered: deref(b.config.Ordered, true),
	}

	root.Children = b.groupChildren(b.config.Children, root.Ordered, b.path)

	b.stream.Root = root
	b.stream.NodeCount = b.nextID

	b.checkAmbiguity(root, b.path)

	return b.stream
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}

	return *p
}

// component fills the shared node attributes, applying default occurrences.
func (b *builder) component(c *mapping.Component, order, defMin, defMax int, p mapping.Path) parser.Component {
	comp := parser.Component{
		ID:        b.id(),
		Name:      c.Name,
		Order:     order,
		MinOccurs: deref(c.MinOccurs, defMin),
		MaxOccurs: defMax,
	}

	if c.MaxOccurs != nil {
		comp.MaxOccurs = int(*c.MaxOccurs)
		if c.MaxOccurs.IsUnbounded() {
			comp.MaxOccurs = parser.Unbounded
		}
	}

	if comp.IsBounded() && comp.MinOccurs > comp.MaxOccurs {
		b.diags.AddErrorf(mapping.CodeInvalidOccurs, p.String(),
			"minOccurs %d exceeds maxOccurs %d", comp.MinOccurs, comp.MaxOccurs)
	}

	return comp
}

func (b *builder) groupChildren(children []mapping.Component, ordered bool, path mapping.Path) []parser.Node {
	var (
		nodes []parser.Node
		last  int
	)

	for i := range children {
		c := &children[i]
		p := path.Component(c)

		order := 1

		switch {
		case !ordered && c.Order != nil:
			b.diags.AddError(CodeInvalidOrder, p.String(), "order is not allowed in an unordered group")
		case !ordered:
		case c.Order != nil && *c.Order <= last:
			b.diags.AddErrorf(CodeInvalidOrder, p.String(), "order %d must be greater than %d", *c.Order, last)
			order = last + 1
		case c.Order != nil:
			order = *c.Order
		default:
			order = last + 1
		}

		last = order

		switch c.Kind {
		case mapping.KindGroup:
			g := &parser.Group{Component: b.component(c, order, 0, parser.Unbounded, p), Ordered: deref(c.Ordered, true)}
			g.Children = b.groupChildren(c.Children, g.Ordered, p)
			nodes = append(nodes, g)

		case mapping.KindRecord:
			nodes = append(nodes, b.record(c, order, p))

		default:
			b.diags.AddErrorf(mapping.CodeMisplaced, p.String(), "a group cannot contain a %s", c.Kind)
		}
	}

	return nodes
}

func (b *builder) record(c *mapping.Component, order int, p mapping.Path) *parser.Record {
	r := &parser.Record{
		Component:      b.component(c, order, 0, parser.Unbounded, p),
		Target:         c.Target,
		MaxLength:      parser.Unbounded,
		MaxMatchLength: parser.Unbounded,
	}

	// records are listed in declaration order
	b.stream.Records = append(b.stream.Records, r)

	var o owner
	if c.Target == "" {
		r.Class = c.Class
		if r.Class == "" {
			r.Class = bind.MapClass
		}

		b.checkClass(r.Class, p)
		o.class = r.Class
	}

	rl := &recordLayout{}
	list := b.children(c.Children, o, p, rl, 0, "", false)

	r.Children = list.nodes
	r.Identifiers = rl.identifiers
	r.MinLength = deref(c.MinLength, list.minEnd)

	switch {
	case c.MaxLength != nil && !c.MaxLength.IsUnbounded():
		r.MaxLength = int(*c.MaxLength)
	case c.MaxLength == nil && !rl.variable:
		r.MaxLength = list.size
	}

	if c.RidLength != "" {
		// validated by mapping.Validate
		r.MinMatchLength, r.MaxMatchLength, _ = mapping.ParseRidLength(c.RidLength)
	} else {
		for _, f := range r.Identifiers {
			r.MinMatchLength = max(r.MinMatchLength, f.Offset+f.Width)
		}
	}

	b.checkTarget(c.Target, r.Children, p)

	return r
}

// children lays out the fields and segments of a record or segment. base is the static
// offset of the list within the record, -1 when it has none.
func (b *builder) children(
	list []mapping.Component,
	o owner,
	path mapping.Path,
	rl *recordLayout,
	base int,
	prefix string,
	inRepeating bool,
) listLayout {
	var (
		out        listLayout
		next       int
		greedyName string
	)

	for i := range list {
		c := &list[i]
		p := path.Component(c)

		if greedyName != "" {
			b.diags.AddErrorf(CodeInvalidLayout, p.String(),
				"%s follows variable-length %s and cannot be located", c.Label(), common.Quote(greedyName))
		}

		pos := next
		if c.Position != nil {
			pos = *c.Position
		}

		offset := -1
		if base >= 0 && !rl.variable {
			offset = base + pos
		}

		var (
			n          parser.Node
			width      int
			minContent int
			greedy     bool
		)

		switch c.Kind {
		case mapping.KindField:
			f := b.field(c, o, p, prefix, pos, offset)
			if f.Identifier {
				b.checkIdentifier(f, p, inRepeating)
				rl.identifiers = append(rl.identifiers, f)
			}

			n, width, minContent = f, f.Width, f.Width

		case mapping.KindSegment:
			s, inner := b.segment(c, o, p, prefix, pos, offset, rl, inRepeating)
			n, width, minContent, greedy = s, s.Width, inner.minEnd, inner.greedy

		default:
			b.diags.AddErrorf(mapping.CodeMisplaced, p.String(), "a record cannot contain a %s", c.Kind)
			continue
		}

		info := n.Info()

		if c.OccursRef != "" {
			b.resolveOccursRef(n, c.OccursRef, out.nodes, list[i+1:], p)
		}

		size := width
		if info.IsRepeating() {
			size = info.MinOccurs * width
		}

		if info.MinOccurs > 0 {
			out.minEnd = max(out.minEnd, pos+size-width+minContent)
		}

		next = pos + size

		variable := info.OccursRef != nil || info.IsRepeating() && info.MinOccurs != info.MaxOccurs
		if variable || greedy {
			rl.variable = true
		}

		if greedy || variable && info.OccursRef == nil {
			greedyName = info.Name
		}

		out.nodes = append(out.nodes, n)
	}

	out.size = next
	out.greedy = greedyName != ""

	return out
}

func (b *builder) checkIdentifier(f *parser.Field, p mapping.Path, inRepeating bool) {
	switch {
	case f.IsRepeating() || inRepeating:
		b.diags.AddError(CodeIdentifier, p.String(), "identifying fields cannot repeat")
	case f.Offset < 0:
		b.diags.AddError(CodeIdentifier, p.String(), "identifying field follows a variable-length component")
	case !f.HasLiteral && f.Regex == nil:
		b.diags.AddError(CodeIdentifier, p.String(), "identifying fields need a literal or regex")
	}
}

func (b *builder) resolveOccursRef(n parser.Node, name string, before []parser.Node, after []mapping.Component, p mapping.Path) {
	var (
		ref   *parser.Field
		names []string
	)

	for _, sibling := range before {
		if f, ok := sibling.(*parser.Field); ok {
			names = append(names, f.Name)
			if f.Name == name {
				ref = f
			}
		}
	}

	if ref == nil {
		if slices.ContainsFunc(after, func(c mapping.Component) bool { return c.Name == name }) {
			b.diags.AddErrorf(CodeInvalidOccursRef, p.String(), "occursRef %s must precede %s", common.Quote(name), common.Quote(n.Info().Name))
		} else {
			b.diags.AddError(CodeInvalidOccursRef, p.String(),
				fmt.Sprintf("occursRef %s is not a preceding sibling field", common.Quote(name)),
				match.Suggest(name, names, maxSuggestions)...)
		}

		return
	}

	if ref.IsRepeating() {
		b.diags.AddErrorf(CodeInvalidOccursRef, p.String(), "occursRef %s cannot repeat", common.Quote(name))
		return
	}

	switch h, ok := ref.Converter.(primitive.Handler); {
	case ref.Converter == nil && ref.TypeName == "":
		ref.Converter, _ = b.Compiler.handlers.ForKind(primitive.KindInt, "")
	case !ok || !h.Kind().IsInteger():
		b.diags.AddErrorf(CodeInvalidOccursRef, p.String(), "occursRef %s must be an integer field", common.Quote(name))
		return
	}

	ref.Governs = true
	n.Info().OccursRef = ref
}

func (b *builder) field(c *mapping.Component, o owner, p mapping.Path, prefix string, pos, offset int) *parser.Field {
	defMin, defMax := 1, 1
	if c.OccursRef != "" {
		defMin, defMax = 0, parser.Unbounded
	}

	f := &parser.Field{
		Component:  b.component(c, 0, defMin, defMax, p),
		Property:   c.PropertyName(),
		Path:       joinPath(prefix, c.Name),
		Position:   pos,
		Offset:     offset,
		Padding:    ' ',
		Identifier: c.Rid,
		Required:   c.Required,
		Trim:       c.Trim,
		Ignore:     c.Ignore,
		MinLength:  deref(c.MinLength, 0),
		MaxLength:  parser.Unbounded,
		TypeName:   c.Type,
	}

	if c.MaxLength != nil && !c.MaxLength.IsUnbounded() {
		f.MaxLength = int(*c.MaxLength)
	}

	width, err := b.strategy.FieldWidth(c)
	if err != nil {
		b.diags.AddError(CodeInvalidLayout, p.String(), err.Error())
	}

	f.Width = max(width, 1)

	if c.Length != nil {
		f.Length = *c.Length
	}

	if c.Padding != "" {
		f.Padding, _ = utf8.DecodeRuneInString(c.Padding)
	}

	if strings.EqualFold(c.Justify, "right") {
		f.Justify = parser.JustifyRight
	}

	if c.Regex != "" {
		// validated by mapping.Validate
		f.Regex, _ = regexp.Compile("^(?:" + c.Regex + ")$")
	}

	if c.Literal != nil {
		f.Literal, f.HasLiteral = *c.Literal, true

		if f.Length > 0 && utf8.RuneCountInString(f.Literal) > f.Length {
			b.diags.AddErrorf(CodeInvalidLayout, p.String(), "literal %q is longer than length %d", f.Literal, f.Length)
		}
	}

	repeating := f.IsRepeating()

	switch {
	case repeating && c.Collection == "":
		b.diags.AddError(CodeCollection, p.String(), "repeating fields need a collection (list or array)")
	case repeating:
		f.Collection = collectionOf(c.Collection)
	case c.Collection != "":
		b.diags.AddErrorf(CodeCollection, p.String(), "collection %q needs maxOccurs above 1 or an occursRef", c.Collection)
	}

	var propType reflect.Type
	if !f.Ignore {
		propType = b.propertyType(o, f.Property, p)
	}

	if repeating && propType != nil && !bind.ShapeOf(propType).IsCollection() {
		b.diags.AddErrorf(CodeCollection, p.String(), "repeating field is bound to %s property %s", propType, common.Quote(f.Property))
	}

	f.Converter = b.converter(c, propType, repeating, p)

	if c.Default != nil {
		f.DefaultText, f.HasDefault = *c.Default, true
		f.Default = *c.Default

		if f.Converter != nil {
			if f.Default, err = f.Converter.Parse(*c.Default); err != nil {
				b.diags.AddErrorf(CodeInvalidDefault, p.String(), "default %q: %v", *c.Default, err)
			}
		}
	}

	return f
}

func (b *builder) segment(
	c *mapping.Component,
	o owner,
	p mapping.Path,
	prefix string,
	pos, offset int,
	rl *recordLayout,
	inRepeating bool,
) (*parser.Segment, listLayout) {
	defMin, defMax := 1, 1
	if c.OccursRef != "" {
		defMin, defMax = 0, parser.Unbounded
	}

	s := &parser.Segment{
		Component: b.component(c, 0, defMin, defMax, p),
		Property:  c.PropertyName(),
		Path:      joinPath(prefix, c.Name),
		Target:    c.Target,
		Position:  pos,
	}

	repeating := s.IsRepeating()
	s.Inline = c.Class == "" && c.Target == "" && !repeating

	inner := o
	switch {
	case s.Inline:
	case c.Target != "":
		inner = owner{}
	default:
		s.Class = c.Class
		if s.Class == "" {
			s.Class = bind.MapClass
		}

		b.checkClass(s.Class, p)
		inner = owner{class: s.Class}
	}

	if !s.Inline {
		propType := b.propertyType(o, s.Property, p)
		if repeating && propType != nil && !bind.ShapeOf(propType).IsCollection() {
			b.diags.AddErrorf(CodeCollection, p.String(), "repeating segment is bound to %s property %s", propType, common.Quote(s.Property))
		}
	}

	switch {
	case repeating:
		s.Collection = collectionOf(c.Collection)
	case c.Collection != "":
		b.diags.AddErrorf(CodeCollection, p.String(), "collection %q needs maxOccurs above 1 or an occursRef", c.Collection)
	}

	list := b.children(c.Children, inner, p, rl, offset, s.Path, inRepeating || repeating)
	s.Children = list.nodes
	s.Width = list.size

	if repeating && list.greedy {
		b.diags.AddError(CodeInvalidLayout, p.String(), "repeating segments cannot contain variable-length components without occursRef")
	}

	if s.Collection == parser.CollectionMap {
		s.Key = b.resolveKey(c.Key, s.Children, p)
	}

	b.checkTarget(c.Target, s.Children, p)

	return s, list
}

func (b *builder) resolveKey(key string, children []parser.Node, p mapping.Path) *parser.Field {
	var names []string

	for _, n := range children {
		f, ok := n.(*parser.Field)
		if !ok {
			continue
		}

		if f.Name == key {
			if f.IsRepeating() {
				b.diags.AddErrorf(CodeInvalidKey, p.String(), "key field %s cannot repeat", common.Quote(key))
			}

			return f
		}

		names = append(names, f.Name)
	}

	b.diags.AddError(CodeInvalidKey, p.String(),
		fmt.Sprintf("key %s is not a child field", common.Quote(key)),
		match.Suggest(key, names, maxSuggestions)...)

	return nil
}

func (b *builder) checkTarget(target string, children []parser.Node, p mapping.Path) {
	if target == "" {
		return
	}

	var names []string

	for _, n := range children {
		switch n := n.(type) {
		case *parser.Field:
			names = append(names, n.Property)
		case *parser.Segment:
			names = append(names, n.Property)
		}
	}

	if !slices.Contains(names, target) {
		b.diags.AddError(CodeInvalidTarget, p.String(),
			fmt.Sprintf("target %s is not a child property", common.Quote(target)),
			match.Suggest(target, names, maxSuggestions)...)
	}
}

func (b *builder) checkClass(class string, p mapping.Path) {
	registry := b.binder.Registry()

	if _, ok := registry.Lookup(class); !ok {
		b.diags.AddError(CodeUnknownClass, p.String(),
			fmt.Sprintf("class %s is not registered", common.Quote(class)),
			match.Suggest(class, registry.Names(), maxSuggestions)...)

		return
	}

	if b.mode.CanRead() && registry.IsAbstract(class) {
		b.diags.AddErrorf(CodeAbstractClass, p.String(),
			"class %s cannot be instantiated; only write streams may bind interface types", common.Quote(class))
	}
}

// propertyType returns the Go type of a bound property, nil for map classes and
// unbound children.
func (b *builder) propertyType(o owner, property string, p mapping.Path) reflect.Type {
	if o.class == "" || property == "" {
		return nil
	}

	t, err := b.binder.PropertyType(o.class, property)
	switch {
	case errors.Is(err, bind.ErrUnknownProperty):
		b.diags.AddError(CodeUnknownProperty, p.String(),
			fmt.Sprintf("class %s has no property %s", common.Quote(o.class), common.Quote(property)),
			match.Suggest(property, b.binder.Properties(o.class), maxSuggestions)...)
	case err != nil:
		// unknown classes are reported where they are declared
	}

	return t
}

// converter resolves the handler of a field: its declared type, else the type of the
// property it binds to. Text fields have none.
func (b *builder) converter(c *mapping.Component, propType reflect.Type, repeating bool, p mapping.Path) parser.Converter {
	if c.Type != "" {
		if h, ok := b.handlers[c.Type]; ok {
			return h
		}

		h, err := b.Compiler.handlers.Lookup(c.Type, c.Format)
		if err != nil {
			var names []string
			for name := range b.handlers {
				names = append(names, name)
			}

			names = append(names, b.Compiler.handlers.Names()...)

			b.diags.AddError(CodeUnknownType, p.String(), err.Error(), match.Suggest(c.Type, names, maxSuggestions)...)

			return nil
		}

		return h
	}

	if propType == nil {
		return nil
	}

	t := propType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if repeating && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		t = t.Elem()
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}

	k := propertyKind(t)

	switch {
	case k == primitive.KindString:
		return nil
	case !k.IsValid():
		if t.Kind() != reflect.Interface {
			b.diags.AddErrorf(CodeUnknownType, p.String(), "property type %s cannot hold field text", t)
		}

		return nil
	}

	h, err := b.Compiler.handlers.ForKind(k, c.Format)
	if err != nil {
		b.diags.AddError(CodeUnknownType, p.String(), err.Error())
		return nil
	}

	return h
}

// propertyKind maps a Go type to its kind, named scalar types by their underlying kind.
func propertyKind(t reflect.Type) primitive.KindEnum {
	if k := primitive.FromReflectType(t); k != primitive.KindPrimitiveEnum {
		return k
	}

	for k := primitive.KindInt; k < primitive.KindPrimitiveEnum; k++ {
		if k.ReflectType().Kind() == t.Kind() {
			return k
		}
	}

	return 0
}

func collectionOf(name string) parser.Collection {
	switch name {
	case "array":
		return parser.CollectionArray
	case "map":
		return parser.CollectionMap
	default:
		return parser.CollectionList
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}
