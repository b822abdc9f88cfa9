package parser

import (
	"fmt"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

// Unbounded is the MaxOccurs (and maximum length) of a node without an upper limit.
const Unbounded = -1

// Node is one of *Field, *Segment, *Record or *Group.
type Node interface {
	Kind() NodeKind
	// Info returns the attributes shared by all node kinds.
	Info() *Component

	sealed()
}

// Component holds the attributes shared by all node kinds.
type Component struct {
	// ID is the dense preorder index of the node within its stream.
	ID   int
	Name string
	// Order is the matching position of a group child. Children of an ordered group have
	// strictly increasing orders; children of an unordered group share one.
	Order     int
	MinOccurs int
	MaxOccurs int
	// OccursRef is the preceding sibling field whose value sets how many times this
	// node occurs.
	OccursRef *Field
}

func (c *Component) Info() *Component { return c }

func (*Component) sealed() {}

// IsRepeating reports whether the node may occur more than once.
func (c *Component) IsRepeating() bool {
	return c.OccursRef != nil || c.MaxOccurs == Unbounded || c.MaxOccurs > 1
}

// IsBounded reports whether MaxOccurs is finite.
func (c *Component) IsBounded() bool {
	return c.MaxOccurs != Unbounded
}

// Label names a node for messages, e.g. "record 'header'".
func Label(n Node) string {
	return fmt.Sprintf("%s %s", n.Kind(), common.Quote(n.Info().Name))
}

// Collection is how repeated values are bound.
type Collection int

const (
	CollectionNone Collection = iota
	CollectionList
	CollectionArray
	CollectionMap
)

// Justify is the side a padded field's text is aligned to.
type Justify int

const (
	JustifyLeft Justify = iota
	JustifyRight
)

// Converter turns field text into a typed value and back.
type Converter interface {
	Parse(text string) (any, error)
	Format(value any) (string, error)
}

// Binder creates bound objects and reads and writes their properties.
type Binder interface {
	New(class string) (any, error)
	Get(obj any, property string) (any, error)
	Set(obj any, property string, value any) error
	IsInstance(class string, obj any) bool
	// Items returns the elements of a collection value, map values ordered by key.
	Items(value any) ([]any, error)
}

// RecordReader yields raw records from a physical stream. Read returns io.EOF after the
// last record.
type RecordReader interface {
	Read() (*RawRecord, error)
	Close() error
}

// RecordWriter writes raw records to a physical stream.
type RecordWriter interface {
	Write(rec *RawRecord) error
	Flush() error
	Close() error
}
