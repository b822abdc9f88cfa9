package mapping

import (
	"fmt"
	"strconv"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

// File represents the root of a YAML mapping file.
type File struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Imports lists mapping files, relative to this one, whose templates, type handlers
	// and streams are loaded before this file's.
	Imports StringOrArray `yaml:"imports,omitempty"`

	// Templates are reusable component lists pulled in with include.
	Templates []Template `yaml:"templates,omitempty"`

	// TypeHandlers name a type and format pair that fields can refer to by name.
	TypeHandlers []TypeHandler `yaml:"typeHandlers,omitempty"`

	Streams []Stream `yaml:"streams,omitempty"`

	// Source is the path the file was loaded from, empty for parsed bytes.
	Source string `yaml:"-"`
}

// Template is a named list of components.
type Template struct {
	Name     string      `yaml:"name"`
	Children []Component `yaml:"children"`
}

// TypeHandler registers a named handler built from a type tag and format.
type TypeHandler struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Format string `yaml:"format,omitempty"`
}

// Stream is one named record layout.
type Stream struct {
	Name   string `yaml:"name"`
	Format Format `yaml:"format"`
	Mode   Mode   `yaml:"mode,omitempty"`

	// Strict enforces record lengths computed from the layout and rejects
	// unidentified records even when IgnoreUnidentifiedRecords is set.
	Strict bool `yaml:"strict,omitempty"`

	IgnoreUnidentifiedRecords bool `yaml:"ignoreUnidentifiedRecords,omitempty"`

	// MinOccurs is how many times the stream layout must occur, 0 by default.
	MinOccurs *int `yaml:"minOccurs,omitempty"`

	// Ordered is true unless set otherwise; unordered streams accept top-level records
	// in any order.
	Ordered *bool `yaml:"ordered,omitempty"`

	Parser ParserConfig `yaml:"parser,omitempty"`

	Children []Component `yaml:"children"`
}

// ParserConfig tunes the physical reader and writer of a stream.
type ParserConfig struct {
	// Delimiter separates fields, "," for csv and "\t" for delimited by default.
	Delimiter string `yaml:"delimiter,omitempty"`
	// Quote encloses csv fields; only '"' is supported.
	Quote string `yaml:"quote,omitempty"`
	// Escape is the escape character for delimited streams, none by default.
	Escape string `yaml:"escape,omitempty"`
	// Comments are line prefixes skipped by readers.
	Comments []string `yaml:"comments,omitempty"`
	// RecordTerminator ends each written record, "\n" by default.
	RecordTerminator string `yaml:"recordTerminator,omitempty"`
	// LazyQuotes lets csv readers accept quotes in unquoted fields.
	LazyQuotes bool `yaml:"lazyQuotes,omitempty"`
}

// Format is the physical format of a stream.
type Format string

const (
	FormatDelimited   Format = "delimited"
	FormatCSV         Format = "csv"
	FormatFixedLength Format = "fixedlength"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDelimited, FormatCSV, FormatFixedLength}

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	switch f {
	case FormatDelimited, FormatCSV, FormatFixedLength:
		return true
	default:
		return false
	}
}

// Mode restricts what a stream can be used for.
type Mode string

const (
	ModeReadWrite Mode = "readwrite"
	ModeRead      Mode = "read"
	ModeWrite     Mode = "write"
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeReadWrite || m == ModeRead || m == ModeWrite
}

// CanRead reports whether streams in mode m can be read.
func (m Mode) CanRead() bool { return m != ModeWrite }

// CanWrite reports whether streams in mode m can be written.
func (m Mode) CanWrite() bool { return m != ModeRead }

// ComponentKind identifies what a Component declares.
type ComponentKind string

const (
	KindGroup   ComponentKind = "group"
	KindRecord  ComponentKind = "record"
	KindSegment ComponentKind = "segment"
	KindField   ComponentKind = "field"
	KindInclude ComponentKind = "include"
)

// Unbounded is the Occurs value of a component that may repeat without limit.
const Unbounded Occurs = -1

// Occurs is a maximum occurrence count that accepts "unbounded".
type Occurs int

// IsUnbounded reports whether o has no upper limit.
func (o Occurs) IsUnbounded() bool {
	return o < 0
}

// String returns the count or "unbounded".
func (o Occurs) String() string {
	if o.IsUnbounded() {
		return "unbounded"
	}

	return strconv.Itoa(int(o))
}

// Component is one entry of a children list. Kind selects which attributes apply;
// attributes that do not apply to the kind are rejected when parsing.
type Component struct {
	Kind ComponentKind `yaml:"-"`
	// Line is the YAML line of the component, for diagnostics.
	Line int `yaml:"-"`

	Name string `yaml:"name,omitempty"`

	// Property binds the component to a differently named property; Name by default.
	Property string `yaml:"property,omitempty"`

	// Class is the registered class the component instantiates.
	Class string `yaml:"class,omitempty"`
	// Target binds the value of one child property in place of the component object.
	Target string `yaml:"target,omitempty"`
	// Collection is list, array or map for repeating segments and fields.
	Collection string `yaml:"collection,omitempty"`
	// Key names the child field whose value keys a map collection.
	Key string `yaml:"key,omitempty"`

	Order     *int    `yaml:"order,omitempty"`
	Ordered   *bool   `yaml:"ordered,omitempty"`
	MinOccurs *int    `yaml:"minOccurs,omitempty"`
	MaxOccurs *Occurs `yaml:"maxOccurs,omitempty"`
	// OccursRef names a preceding sibling field holding the occurrence count.
	OccursRef string `yaml:"occursRef,omitempty"`

	// RidLength restricts the physical length of records this record identifies:
	// "n", "n-m" or "n-".
	RidLength string `yaml:"ridLength,omitempty"`

	// MinLength and MaxLength bound record length, or field text length.
	MinLength *int    `yaml:"minLength,omitempty"`
	MaxLength *Occurs `yaml:"maxLength,omitempty"`

	Position *int   `yaml:"position,omitempty"`
	Length   *int   `yaml:"length,omitempty"`
	Padding  string `yaml:"padding,omitempty"`
	Justify  string `yaml:"justify,omitempty"`

	// Type is a type tag or a registered type handler name.
	Type   string `yaml:"type,omitempty"`
	Format string `yaml:"format,omitempty"`

	Literal  *string `yaml:"literal,omitempty"`
	Regex    string  `yaml:"regex,omitempty"`
	Rid      bool    `yaml:"rid,omitempty"`
	Required bool    `yaml:"required,omitempty"`
	Trim     bool    `yaml:"trim,omitempty"`
	Default  *string `yaml:"default,omitempty"`
	Ignore   bool    `yaml:"ignore,omitempty"`

	// Template is the template an include component expands to.
	Template string `yaml:"template,omitempty"`

	Children []Component `yaml:"children,omitempty"`
}

// PropertyName is the property the component binds to.
func (c *Component) PropertyName() string {
	if c.Property != "" {
		return c.Property
	}

	return c.Name
}

// IsRepeating reports whether the declared occurrences allow more than one instance.
func (c *Component) IsRepeating() bool {
	if c.OccursRef != "" {
		return true
	}

	return c.MaxOccurs != nil && (c.MaxOccurs.IsUnbounded() || *c.MaxOccurs > 1)
}

// Label renders the component for paths and messages, e.g. "record 'header'".
func (c *Component) Label() string {
	if c.Kind == KindInclude {
		return fmt.Sprintf("include %s", common.Quote(c.Template))
	}

	return fmt.Sprintf("%s %s", c.Kind, common.Quote(c.Name))
}

// attributes lists the YAML keys each component kind accepts.
var attributes = map[ComponentKind][]string{
	KindGroup: {"name", "order", "ordered", "minOccurs", "maxOccurs", "children"},
	KindRecord: {
		"name", "class", "target", "order", "minOccurs", "maxOccurs", "ridLength",
		"minLength", "maxLength", "children",
	},
	KindSegment: {
		"name", "property", "class", "target", "collection", "key", "minOccurs",
		"maxOccurs", "occursRef", "position", "children",
	},
	KindField: {
		"name", "property", "collection", "minOccurs", "maxOccurs", "occursRef", "position",
		"length", "padding", "justify", "type", "format", "literal", "regex", "rid",
		"required", "trim", "default", "ignore", "minLength", "maxLength",
	},
	KindInclude: {"template"},
}
