package parser

// Segment groups fields and nested segments inside a record. It binds a nested object of
// Class, or inlines its children into the parent object when Inline is set.
type Segment struct {
	Component

	Property string
	Path     string
	Class    string
	// Target names the child property bound in place of the segment object.
	Target     string
	Collection Collection
	// Key is the child field keying map collections.
	Key *Field

	Position int
	// Width is the static size of one occurrence.
	Width    int
	Inline   bool
	Children []Node
}

func (*Segment) Kind() NodeKind { return KindSegment }
