package parser

// Stream is a compiled mapping. It is immutable and safe for concurrent use.
type Stream struct {
	Name   string
	Format string
	Mode   Mode
	// Strict enables record length validation and never ignores unidentified records.
	Strict             bool
	IgnoreUnidentified bool

	Root *Group
	// Records lists every record in declaration order.
	Records []*Record

	Layout Layout
	Binder Binder
	// NodeCount is the number of nodes in the tree, one more than the highest ID.
	NodeCount int
}

// Record returns the record named name.
func (s *Stream) Record(name string) (*Record, bool) {
	for _, r := range s.Records {
		if r.Name == name {
			return r, true
		}
	}

	return nil, false
}

// Walk calls fn for every node in preorder.
func (s *Stream) Walk(fn func(n Node, depth int)) {
	walk(s.Root, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int)) {
	fn(n, depth)

	var children []Node

	switch n := n.(type) {
	case *Group:
		children = n.Children
	case *Record:
		children = n.Children
	case *Segment:
		children = n.Children
	}

	for _, child := range children {
		walk(child, depth+1, fn)
	}
}
