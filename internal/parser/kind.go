package parser

//go:generate go tool stringer -type=NodeKind,Mode -linecomment -output=kind_string.go

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	KindField   NodeKind = iota // field
	KindSegment                 // segment
	KindRecord                  // record
	KindGroup                   // group
)

// Mode restricts a stream to reading, writing or both.
type Mode int

const (
	ModeReadWrite Mode = iota // readwrite
	ModeRead                  // read
	ModeWrite                 // write
)

// CanRead reports whether sessions may read in mode m.
func (m Mode) CanRead() bool { return m != ModeWrite }

// CanWrite reports whether sessions may write in mode m.
func (m Mode) CanWrite() bool { return m != ModeRead }
