package parser

// State is the occurrence tracker of one session. It is indexed by node ID so the same
// compiled Stream can back any number of sessions.
type State struct {
	stream *Stream

	counts []int
	// last is the ID of the child a group matched last, -1 when the group has not
	// started its current iteration.
	last []int
	// occurs is the decoded value of a governing field, -1 until one is known.
	occurs []int
}

// NewState returns a fresh tracker for stream.
func NewState(stream *Stream) *State {
	s := &State{
		stream: stream,
		counts: make([]int, stream.NodeCount),
		last:   make([]int, stream.NodeCount),
		occurs: make([]int, stream.NodeCount),
	}

	for i := range s.last {
		s.last[i] = -1
		s.occurs[i] = -1
	}

	return s
}

// Count is how many times n occurred since its parent last began an iteration.
func (s *State) Count(n Node) int {
	return s.counts[n.Info().ID]
}

// IsSatisfied reports whether n occurred at least MinOccurs times.
func (s *State) IsSatisfied(n Node) bool {
	return s.Count(n) >= n.Info().MinOccurs
}

// CanRepeat reports whether n may occur again.
func (s *State) CanRepeat(n Node) bool {
	limit := s.MaxOccurs(n)

	return limit == Unbounded || s.Count(n) < limit
}

// MaxOccurs resolves the maximum occurrences of n, reading the governing field when n
// has a dynamic occurrence count. An unknown dynamic count resolves to 0.
func (s *State) MaxOccurs(n Node) int {
	info := n.Info()
	if info.OccursRef == nil {
		return info.MaxOccurs
	}

	return max(s.occurs[info.OccursRef.ID], 0)
}

// Occurs returns the last decoded value of a governing field.
func (s *State) Occurs(f *Field) (int, bool) {
	v := s.occurs[f.ID]

	return v, v >= 0
}

func (s *State) setOccurs(f *Field, n int) {
	s.occurs[f.ID] = n
}

func (s *State) increment(n Node) {
	s.counts[n.Info().ID]++
}

func (s *State) lastChild(g *Group) Node {
	id := s.last[g.ID]
	if id < 0 {
		return nil
	}

	for _, child := range g.Children {
		if child.Info().ID == id {
			return child
		}
	}

	return nil
}

// reset starts a new iteration of g: its cursor and the counts of everything below it
// are cleared, its own count is kept.
func (s *State) reset(g *Group) {
	s.last[g.ID] = -1

	for _, child := range g.Children {
		s.counts[child.Info().ID] = 0

		if cg, ok := child.(*Group); ok {
			s.reset(cg)
		}
	}
}

type snapshot struct {
	counts, last, occurs []int
}

func (s *State) snapshot() snapshot {
	return snapshot{
		counts: append([]int(nil), s.counts...),
		last:   append([]int(nil), s.last...),
		occurs: append([]int(nil), s.occurs...),
	}
}

func (s *State) restore(saved snapshot) {
	copy(s.counts, saved.counts)
	copy(s.last, saved.last)
	copy(s.occurs, saved.occurs)
}

func (s *State) unexpected(expected Node, rec *RawRecord) error {
	err := &UnexpectedRecordError{
		Expected:   expected.Info().Name,
		LineNumber: rec.LineNumber,
		Text:       rec.Text,
	}

	if r := s.stream.Root.matchAny(s.stream.Layout, rec); r != nil {
		err.RecordName = r.Name
	}

	return err
}
