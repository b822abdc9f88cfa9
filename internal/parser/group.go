package parser

// Group orders and repeats records and nested groups.
type Group struct {
	Component

	Ordered  bool
	Children []Node
}

func (*Group) Kind() NodeKind { return KindGroup }

func (g *Group) firstOrder() int {
	if len(g.Children) == 0 {
		return 0
	}

	return g.Children[0].Info().Order
}

// matchChild offers rec to a child record or group.
func (s *State) matchChild(n Node, rec *RawRecord) (*Record, error) {
	switch n := n.(type) {
	case *Record:
		return n.matchNext(s, rec), nil
	case *Group:
		return n.matchNext(s, rec)
	}

	return nil, nil
}

// maxed reports whether a child can take no more records in the current iteration of
// its parent.
func (s *State) maxed(n Node) bool {
	if g, ok := n.(*Group); ok {
		return s.last[g.ID] < 0 && !s.CanRepeat(g)
	}

	return !s.CanRepeat(n)
}

// matchNext finds the record rec identifies as, searching from the current position of
// the group. A nil record and nil error mean the group cannot take rec, which lets the
// parent try its next child.
func (g *Group) matchNext(s *State, rec *RawRecord) (*Record, error) {
	var (
		lastNode    = s.lastChild(g)
		unsatisfied Node
	)

	if lastNode != nil && !s.maxed(lastNode) {
		match, err := s.matchChild(lastNode, rec)
		if match != nil || err != nil {
			return match, err
		}
	}

	position := g.firstOrder()
	if lastNode != nil {
		position = lastNode.Info().Order

		if s.Count(lastNode) < lastNode.Info().MinOccurs {
			unsatisfied = lastNode
		}
	}

	for _, child := range g.Children {
		info := child.Info()
		if child == lastNode || info.Order < position || s.maxed(child) {
			continue
		}

		if info.Order > position {
			if unsatisfied != nil {
				if lastNode != nil {
					return nil, s.unexpected(unsatisfied, rec)
				}

				return nil, nil
			}

			position = info.Order
		}

		if s.Count(child) < info.MinOccurs {
			unsatisfied = child
		}

		match, err := s.matchChild(child, rec)
		if err != nil {
			return nil, err
		}

		if match != nil {
			if lastNode == nil {
				s.increment(g)
			} else if lg, ok := lastNode.(*Group); ok {
				s.reset(lg)
			}

			s.last[g.ID] = info.ID

			return match, nil
		}
	}

	if lastNode == nil {
		return nil, nil
	}

	if unsatisfied != nil {
		return nil, s.unexpected(unsatisfied, rec)
	}

	if !s.CanRepeat(g) {
		return nil, nil
	}

	// new iteration of the group
	saved := s.snapshot()
	s.reset(g)

	unsatisfied, position = nil, g.firstOrder()

	for _, child := range g.Children {
		info := child.Info()

		if info.Order > position {
			if unsatisfied != nil {
				break
			}

			position = info.Order
		}

		if info.MinOccurs > 0 {
			unsatisfied = child
		}

		match, err := s.matchChild(child, rec)
		if err != nil {
			s.restore(saved)
			return nil, err
		}

		if match != nil {
			s.increment(g)
			s.last[g.ID] = info.ID

			return match, nil
		}
	}

	s.restore(saved)

	return nil, nil
}

// close returns the first mandatory record or group that has not occurred often enough,
// or nil when the group is complete.
func (g *Group) close(s *State) Node {
	lastNode := s.lastChild(g)
	if lastNode == nil {
		if s.Count(g) < g.MinOccurs {
			return g.firstRequired()
		}

		return nil
	}

	for _, child := range g.Children {
		if child.Info().Order < lastNode.Info().Order {
			continue
		}

		switch child := child.(type) {
		case *Group:
			if missing := child.close(s); missing != nil {
				return missing
			}
		default:
			if s.Count(child) < child.Info().MinOccurs {
				return child
			}
		}
	}

	if s.Count(g) < g.MinOccurs {
		return g
	}

	return nil
}

// firstRequired descends to the first mandatory record of a group that never started.
func (g *Group) firstRequired() Node {
	for _, child := range g.Children {
		if child.Info().MinOccurs == 0 {
			continue
		}

		if cg, ok := child.(*Group); ok {
			return cg.firstRequired()
		}

		return child
	}

	return g
}

// matchAny searches the whole subtree for a record that identifies rec, ignoring state.
func (g *Group) matchAny(l Layout, rec *RawRecord) *Record {
	for _, child := range g.Children {
		switch child := child.(type) {
		case *Record:
			if child.identify(l, rec) {
				return child
			}
		case *Group:
			if r := child.matchAny(l, rec); r != nil {
				return r
			}
		}
	}

	return nil
}
