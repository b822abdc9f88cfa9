package compiler

import (
	"fmt"

	"github.com/kevinseim/beanio-sub003/internal/common"
	"github.com/kevinseim/beanio-sub003/internal/mapping"
	"github.com/kevinseim/beanio-sub003/internal/parser"
)

// checkAmbiguity warns about records that can never be matched because a record declared
// before them at the same order accepts everything they accept.
func (b *builder) checkAmbiguity(g *parser.Group, path mapping.Path) {
	for i, child := range g.Children {
		switch n := child.(type) {
		case *parser.Group:
			b.checkAmbiguity(n, path.Child(parser.KindGroup.String(), n.Name))

		case *parser.Record:
			for _, later := range g.Children[i+1:] {
				other, ok := later.(*parser.Record)
				if !ok || other.Order != n.Order || !shadows(n, other) {
					continue
				}

				b.diags.AddWarning(CodeAmbiguousRecord, path.Child(parser.KindRecord.String(), other.Name).String(),
					fmt.Sprintf("record %s is identified by the criteria of %s, which is declared first and wins",
						common.Quote(other.Name), common.Quote(n.Name)))
			}
		}
	}
}

// criteria renders the identification rules of a record, one entry per identifier.
func criteria(r *parser.Record) map[string]struct{} {
	out := make(map[string]struct{}, len(r.Identifiers))

	for _, f := range r.Identifiers {
		key := fmt.Sprintf("%d:%d=", f.Offset, f.Width)

		if f.HasLiteral {
			key += "literal:" + f.Literal
		}

		if f.Regex != nil {
			key += "regex:" + f.Regex.String()
		}

		out[key] = struct{}{}
	}

	return out
}

// shadows reports whether every raw record b identifies is also identified by a.
func shadows(a, b *parser.Record) bool {
	if a.MinMatchLength > b.MinMatchLength {
		return false
	}

	if a.MaxMatchLength != parser.Unbounded &&
		(b.MaxMatchLength == parser.Unbounded || b.MaxMatchLength > a.MaxMatchLength) {
		return false
	}

	bc := criteria(b)
	for key := range criteria(a) {
		if _, ok := bc[key]; !ok {
			return false
		}
	}

	return true
}
