package mapping

import (
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

// PathElem is one step of a Path.
type PathElem struct {
	Kind string
	Name string
}

// Path locates a component within a mapping file for diagnostics, e.g.
// "stream 'orders': record 'header': field 'date'".
type Path []PathElem

// StreamPath is the path of a stream.
func StreamPath(name string) Path {
	return Path{{Kind: "stream", Name: name}}
}

// TemplatePath is the path of a template.
func TemplatePath(name string) Path {
	return Path{{Kind: "template", Name: name}}
}

// Child returns a new path extended by one element. The receiver is not modified.
func (p Path) Child(kind, name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)

	return append(out, PathElem{Kind: kind, Name: name})
}

// Component extends the path by a component.
func (p Path) Component(c *Component) Path {
	if c.Kind == KindInclude {
		return p.Child(string(KindInclude), c.Template)
	}

	return p.Child(string(c.Kind), c.Name)
}

// Names returns the element names joined with ".", skipping the stream, e.g. "header.date".
func (p Path) Names() string {
	names := make([]string, 0, len(p))

	for _, e := range p {
		if e.Kind == "stream" || e.Kind == "template" {
			continue
		}

		names = append(names, e.Name)
	}

	return strings.Join(names, ".")
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, e := range p {
		parts[i] = e.Kind + " " + common.Quote(e.Name)
	}

	return strings.Join(parts, ": ")
}
