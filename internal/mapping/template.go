package mapping

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/common"
	"github.com/kevinseim/beanio-sub003/internal/match"
)

// ErrUnknownTemplate is returned when an include names a template that does not exist.
var ErrUnknownTemplate = errors.New("unknown template")

// Expand replaces every include in the file's streams with the children of the named
// template, recursively. The first template declared under a name wins.
func Expand(f *File) error {
	e := &expander{
		templates: make(map[string]*Template, len(f.Templates)),
		expanded:  make(map[string][]Component),
	}

	for i := range f.Templates {
		t := &f.Templates[i]
		if _, exists := e.templates[t.Name]; !exists {
			e.templates[t.Name] = t
			e.names = append(e.names, t.Name)
		}
	}

	for i := range f.Streams {
		s := &f.Streams[i]

		children, err := e.expandList(s.Children, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", StreamPath(s.Name), err)
		}

		s.Children = children
	}

	return nil
}

type expander struct {
	templates map[string]*Template
	names     []string
	expanded  map[string][]Component
}

func (e *expander) template(name string, stack []string) ([]Component, error) {
	if slices.Contains(stack, name) {
		return nil, fmt.Errorf("%w: template %s", ErrCircularReference, strings.Join(append(stack, name), " -> "))
	}

	if children, ok := e.expanded[name]; ok {
		return children, nil
	}

	t, ok := e.templates[name]
	if !ok {
		err := fmt.Errorf("%w %s", ErrUnknownTemplate, common.Quote(name))
		if hints := match.Suggest(name, e.names, 1); len(hints) > 0 {
			err = fmt.Errorf("%w (did you mean %s?)", err, common.Quote(hints[0]))
		}

		return nil, err
	}

	children, err := e.expandList(t.Children, append(stack, name))
	if err != nil {
		return nil, err
	}

	e.expanded[name] = children

	return children, nil
}

func (e *expander) expandList(list []Component, stack []string) ([]Component, error) {
	out := make([]Component, 0, len(list))

	for _, c := range list {
		if c.Kind == KindInclude {
			children, err := e.template(c.Template, stack)
			if err != nil {
				return nil, err
			}

			out = append(out, children...)

			continue
		}

		if len(c.Children) > 0 {
			children, err := e.expandList(c.Children, stack)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", c.Label(), err)
			}

			c.Children = children
		}

		out = append(out, c)
	}

	return out, nil
}
