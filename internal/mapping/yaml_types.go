package mapping

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

// StringOrArray is a list of strings that may be written as a single string.
type StringOrArray []string

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	first, _ := common.First(s)
	return first
}

// --- StringOrArray YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// --- Occurs YAML methods ---

// UnmarshalYAML accepts a non-negative integer, or "unbounded" / "*" / -1.
func (o *Occurs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected occurrence count, got %v", node.Line, node.Kind)
	}

	switch strings.ToLower(strings.TrimSpace(node.Value)) {
	case "unbounded", "*", "-1":
		*o = Unbounded
		return nil
	}

	n, err := strconv.Atoi(node.Value)
	if err != nil || n < 0 {
		return fmt.Errorf("line %d: invalid occurrence count %q (expected a non-negative integer or 'unbounded')", node.Line, node.Value)
	}

	*o = Occurs(n)

	return nil
}

// MarshalYAML writes unbounded counts as "unbounded".
func (o Occurs) MarshalYAML() (any, error) {
	if o.IsUnbounded() {
		return "unbounded", nil
	}

	return int(o), nil
}

// --- Component YAML methods ---

// componentBody has the fields of Component without its YAML methods.
type componentBody Component

// UnmarshalYAML decodes a single-key mapping whose key is the component kind:
//
//	children:
//	  - field: {name: id, type: int}
//	  - include: address
//	  - include: {template: address}
func (c *Component) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: expected a single-key map such as {field: {...}}", node.Line)
	}

	var kind ComponentKind
	if err := node.Content[0].Decode(&kind); err != nil {
		return fmt.Errorf("line %d: invalid component kind: %w", node.Line, err)
	}

	allowed, ok := attributes[kind]
	if !ok {
		return fmt.Errorf("line %d: unknown component kind %q (expected group, record, segment, field or include)", node.Line, kind)
	}

	body := node.Content[1]

	if kind == KindInclude && body.Kind == yaml.ScalarNode {
		*c = Component{Kind: KindInclude, Template: body.Value, Line: node.Line}
		return nil
	}

	if body.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a map of attributes", body.Line, kind)
	}

	for i := 0; i < len(body.Content); i += 2 {
		key := body.Content[i].Value
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("line %d: %s does not support attribute %q", body.Content[i].Line, kind, key)
		}
	}

	var decoded componentBody
	if err := body.Decode(&decoded); err != nil {
		return err
	}

	*c = Component(decoded)
	c.Kind = kind
	c.Line = node.Line

	return nil
}

// MarshalYAML writes the component back in its single-key form.
func (c Component) MarshalYAML() (any, error) {
	if c.Kind == KindInclude {
		return map[string]string{string(KindInclude): c.Template}, nil
	}

	return map[string]componentBody{string(c.Kind): componentBody(c)}, nil
}
