package mapping

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/common"
	"github.com/kevinseim/beanio-sub003/internal/diagnostic"
	"github.com/kevinseim/beanio-sub003/utils"
)

// Diagnostic codes reported by Validate.
const (
	CodeMissingName      = "missing_name"
	CodeDuplicateName    = "duplicate_name"
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidMode      = "invalid_mode"
	CodeMisplaced        = "misplaced_component"
	CodeInvalidOccurs    = "invalid_occurs"
	CodeInvalidAttribute = "invalid_attribute"
	CodeConflict         = "conflicting_attributes"
	CodeEmpty            = "empty_component"
)

// Validate checks the structure of an expanded mapping file: names, component placement,
// occurrence bounds and attribute values. Layout rules that depend on the physical
// format are left to the compiler.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("mapping_is_nil", "", "mapping file is nil")
		return res
	}

	seenHandlers := map[string]struct{}{}

	for _, h := range f.TypeHandlers {
		path := Path{{Kind: "typeHandler", Name: h.Name}}.String()

		switch {
		case h.Name == "":
			res.AddError(CodeMissingName, "", "type handler without a name")
		case h.Type == "":
			res.AddError(CodeInvalidAttribute, path, "type handler needs a type")
		}

		if _, dup := seenHandlers[h.Name]; dup {
			res.AddErrorf(CodeDuplicateName, path, "duplicate type handler %s", common.Quote(h.Name))
		}

		seenHandlers[h.Name] = struct{}{}
	}

	seenStreams := map[string]struct{}{}

	for i := range f.Streams {
		s := &f.Streams[i]
		path := StreamPath(s.Name)

		if s.Name == "" {
			res.AddError(CodeMissingName, "", fmt.Sprintf("stream #%d has no name", i+1))
		} else if _, dup := seenStreams[s.Name]; dup {
			res.AddErrorf(CodeDuplicateName, path.String(), "duplicate stream %s", common.Quote(s.Name))
		}

		seenStreams[s.Name] = struct{}{}

		validateStream(res, s, path)
	}

	return res
}

func validateStream(res *diagnostic.Diagnostics, s *Stream, path Path) {
	if !s.Format.IsValid() {
		res.AddError(CodeInvalidFormat, path.String(),
			fmt.Sprintf("unsupported format %q", s.Format), formatNames()...)
	}

	if !s.Mode.IsValid() {
		res.AddErrorf(CodeInvalidMode, path.String(), "invalid mode %q (expected read, write or readwrite)", s.Mode)
	}

	if s.MinOccurs != nil && *s.MinOccurs < 0 {
		res.AddErrorf(CodeInvalidOccurs, path.String(), "minOccurs %d is negative", *s.MinOccurs)
	}

	if len(s.Parser.Quote) > 1 || len(s.Parser.Escape) > 1 {
		res.AddError(CodeInvalidAttribute, path.String(), "quote and escape must be single characters")
	}

	if common.IsEmpty(s.Children) {
		res.AddError(CodeEmpty, path.String(), "stream declares no records")
	}

	validateChildren(res, s.Children, path, KindGroup)
}

func formatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}

	return names
}

// allowedChildren lists the component kinds each parent kind may contain.
var allowedChildren = map[ComponentKind][]ComponentKind{
	KindGroup:   {KindGroup, KindRecord},
	KindRecord:  {KindSegment, KindField},
	KindSegment: {KindSegment, KindField},
}

func validateChildren(res *diagnostic.Diagnostics, children []Component, parent Path, parentKind ComponentKind) {
	seen := map[string]struct{}{}

	for i := range children {
		c := &children[i]
		path := parent.Component(c)

		if c.Kind == KindInclude {
			res.AddErrorf(CodeMisplaced, path.String(), "include of %s was not expanded", common.Quote(c.Template))
			continue
		}

		ok := false
		for _, k := range allowedChildren[parentKind] {
			ok = ok || k == c.Kind
		}

		if !ok {
			res.AddErrorf(CodeMisplaced, path.String(), "a %s cannot contain a %s", parentKind, c.Kind)
			continue
		}

		if c.Name == "" {
			res.AddErrorf(CodeMissingName, parent.String(), "%s #%d (line %d) has no name", c.Kind, i+1, c.Line)
			continue
		}

		if _, dup := seen[c.Name]; dup {
			res.AddErrorf(CodeDuplicateName, path.String(), "duplicate %s name %s", c.Kind, common.Quote(c.Name))
		}

		seen[c.Name] = struct{}{}

		validateComponent(res, c, path)

		if c.Kind != KindField {
			if common.IsEmpty(c.Children) {
				res.AddErrorf(CodeEmpty, path.String(), "%s has no children", c.Kind)
			}

			validateChildren(res, c.Children, path, c.Kind)
		}
	}
}

func validateComponent(res *diagnostic.Diagnostics, c *Component, path Path) {
	p := path.String()

	if c.MinOccurs != nil && *c.MinOccurs < 0 {
		res.AddErrorf(CodeInvalidOccurs, p, "minOccurs %d is negative", *c.MinOccurs)
	}

	if c.MaxOccurs != nil {
		switch {
		case *c.MaxOccurs == 0:
			res.AddError(CodeInvalidOccurs, p, "maxOccurs must be at least 1")
		case c.MinOccurs != nil && !utils.IsInOpenRange(0, *c.MinOccurs, int(*c.MaxOccurs)):
			res.AddErrorf(CodeInvalidOccurs, p, "minOccurs %d exceeds maxOccurs %s", *c.MinOccurs, c.MaxOccurs)
		}
	}

	if c.MinLength != nil && c.MaxLength != nil && !utils.IsInOpenRange(0, *c.MinLength, int(*c.MaxLength)) {
		res.AddErrorf(CodeInvalidAttribute, p, "minLength %d exceeds maxLength %s", *c.MinLength, c.MaxLength)
	}

	if c.Class != "" && c.Target != "" {
		res.AddError(CodeConflict, p, "class and target cannot both be set")
	}

	if c.OccursRef != "" && c.MaxOccurs != nil && !c.MaxOccurs.IsUnbounded() && *c.MaxOccurs <= 1 {
		res.AddErrorf(CodeInvalidOccurs, p, "occursRef %s needs maxOccurs above 1", common.Quote(c.OccursRef))
	}

	switch c.Kind {
	case KindRecord:
		if c.RidLength != "" {
			if _, _, err := ParseRidLength(c.RidLength); err != nil {
				res.AddError(CodeInvalidAttribute, p, err.Error())
			}
		}

	case KindSegment:
		switch c.Collection {
		case "", "list", "array":
		case "map":
			if c.Key == "" {
				res.AddError(CodeInvalidAttribute, p, "map collections need a key")
			}
		default:
			res.AddErrorf(CodeInvalidAttribute, p, "invalid collection %q (expected list, array or map)", c.Collection)
		}

	case KindField:
		validateField(res, c, p)
	}
}

func validateField(res *diagnostic.Diagnostics, c *Component, p string) {
	switch c.Collection {
	case "", "list", "array":
	case "map":
		res.AddError(CodeInvalidAttribute, p, "fields cannot use map collections")
	default:
		res.AddErrorf(CodeInvalidAttribute, p, "invalid collection %q (expected list or array)", c.Collection)
	}

	switch strings.ToLower(c.Justify) {
	case "", "left", "right":
	default:
		res.AddErrorf(CodeInvalidAttribute, p, "invalid justify %q (expected left or right)", c.Justify)
	}

	if len([]rune(c.Padding)) > 1 {
		res.AddErrorf(CodeInvalidAttribute, p, "padding %q must be a single character", c.Padding)
	}

	if c.Length != nil && *c.Length <= 0 {
		res.AddErrorf(CodeInvalidAttribute, p, "length %d must be positive", *c.Length)
	}

	if c.Position != nil && *c.Position < 0 {
		res.AddErrorf(CodeInvalidAttribute, p, "position %d is negative", *c.Position)
	}

	if c.Regex != "" {
		if _, err := regexp.Compile(c.Regex); err != nil {
			res.AddErrorf(CodeInvalidAttribute, p, "invalid regex: %v", err)
		}
	}

	if c.Rid && c.Literal == nil && c.Regex == "" {
		res.AddError(CodeInvalidAttribute, p, "identifying fields need a literal or regex")
	}

	if c.Literal != nil && c.Default != nil && *c.Literal != *c.Default {
		res.AddError(CodeConflict, p, "default differs from literal")
	}
}

// ParseRidLength parses a record identification length: "n", "n-m" or "n-". The maximum
// is -1 when unbounded.
func ParseRidLength(s string) (minLen, maxLen int, err error) {
	lo, hi := splitRange(s)

	minLen, err = strconv.Atoi(lo)
	if err != nil || minLen < 0 {
		return 0, 0, fmt.Errorf("invalid ridLength %q (expected n, n-m or n-)", s)
	}

	switch {
	case !strings.Contains(s, "-"):
		return minLen, minLen, nil
	case hi == "":
		return minLen, -1, nil
	}

	maxLen, err = strconv.Atoi(hi)
	if err != nil || maxLen < minLen {
		return 0, 0, fmt.Errorf("invalid ridLength %q (expected n, n-m or n-)", s)
	}

	return minLen, maxLen, nil
}

func splitRange(s string) (lo, hi string) {
	return utils.Unpack2(strings.SplitN(strings.TrimSpace(s), "-", 2))
}
