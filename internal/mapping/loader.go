package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrCircularReference is returned for import cycles between files and include cycles
// between templates.
var ErrCircularReference = errors.New("circular reference")

// LoadFile loads a YAML mapping file and, recursively, the files it imports. Imported
// templates, type handlers and streams precede the importing file's own. A file
// imported along several paths is loaded once.
func LoadFile(path string) (*File, error) {
	l := &loader{done: make(map[string]bool)}

	return l.load(path, nil)
}

// Parse parses YAML data into a File. Imports are not followed.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	for i := range f.Streams {
		s := &f.Streams[i]
		if s.Mode == "" {
			s.Mode = ModeReadWrite
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

type loader struct {
	done map[string]bool
}

func (l *loader) load(path string, stack []string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mapping file %s: %w", path, err)
	}

	if slices.Contains(stack, abs) {
		return nil, fmt.Errorf("%w: import %s", ErrCircularReference, strings.Join(append(stack, abs), " -> "))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	l.done[abs] = true

	merged := &File{Version: f.Version, Imports: f.Imports, Source: abs}
	stack = append(stack, abs)

	for _, imp := range f.Imports {
		if !filepath.IsAbs(imp) {
			imp = filepath.Join(filepath.Dir(abs), imp)
		}

		if l.done[filepath.Clean(imp)] && !slices.Contains(stack, filepath.Clean(imp)) {
			continue
		}

		sub, err := l.load(imp, stack)
		if err != nil {
			return nil, err
		}

		merged.merge(sub)
	}

	merged.merge(f)

	return merged, nil
}

func (f *File) merge(other *File) {
	f.Templates = append(f.Templates, other.Templates...)
	f.TypeHandlers = append(f.TypeHandlers, other.TypeHandlers...)
	f.Streams = append(f.Streams, other.Streams...)
}
