package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandNested(t *testing.T) {
	f, err := Parse([]byte(`
templates:
  - name: name
    children:
      - field: {name: first}
      - field: {name: last}
  - name: person
    children:
      - include: name
      - field: {name: age, type: int}
streams:
  - name: s
    format: csv
    children:
      - record:
          name: r
          children:
            - field: {name: type, rid: true, literal: P}
            - include: {template: person}
            - segment:
                name: spouse
                children:
                  - include: person
`))
	require.NoError(t, err)
	require.NoError(t, Expand(f))

	r := f.Streams[0].Children[0]
	names := make([]string, 0, len(r.Children))
	for _, c := range r.Children {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"type", "first", "last", "age", "spouse"}, names)
	assert.Len(t, r.Children[4].Children, 3)
}

func TestExpandErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		want    string
	}{
		{
			name: "self include",
			yaml: `
templates:
  - name: loop
    children:
      - include: loop
streams:
  - {name: s, format: csv, children: [{record: {name: r, children: [{include: loop}]}}]}
`,
			wantErr: ErrCircularReference,
			want:    "template loop -> loop",
		},
		{
			name: "indirect cycle",
			yaml: `
templates:
  - {name: a, children: [{include: b}]}
  - {name: b, children: [{include: a}]}
streams:
  - {name: s, format: csv, children: [{record: {name: r, children: [{include: a}]}}]}
`,
			wantErr: ErrCircularReference,
			want:    "a -> b -> a",
		},
		{
			name: "unknown template",
			yaml: `
templates:
  - {name: address, children: [{field: {name: city}}]}
streams:
  - {name: s, format: csv, children: [{record: {name: r, children: [{include: adress}]}}]}
`,
			wantErr: ErrUnknownTemplate,
			want:    "did you mean 'address'?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			err = Expand(f)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "stream 's': record 'r'")
		})
	}
}
