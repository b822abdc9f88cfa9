package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, s *Session, lines ...string) []string {
	t.Helper()

	var names []string

	for i, text := range lines {
		_, err := s.Read(line(i+1, text))
		require.NoError(t, err, "line %d", i+1)

		names = append(names, s.RecordName())
	}

	return names
}

func TestSequence(t *testing.T) {
	s := NewSession(headerDetailTrailer())

	names := readAll(t, s, "H,2024", "D,10", "D,20", "T,2")
	assert.Equal(t, []string{"header", "detail", "detail", "trailer"}, names)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestSequenceErrors(t *testing.T) {
	t.Run("detail after trailer", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())
		readAll(t, s, "H,2024", "T,0")

		_, err := s.Read(line(3, "D,10"))

		var unexpected *UnexpectedRecordError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "detail", unexpected.RecordName)
		assert.Equal(t, 3, unexpected.LineNumber)
		assert.True(t, IsSequenceError(err))
	})

	t.Run("detail before header", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())

		_, err := s.Read(line(1, "D,10"))

		var unexpected *UnexpectedRecordError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "detail", unexpected.RecordName)
		assert.Equal(t, "header", unexpected.Expected)

		// state is untouched, the header is still accepted
		readAll(t, s, "H,2024")
	})

	t.Run("second trailer", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())
		readAll(t, s, "H,2024", "T,0")

		_, err := s.Read(line(3, "T,0"))

		var unexpected *UnexpectedRecordError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "trailer", unexpected.RecordName)
		assert.Equal(t, 3, unexpected.LineNumber)
		assert.True(t, IsSequenceError(err))
	})

	t.Run("no details", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())
		assert.Equal(t, []string{"header", "trailer"}, readAll(t, s, "H,2024", "T,0"))
		assert.NoError(t, s.Close())
	})

	t.Run("trailer missing", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())
		readAll(t, s, "H,2024", "D,10")

		err := s.Close()

		var missing *MissingRecordError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "trailer", missing.Name)
		assert.Equal(t, KindRecord, missing.Kind)
		assert.Equal(t, 2, missing.LineNumber)
		assert.EqualError(t, err, "expected record 'trailer' before end of stream at line 2")
	})

	t.Run("unidentified", func(t *testing.T) {
		s := NewSession(headerDetailTrailer())

		_, err := s.Read(line(1, "X,1"))

		var unidentified *UnidentifiedRecordError
		require.ErrorAs(t, err, &unidentified)
		assert.Equal(t, "X,1", unidentified.Text)
		assert.True(t, IsSequenceError(err))
	})
}

func TestRecordOccursBounds(t *testing.T) {
	stream := func() *Stream {
		return newTestStream(grp("root", 0, 0, 1,
			rec("item", 1, 1, 3, fld("type", rid("I"))),
		), DelimitedLayout{})
	}

	t.Run("within bounds", func(t *testing.T) {
		for n := 1; n <= 3; n++ {
			s := NewSession(stream())
			for i := range n {
				_, err := s.Read(line(i+1, "I"))
				require.NoError(t, err)
			}

			assert.NoError(t, s.Close())
			assert.Equal(t, n, s.State().Count(s.Stream().Records[0]))
		}
	})

	t.Run("too many", func(t *testing.T) {
		s := NewSession(stream())
		readAll(t, s, "I", "I", "I")

		_, err := s.Read(line(4, "I"))

		var unexpected *UnexpectedRecordError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "item", unexpected.RecordName)
	})

	t.Run("too few", func(t *testing.T) {
		st := stream()
		st.Root.MinOccurs = 1

		var missing *MissingRecordError
		require.ErrorAs(t, NewSession(st).Close(), &missing)
		assert.Equal(t, "item", missing.Name)
	})
}

func TestFirstDeclaredRecordWins(t *testing.T) {
	root := grp("root", 0, 0, 1,
		rec("first", 1, 0, Unbounded, fld("type", rid("A")), fld("value")),
		rec("second", 1, 0, Unbounded, fld("type", rid("A")), fld("value")),
	)
	root.Ordered = false

	s := NewSession(newTestStream(root, DelimitedLayout{}))

	assert.Equal(t, []string{"first", "first"}, readAll(t, s, "A,1", "A,2"))
}

func TestUnorderedGroup(t *testing.T) {
	root := grp("root", 0, 0, 1,
		rec("a", 1, 1, 1, fld("type", rid("A"))),
		rec("b", 1, 1, 1, fld("type", rid("B"))),
	)
	root.Ordered = false

	s := NewSession(newTestStream(root, DelimitedLayout{}))

	assert.Equal(t, []string{"b", "a"}, readAll(t, s, "B", "A"))
	assert.NoError(t, s.Close())
}

func TestRepeatingGroup(t *testing.T) {
	batch := grp("batch", 2, 1, Unbounded,
		rec("header", 1, 1, 1, fld("type", rid("H"))),
		rec("detail", 2, 0, Unbounded, fld("type", rid("D"))),
		rec("trailer", 3, 1, 1, fld("type", rid("T"))),
	)
	stream := newTestStream(grp("root", 0, 0, 1,
		rec("file", 1, 1, 1, fld("type", rid("F"))),
		batch,
		rec("end", 3, 1, 1, fld("type", rid("E"))),
	), DelimitedLayout{})

	s := NewSession(stream)

	names := readAll(t, s, "F", "H", "D", "T", "H", "T", "H", "D", "D", "T", "E")
	assert.Equal(t, []string{
		"file", "header", "detail", "trailer", "header", "trailer",
		"header", "detail", "detail", "trailer", "end",
	}, names)
	assert.Equal(t, 3, s.State().Count(batch))
	assert.NoError(t, s.Close())

	t.Run("incomplete iteration", func(t *testing.T) {
		s := NewSession(stream)
		readAll(t, s, "F", "H", "D")

		_, err := s.Read(line(4, "H"))

		var unexpected *UnexpectedRecordError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, "header", unexpected.RecordName)
		assert.Equal(t, "trailer", unexpected.Expected)
	})

	t.Run("missing group", func(t *testing.T) {
		s := NewSession(stream)
		readAll(t, s, "F")

		var missing *MissingRecordError
		require.ErrorAs(t, s.Close(), &missing)
		assert.Equal(t, "header", missing.Name)
	})
}
