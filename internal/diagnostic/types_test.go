package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinseim/beanio-sub003/internal/diagnostic"
)

func TestDiagnostics(t *testing.T) {
	var d diagnostic.Diagnostics

	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning("ambiguous_record", "stream 's': group 's'", "records 'a' and 'b' overlap")
	assert.True(t, d.IsValid())

	d.AddError("unknown_class", "stream 's': record 'a'", "class 'ordr' is not registered", "order")
	d.AddErrorf("occurs", "stream 's': record 'a': field 'f'", "minOccurs %d exceeds maxOccurs %d", 3, 1)
	d.AddInfo("compiled", "stream 's'", "4 nodes")

	require.True(t, d.HasErrors())
	assert.Len(t, d.All(), 4)
	assert.Equal(t, diagnostic.DiagnosticError, d.All()[0].Severity)
	assert.Equal(t,
		"stream 's': record 'a': [unknown_class] class 'ordr' is not registered (did you mean 'order'?); "+
			"stream 's': record 'a': field 'f': [occurs] minOccurs 3 exceeds maxOccurs 1",
		d.Error().Error())

	var other diagnostic.Diagnostics
	other.AddError("x", "", "plain")
	d.Merge(other)
	assert.Len(t, d.Errors, 3)
	assert.Equal(t, "[x] plain", d.Errors[2].String())
	assert.Equal(t, "warning", diagnostic.DiagnosticWarning.String())
	assert.Equal(t, "unknown", diagnostic.DiagnosticSeverity(9).String())
}
