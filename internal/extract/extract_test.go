package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportHTML = `<html><body>
<h1>Frequency Response</h1>
<table>
<tr><th>Frequency</th><th>Harman Target</th><th>Std. Err.</th><th>Avg. Response</th></tr>
<tr><td>54 Hz</td><td>26.81dB</td><td>1.20</td><td>24.50dB</td></tr>
<tr><td>20</td><td>26.5</td><td>0.90</td><td>30.1</td></tr>
<tr><td>1,000</td><td>90.0</td><td>0.50</td><td>85.25</td></tr>
</table>
</body></html>`

func TestRows_SortsAscendingByFrequency(t *testing.T) {
	rows, headers, err := Rows(strings.NewReader(reportHTML), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Frequency", "Harman Target", "Std. Err.", "Avg. Response"}, headers)

	require.Len(t, rows, 3)
	assert.Equal(t, 20.0, rows[0].Frequency)
	assert.Equal(t, 54.0, rows[1].Frequency)
	assert.Equal(t, 1000.0, rows[2].Frequency)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Frequency, rows[i].Frequency)
	}

	// Cell 1 is the target, cell 3 the measured response, cell 2 skipped.
	assert.Equal(t, 26.81, rows[1].Target)
	assert.Equal(t, 24.5, rows[1].Measured)
}

func TestRows_NoTable(t *testing.T) {
	doc := `<html><body><p>No measurements here.</p></body></html>`

	_, _, err := Rows(strings.NewReader(doc), Options{})
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestRows_HeaderOnlyTable(t *testing.T) {
	doc := `<html><body><table>
<tr><th>Frequency</th><th>Target</th><th>Err</th><th>Response</th></tr>
</table></body></html>`

	_, headers, err := Rows(strings.NewReader(doc), Options{})
	assert.ErrorIs(t, err, ErrNoValidData)
	assert.Len(t, headers, 4)
}

func TestRows_UsesFirstTableOnly(t *testing.T) {
	doc := `<html><body>
<table><tr><td>nav</td><td>nav</td><td>nav</td><td>nav</td></tr></table>
<table><tr><td>20</td><td>26.5</td><td>0</td><td>21.0</td></tr></table>
</body></html>`

	// The first table has no numeric rows, and the second is never read.
	_, _, err := Rows(strings.NewReader(doc), Options{})
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestRows_DropsPartialRows(t *testing.T) {
	doc := `<html><body><table>
<tr><td>20</td><td>26.5</td><td>0</td><td>21.0</td></tr>
<tr><td>54</td><td>n/a</td><td>0</td><td>22.0</td></tr>
<tr><td>88</td><td>25.0</td></tr>
<tr><td>120</td><td>24.0</td><td>0</td><td></td></tr>
</table></body></html>`

	rows, _, err := Rows(strings.NewReader(doc), Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].Frequency)
}

func TestRows_KeepsDuplicateFrequencies(t *testing.T) {
	doc := `<html><body><table>
<tr><td>54</td><td>26.0</td><td>0</td><td>21.0</td></tr>
<tr><td>54</td><td>27.0</td><td>0</td><td>22.0</td></tr>
</table></body></html>`

	rows, _, err := Rows(strings.NewReader(doc), Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in     string
		strict bool
		want   float64
		ok     bool
	}{
		{in: "54", want: 54, ok: true},
		{in: ""},
		{in: "   "},
		{in: "26.81dB", want: 26.81, ok: true},
		{in: "  -3.5 dB ", want: -3.5, ok: true},
		{in: "1,000", want: 1000, ok: true},
		{in: "n/a"},
		{in: "."},
		// The minus is not anchored; cleaning keeps "1-2" intact and the
		// float parse rejects it.
		{in: "1-2"},
		{in: "--2"},
		// Lenient parsing accepts bare-dot forms, strict does not.
		{in: ".5", want: 0.5, ok: true},
		{in: ".5", strict: true},
		{in: "5.", want: 5, ok: true},
		{in: "5.", strict: true},
		{in: "-3.5", strict: true, want: -3.5, ok: true},
	}

	for _, tt := range tests {
		name := tt.in
		if tt.strict {
			name += " (strict)"
		}
		t.Run(name, func(t *testing.T) {
			got, ok := cleanNumber(tt.in, tt.strict)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCleanNumber_IdempotentOnCleanInput(t *testing.T) {
	for _, in := range []string{"54", "-3.5", "0.25", "1000"} {
		got, ok := cleanNumber(in, false)
		require.True(t, ok, in)
		again, ok := cleanNumber(in, true)
		require.True(t, ok, in)
		assert.Equal(t, got, again, in)
	}
}
