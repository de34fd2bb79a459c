package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		hasError bool
	}{
		{"plain integer", "799", 799, false},
		{"decimal point", "12.99", 12.99, false},
		{"decimal comma", "12,99", 12.99, false},
		{"dot thousands comma decimal", "1.299,50", 1299.50, false},
		{"comma thousands dot decimal", "1,299.50", 1299.50, false},
		{"comma only three digit group is thousands", "1,299", 1299, false},
		{"comma only short group is decimal", "1,5", 1.5, false},
		{"comma only long group is decimal", "1,5000", 1.5, false},
		{"dot only three digit group is thousands", "1.299", 1299, false},
		{"multiple comma groups", "1,234,567", 1234567, false},
		{"multiple dot groups", "1.234.567", 1234567, false},
		{"both separators large", "12.345.678,90", 12345678.90, false},
		{"currency prefix", "$ 1,299.00", 1299, false},
		{"currency suffix", "8990 JPY", 8990, false},
		{"embedded whitespace", " 32 000 ", 32000, false},
		{"no digits", "gratis", 0, true},
		{"empty", "", 0, true},
		{"separators only", ",.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.hasError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
