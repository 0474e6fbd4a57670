package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 1066.67, Round2((1070.0+1060.0+1070.0)/3))
	assert.Equal(t, -0.94, Round2(-0.9389))
	assert.Equal(t, 12.3, Round(12.345, 1))
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 53.14, Percent(531.4, 1000))
	assert.Equal(t, -1.5, Percent(-15, 1000))
	assert.Equal(t, 0.0, Percent(10, 0))
}

// TestParseNumber は桁区切り・符号・欠損表記の解釈を検証します。
func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1,065.00", 1065, true},
		{"25,612,345", 25612345, true},
		{"+5.00", 5, true},
		{"-10.50", -10.5, true},
		{" 7 ", 7, true},
		{"--", 0, false},
		{"---", 0, false},
		{"", 0, false},
		{"X", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
