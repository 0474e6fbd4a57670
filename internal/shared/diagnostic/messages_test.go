package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownTickerAndEmptyWindowDiffer(t *testing.T) {
	unknown := UnknownTicker("0000")
	empty := EmptyWindow("2330", "TSMC")

	assert.Contains(t, unknown, "could not be resolved")
	assert.Contains(t, unknown, "invalid")
	assert.NotContains(t, unknown, "non-trading")

	assert.Contains(t, empty, "2330 (TSMC)")
	assert.Contains(t, empty, "non-trading days")
	assert.NotContains(t, empty, "could not be resolved")
}

func TestNoFinancials(t *testing.T) {
	assert.Contains(t, NoFinancials("AAPL", "", false), "the ticker is invalid")
	resolved := NoFinancials("2330", "TSMC", true)
	assert.Contains(t, resolved, "2330 (TSMC)")
	assert.Contains(t, resolved, "PUT /api/stock/financial")
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "2330", label("2330", ""))
	assert.Equal(t, "2330", label("2330", "2330"))
	assert.Equal(t, "2330 (TSMC)", label("2330", "TSMC"))
}
