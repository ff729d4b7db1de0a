package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSummary(t *testing.T) {
	s := DemoSummary(SourceMockError, "Error loading real data: HTTP 503")

	assert.Equal(t, SourceMockError, s.DataSource)
	assert.Equal(t, "Error loading real data: HTTP 503", s.Note)

	// The demo dataset is fully populated so the dashboard always renders
	require.NotEmpty(t, s.Positions)
	assert.NotZero(t, s.TotalValue)
	assert.NotEmpty(t, s.ByBroker)
	assert.False(t, s.LastUpdated.IsZero())

	symbols := make([]string, 0, len(s.Positions))
	for _, p := range s.Positions {
		symbols = append(symbols, p.Symbol)
		assert.Positive(t, p.CurrentPrice, p.Symbol)
		assert.Positive(t, p.CurrentValue, p.Symbol)
	}
	assert.Contains(t, symbols, "AAPL")
	assert.Contains(t, symbols, "BTC-USD")
}

func TestDemoSummaryDataSourceVariants(t *testing.T) {
	empty := DemoSummary(SourceMockEmpty, "No valid stock positions found in sheets")
	assert.Equal(t, SourceMockEmpty, empty.DataSource)

	errored := DemoSummary(SourceMockError, "something broke")
	assert.Equal(t, SourceMockError, errored.DataSource)

	// Same canned positions either way
	assert.Equal(t, len(empty.Positions), len(errored.Positions))
}
