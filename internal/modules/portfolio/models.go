// Package portfolio implements the holdings pipeline: parsing spreadsheet
// exports into positions, valuing them with live prices, and aggregating
// broker- and portfolio-level totals for the dashboard.
package portfolio

import "time"

// DefaultAccount is the account label used when a source format has no
// account column (Webull/Kraken style exports).
const DefaultAccount = "Trading"

// Data source provenance tags carried on every summary.
const (
	SourceReal      = "real"
	SourceMockEmpty = "mock (no positions)"
	SourceMockError = "mock (error)"
)

// Position is one holding parsed from a spreadsheet row.
// CostBasis is the per-share price paid; TotalCostBasis preserves the
// original total from the sheet (they diverge when shares are fractional).
type Position struct {
	Symbol         string  `json:"symbol"`
	Shares         float64 `json:"shares"`
	CostBasis      float64 `json:"cost_basis"`
	TotalCostBasis float64 `json:"total_cost_basis"`
	Account        string  `json:"account"`
	Broker         string  `json:"broker"`
}

// ValuedPosition is a Position priced with current market data.
type ValuedPosition struct {
	Position
	CurrentPrice    float64 `json:"current_price"`
	CurrentValue    float64 `json:"current_value"`
	CostValue       float64 `json:"cost_value"`
	GainLoss        float64 `json:"gain_loss"`
	GainLossPercent float64 `json:"gain_loss_percentage"`
}

// BrokerTotals holds the strict sums over one broker's valued positions.
type BrokerTotals struct {
	TotalCost  float64 `json:"total_cost"`
	TotalValue float64 `json:"total_value"`
	GainLoss   float64 `json:"gain_loss"`
}

// Summary is the complete portfolio snapshot consumed by the dashboard.
// DataSource records provenance: real data, or one of the mock fallbacks.
type Summary struct {
	TotalValue    float64                 `json:"total_value"`
	TotalCost     float64                 `json:"total_cost"`
	TotalGainLoss float64                 `json:"total_gain_loss"`
	ByBroker      map[string]BrokerTotals `json:"by_broker"`
	Positions     []ValuedPosition        `json:"positions"`
	LastUpdated   time.Time               `json:"last_updated"`
	DataSource    string                  `json:"data_source"`
	Note          string                  `json:"note,omitempty"`
}
