package portfolio

import "time"

// DemoSummary returns the canned demo dataset substituted whenever live data
// cannot be obtained. The dashboard must always render something, so every
// failure mode degrades to this fully populated summary.
func DemoSummary(dataSource, note string) Summary {
	positions := []ValuedPosition{
		{
			Position:     Position{Symbol: "AAPL", Shares: 10, CostBasis: 150.00, TotalCostBasis: 1500.00, Account: DefaultAccount, Broker: "Fidelity"},
			CurrentPrice: 175.00, CurrentValue: 1750.00, CostValue: 1500.00, GainLoss: 250.00, GainLossPercent: 16.67,
		},
		{
			Position:     Position{Symbol: "GOOGL", Shares: 2, CostBasis: 2400.00, TotalCostBasis: 4800.00, Account: DefaultAccount, Broker: "Webull"},
			CurrentPrice: 2600.00, CurrentValue: 5200.00, CostValue: 4800.00, GainLoss: 400.00, GainLossPercent: 8.33,
		},
		{
			Position:     Position{Symbol: "MSFT", Shares: 5, CostBasis: 300.00, TotalCostBasis: 1500.00, Account: DefaultAccount, Broker: "Fidelity"},
			CurrentPrice: 320.00, CurrentValue: 1600.00, CostValue: 1500.00, GainLoss: 100.00, GainLossPercent: 6.67,
		},
		{
			Position:     Position{Symbol: "BTC-USD", Shares: 0.5, CostBasis: 45000.00, TotalCostBasis: 22500.00, Account: DefaultAccount, Broker: "Kraken"},
			CurrentPrice: 47000.00, CurrentValue: 23500.00, CostValue: 22500.00, GainLoss: 1000.00, GainLossPercent: 4.44,
		},
	}

	return Summary{
		TotalValue:    125750.00,
		TotalCost:     118500.00,
		TotalGainLoss: 7250.00,
		ByBroker: map[string]BrokerTotals{
			"Fidelity": {TotalCost: 65000.00, TotalValue: 68500.00, GainLoss: 3500.00},
			"Webull":   {TotalCost: 35000.00, TotalValue: 38750.00, GainLoss: 3750.00},
			"Kraken":   {TotalCost: 18500.00, TotalValue: 18500.00, GainLoss: 0.00},
		},
		Positions:   positions,
		LastUpdated: time.Now().UTC(),
		DataSource:  dataSource,
		Note:        note,
	}
}
