package portfolio

import "time"

// Value prices a position at the given current price.
// Cost value is the preserved total from the sheet, not shares*costBasis, so
// rounding in the per-share figure never skews gain/loss. A zero cost value
// yields a 0% gain/loss rather than a division fault.
func Value(pos Position, currentPrice float64) ValuedPosition {
	currentValue := pos.Shares * currentPrice
	costValue := pos.TotalCostBasis
	gainLoss := currentValue - costValue

	gainLossPercent := 0.0
	if costValue > 0 {
		gainLossPercent = gainLoss / costValue * 100
	}

	return ValuedPosition{
		Position:        pos,
		CurrentPrice:    currentPrice,
		CurrentValue:    currentValue,
		CostValue:       costValue,
		GainLoss:        gainLoss,
		GainLossPercent: gainLossPercent,
	}
}

// Aggregate folds valued positions into per-broker and portfolio totals.
// Brokers are reported in the given fixed order; a broker with no positions
// still appears with all-zero totals. Position order in the summary is the
// order of the input slice.
func Aggregate(positions []ValuedPosition, brokers []string) Summary {
	byBroker := make(map[string]BrokerTotals, len(brokers))
	totalValue := 0.0
	totalCost := 0.0

	for _, broker := range brokers {
		totals := BrokerTotals{}
		for _, pos := range positions {
			if pos.Broker != broker {
				continue
			}
			totals.TotalValue += pos.CurrentValue
			totals.TotalCost += pos.CostValue
		}
		totals.GainLoss = totals.TotalValue - totals.TotalCost

		byBroker[broker] = totals
		totalValue += totals.TotalValue
		totalCost += totals.TotalCost
	}

	return Summary{
		TotalValue:    totalValue,
		TotalCost:     totalCost,
		TotalGainLoss: totalValue - totalCost,
		ByBroker:      byBroker,
		Positions:     positions,
		LastUpdated:   time.Now().UTC(),
		DataSource:    SourceReal,
	}
}
