package portfolio

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFidelityLayout(t *testing.T) {
	p := NewParser(zerolog.Nop())

	csv := "Account,Symbol,Quantity,Cost Basis\n" +
		"Roth IRA,AAPL,10,1500\n" +
		"Individual,GOOGL,2,5450.50\n"

	positions := p.Parse(csv)
	require.Len(t, positions, 2)

	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, "Roth IRA", positions[0].Account)
	assert.Equal(t, 10.0, positions[0].Shares)
	assert.Equal(t, 150.0, positions[0].CostBasis)
	assert.Equal(t, 1500.0, positions[0].TotalCostBasis)

	assert.Equal(t, "GOOGL", positions[1].Symbol)
	assert.Equal(t, "Individual", positions[1].Account)
	assert.InDelta(t, 2725.25, positions[1].CostBasis, 0.001)
}

func TestParseThreeColumnLayout(t *testing.T) {
	p := NewParser(zerolog.Nop())

	csv := "Symbol,Quantity,Cost Basis\n" +
		"MSFT,5,1750\n"

	positions := p.Parse(csv)
	require.Len(t, positions, 1)

	assert.Equal(t, "MSFT", positions[0].Symbol)
	assert.Equal(t, DefaultAccount, positions[0].Account)
	assert.Equal(t, 5.0, positions[0].Shares)
	assert.Equal(t, 350.0, positions[0].CostBasis)
}

func TestParseStripsQuotes(t *testing.T) {
	p := NewParser(zerolog.Nop())

	csv := "Symbol,Quantity,Cost Basis\n" +
		`"AAPL","10","1500"` + "\n"

	positions := p.Parse(csv)
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, 10.0, positions[0].Shares)
}

func TestParseSplitsInsideQuotedFields(t *testing.T) {
	// Splitting is plain comma splitting: a quoted field containing a comma
	// breaks into two cells and shifts the row, which then fails number
	// parsing and gets skipped. Documented behavior, not a bug.
	p := NewParser(zerolog.Nop())

	csv := "Account,Symbol,Quantity,Cost Basis\n" +
		`Roth IRA,"BRK,B",10,1500` + "\n"

	positions := p.Parse(csv)
	assert.Empty(t, positions)
}

func TestParseSkipsInvalidRows(t *testing.T) {
	p := NewParser(zerolog.Nop())

	tests := []struct {
		name string
		row  string
	}{
		{"cash marker", "Trading,CASH,100,100"},
		{"usd pair marker", "Trading,USDT,100,100"},
		{"account total row", "Trading,TOTAL,0,12500"},
		{"zero shares", "Trading,AAPL,0,1500"},
		{"zero cost", "Trading,AAPL,10,0"},
		{"negative shares", "Trading,AAPL,-5,1500"},
		{"unparseable shares", "Trading,AAPL,ten,1500"},
		{"empty symbol", "Trading,,10,1500"},
		{"too few columns", "Trading,AAPL"},
		{"stray header row", "Account,Symbol,Quantity,Cost Basis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Account,Symbol,Quantity,Cost Basis\n" + tt.row + "\n"
			assert.Empty(t, p.Parse(csv))
		})
	}
}

func TestParseKeepsRowOrder(t *testing.T) {
	p := NewParser(zerolog.Nop())

	csv := "Symbol,Quantity,Cost Basis\n" +
		"NVDA,3,500\n" +
		"AAPL,10,1500\n" +
		"BTC-USD,0.5,20000\n"

	positions := p.Parse(csv)
	require.Len(t, positions, 3)
	assert.Equal(t, "NVDA", positions[0].Symbol)
	assert.Equal(t, "AAPL", positions[1].Symbol)
	assert.Equal(t, "BTC-USD", positions[2].Symbol)
}

func TestParseEmptyInput(t *testing.T) {
	p := NewParser(zerolog.Nop())

	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("   \n  "))
	assert.Empty(t, p.Parse("Symbol,Quantity,Cost Basis"))
}

func TestParseMixedValidAndInvalid(t *testing.T) {
	p := NewParser(zerolog.Nop())

	csv := "Account,Symbol,Quantity,Cost Basis\n" +
		"Roth IRA,AAPL,10,1500\n" +
		"Roth IRA,CASH,250,250\n" +
		"Kraken,BTC-USD,0.25,12000\n" +
		"Trading,TOTAL,0,13750\n"

	positions := p.Parse(csv)
	require.Len(t, positions, 2)
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.Equal(t, "BTC-USD", positions[1].Symbol)
}
