package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		valid  bool
	}{
		{"AAPL", true},
		{"GOOGL", true},
		{"FSKAX", true},
		{"BTC-USD", false}, // contains USD; pairs are still priced via the crypto path upstream
		{"BTC", true},
		{"CASH", false},
		{"CASHAPP", false}, // substring match is deliberate
		{"USD", false},
		{"USDT", false},
		{"ACCOUNT", false},
		{"ACCOUNT TOTAL", false},
		{"TOTAL", false},
		{"cash", false}, // case insensitive
		{"", true},      // emptiness is filtered by the parser, not here
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidSymbol(tt.symbol))
		})
	}
}

func TestIsCryptoSymbol(t *testing.T) {
	tests := []struct {
		symbol string
		crypto bool
	}{
		{"BTC", true},
		{"btc", true},
		{"ETH", true},
		{"SOL", true},
		{"DOT", true},
		{"BTC-USD", true},
		{"XYZ-USD", true}, // any -USD pair routes to the crypto chain
		{"AAPL", false},
		{"LTC", false}, // not in the fixed set
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.crypto, IsCryptoSymbol(tt.symbol))
		})
	}
}
