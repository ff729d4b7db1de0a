package portfolio

import "strings"

// invalidSymbolTokens marks cash balances, account labels and total rows that
// show up in holdings exports but are not priceable instruments.
//
// Matching is by substring, not exact match, so e.g. "CASHAPP" is also
// rejected. This is intentionally kept compatible with the legacy dashboard
// even though it is overbroad (any ticker containing "USD" is rejected).
var invalidSymbolTokens = []string{"CASH", "USD", "ACCOUNT", "TOTAL"}

// cryptoSymbols is the fixed set of tickers priced through the crypto chain.
var cryptoSymbols = map[string]bool{
	"BTC":  true,
	"ETH":  true,
	"XRP":  true,
	"DOGE": true,
	"BNB":  true,
	"ADA":  true,
	"SOL":  true,
	"DOT":  true,
}

// IsValidSymbol reports whether a ticker is a priceable instrument.
// Mutual funds like FSKAX or FTIHX are valid; cash and account markers are not.
func IsValidSymbol(symbol string) bool {
	upper := strings.ToUpper(symbol)
	for _, token := range invalidSymbolTokens {
		if strings.Contains(upper, token) {
			return false
		}
	}
	return true
}

// IsCryptoSymbol reports whether a ticker should be priced as a cryptocurrency.
// Covers both bare symbols ("BTC") and exchange-style pairs ("BTC-USD").
func IsCryptoSymbol(symbol string) bool {
	return cryptoSymbols[strings.ToUpper(symbol)] || strings.Contains(symbol, "-USD")
}
