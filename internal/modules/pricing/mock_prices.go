package pricing

// mockPrices is the terminal static fallback, keyed by uppercased symbol.
// Covers the equities, ETFs, mutual funds, and coins a personal portfolio is
// likely to hold. Values are point-in-time and only used when every live
// source and the cache have failed.
var mockPrices = map[string]float64{
	// Major stocks
	"AAPL": 185.50, "GOOGL": 2725.00, "MSFT": 385.20, "TSLA": 245.30,
	"NVDA": 172.40, "AMZN": 155.75, "META": 485.25, "NFLX": 580.40,
	"CMA": 47.85, "JPM": 175.90, "BAC": 32.45, "WFC": 45.30,
	// ETFs and index funds
	"SPY": 485.20, "QQQ": 395.75, "VTI": 245.60, "IWM": 198.30,
	"VOO": 445.80, "VXUS": 58.25, "BND": 76.50, "VEA": 47.90,
	// Fidelity mutual funds
	"FSKAX": 159.85, "FTIHX": 15.92, "FXNAX": 11.45, "FZROX": 14.25,
	"FZILX": 12.85, "FDVV": 35.60, "FXNAC": 55.40, "FNILX": 58.75,
	// Crypto, both bare and pair forms
	"BTC": 67500.00, "BTC-USD": 67500.00,
	"ETH": 3850.00, "ETH-USD": 3850.00,
	"XRP": 0.62, "XRP-USD": 0.62,
	"DOGE": 0.085, "DOGE-USD": 0.085,
	"BNB": 615.00, "BNB-USD": 615.00,
	"ADA": 0.45, "ADA-USD": 0.45,
	"SOL": 185.30, "SOL-USD": 185.30,
	"DOT": 7.25, "DOT-USD": 7.25,
	// Common individual stocks
	"AMD": 145.25, "INTC": 32.80, "DIS": 95.40, "KO": 61.20,
	"PEP": 175.60, "V": 265.80, "MA": 420.30, "PYPL": 62.45,
}
