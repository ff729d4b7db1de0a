package portfolio

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Parser turns raw CSV text from a holdings export into positions.
//
// Two layouts are supported, detected from the header row:
//   - Account,Symbol,Quantity,Cost Basis   (Fidelity style)
//   - Symbol,Quantity,Cost Basis           (Webull/Kraken style)
//
// Splitting is naive comma splitting with literal quote stripping. Embedded
// commas inside quoted fields are NOT handled - that matches the format the
// sheet exports actually produce and is part of the contract.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a new holdings parser
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{
		log: log.With().Str("component", "parser").Logger(),
	}
}

// Parse extracts positions from a CSV blob, preserving input row order.
// Malformed or non-instrument rows are skipped silently (logged, never an
// error); empty input yields an empty slice. Broker is left unset - the
// caller assigns it.
func (p *Parser) Parse(csvText string) []Position {
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return []Position{}
	}

	headers := splitRow(lines[0])
	hasAccountColumn := false
	for _, h := range headers {
		if h == "Account" {
			hasAccountColumn = true
			break
		}
	}

	positions := []Position{}
	skipped := 0

	for i, line := range lines[1:] {
		cells := splitRow(line)

		var account, symbol string
		var shares, totalCostBasis float64

		switch {
		case hasAccountColumn && len(cells) >= 4:
			account = cells[0]
			symbol = cells[1]
			shares = parseNumber(cells[2])
			totalCostBasis = parseNumber(cells[3])
		case !hasAccountColumn && len(cells) >= 3:
			account = DefaultAccount
			symbol = cells[0]
			shares = parseNumber(cells[1])
			totalCostBasis = parseNumber(cells[2])
		default:
			p.log.Debug().Int("row", i+1).Int("cells", len(cells)).Msg("Skipping row: insufficient columns")
			skipped++
			continue
		}

		costBasis := 0.0
		if shares > 0 {
			costBasis = totalCostBasis / shares
		}

		// A row whose account field is the literal column name is a stray
		// header from a multi-account export and must be dropped. Crypto
		// pairs like BTC-USD are exempt from the denylist - the "USD" token
		// match would otherwise swallow them.
		priceable := IsValidSymbol(symbol) || IsCryptoSymbol(symbol)
		if symbol == "" || shares <= 0 || costBasis <= 0 || !priceable || account == "Account" {
			p.log.Debug().
				Int("row", i+1).
				Str("symbol", symbol).
				Float64("shares", shares).
				Float64("cost_basis", costBasis).
				Msg("Skipping invalid position")
			skipped++
			continue
		}

		positions = append(positions, Position{
			Symbol:         symbol,
			Shares:         shares,
			CostBasis:      costBasis,
			TotalCostBasis: totalCostBasis,
			Account:        account,
		})
	}

	if skipped > 0 {
		p.log.Info().Int("parsed", len(positions)).Int("skipped", skipped).Msg("Parsed holdings rows")
	}

	return positions
}

// splitRow splits one CSV line on commas, trimming whitespace and stripping
// literal quote characters from every cell.
func splitRow(line string) []string {
	cells := strings.Split(line, ",")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(strings.ReplaceAll(cell, `"`, ""))
	}
	return cells
}

// parseNumber parses a cell as a float, returning 0 for anything unparseable.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
