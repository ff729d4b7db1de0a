// Package pricing resolves current prices for portfolio symbols.
//
// Resolution walks an ordered chain of independent quote sources and
// short-circuits on the first strictly positive price. Every failure mode
// degrades: live sources, then the last known cached price, then a static
// table, then a fixed default. Resolve never returns an error - the
// dashboard must always have a usable number.
package pricing

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/amader/portsync/internal/modules/portfolio"
	"github.com/amader/portsync/internal/pricecache"
)

// DefaultPrice is the price assigned when a symbol is unknown everywhere.
const DefaultPrice = 100.00

var errAllSourcesFailed = errors.New("all price sources failed")

// Source is one external quote provider in the fallback chain.
// Implementations must be safe for concurrent use.
type Source interface {
	Name() string
	Quote(ctx context.Context, symbol string) (float64, error)
}

// sourceFunc adapts a client method into a named Source.
type sourceFunc struct {
	name string
	fn   func(ctx context.Context, symbol string) (float64, error)
}

func (s sourceFunc) Name() string { return s.name }

func (s sourceFunc) Quote(ctx context.Context, symbol string) (float64, error) {
	return s.fn(ctx, symbol)
}

// NewSource wraps a quote function as a named Source.
// Adding, removing, or reordering chain entries is a one-line edit at the
// call site.
func NewSource(name string, fn func(ctx context.Context, symbol string) (float64, error)) Source {
	return sourceFunc{name: name, fn: fn}
}

// Resolver resolves symbols to prices through the fallback chain.
type Resolver struct {
	equitySources []Source
	cryptoSources []Source
	cache         *pricecache.Repository // optional; nil disables caching
	log           zerolog.Logger
}

// NewResolver creates a resolver over the given source chains.
// Equity sources are tried in order for non-crypto symbols, crypto sources
// for crypto symbols. cache may be nil.
func NewResolver(equitySources, cryptoSources []Source, cache *pricecache.Repository, log zerolog.Logger) *Resolver {
	return &Resolver{
		equitySources: equitySources,
		cryptoSources: cryptoSources,
		cache:         cache,
		log:           log.With().Str("component", "resolver").Logger(),
	}
}

// Resolve returns a usable price for the symbol. It never fails: symbols
// that cannot be priced from any live source fall back to the last cached
// real price, then the static table, then DefaultPrice.
func (r *Resolver) Resolve(ctx context.Context, symbol string) float64 {
	// Non-instruments never hit the network. Crypto pairs are exempt from
	// the denylist - "BTC-USD" would otherwise match the "USD" token.
	if !portfolio.IsValidSymbol(symbol) && !portfolio.IsCryptoSymbol(symbol) {
		r.log.Debug().Str("symbol", symbol).Msg("Skipping price lookup for invalid symbol")
		return DefaultPrice
	}

	// A quote resolved within the TTL is reused without touching the chain.
	// The same symbol held at several brokers then costs one lookup per cycle.
	if r.cache != nil {
		entry, err := r.cache.GetIfFresh(symbol)
		if err != nil {
			r.log.Warn().Err(err).Str("symbol", symbol).Msg("Price cache lookup failed")
		} else if entry != nil && entry.Price > 0 {
			r.log.Debug().
				Str("symbol", symbol).
				Str("source", entry.Source).
				Float64("price", entry.Price).
				Msg("Using fresh cached price")
			return entry.Price
		}
	}

	price, source, err := r.resolveReal(ctx, symbol)
	if err == nil {
		if r.cache != nil {
			if cacheErr := r.cache.Store(symbol, price, source, pricecache.TTLQuote); cacheErr != nil {
				r.log.Warn().Err(cacheErr).Str("symbol", symbol).Msg("Failed to cache resolved price")
			}
		}
		r.log.Info().Str("symbol", symbol).Str("source", source).Float64("price", price).Msg("Resolved real price")
		return price
	}

	// Stale cached price beats canned data.
	if r.cache != nil {
		entry, cacheErr := r.cache.Get(symbol)
		if cacheErr != nil {
			r.log.Warn().Err(cacheErr).Str("symbol", symbol).Msg("Price cache lookup failed")
		} else if entry != nil && entry.Price > 0 {
			r.log.Warn().
				Str("symbol", symbol).
				Str("source", entry.Source).
				Float64("price", entry.Price).
				Msg("All live sources failed, using last cached price")
			return entry.Price
		}
	}

	if price, ok := mockPrices[strings.ToUpper(symbol)]; ok {
		r.log.Warn().Str("symbol", symbol).Float64("price", price).Msg("Using static mock price")
		return price
	}

	r.log.Warn().Str("symbol", symbol).Float64("price", DefaultPrice).Msg("Symbol unknown everywhere, using default price")
	return DefaultPrice
}

// resolveReal walks the appropriate source chain and returns the first
// strictly positive price with the winning source's name. Each attempt is
// isolated: a source failure is logged and the next source tried, with no
// retries within a source.
func (r *Resolver) resolveReal(ctx context.Context, symbol string) (float64, string, error) {
	chain := r.equitySources
	if portfolio.IsCryptoSymbol(symbol) {
		chain = r.cryptoSources
	}

	for _, src := range chain {
		price, err := src.Quote(ctx, symbol)
		if err != nil {
			r.log.Debug().Err(err).Str("symbol", symbol).Str("source", src.Name()).Msg("Price source failed")
			continue
		}
		if price <= 0 {
			r.log.Debug().Str("symbol", symbol).Str("source", src.Name()).Float64("price", price).Msg("Price source returned non-positive price")
			continue
		}
		return price, src.Name(), nil
	}

	return 0, "", errAllSourcesFailed
}
