package portfolio

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/amader/portsync/internal/clients/sheets"
	"github.com/amader/portsync/internal/config"
)

// CSVFetcher fetches a raw holdings export. Implemented by sheets.Client.
type CSVFetcher interface {
	FetchCSV(ctx context.Context, url string) (string, error)
}

// PriceResolver resolves a symbol to a usable price. It never fails.
// Implemented by pricing.Resolver.
type PriceResolver interface {
	Resolve(ctx context.Context, symbol string) float64
}

// Service orchestrates a full refresh cycle: fetch each broker's export,
// parse, price, value, and aggregate into a Summary.
//
// Three terminal outcomes per cycle:
//   - at least one valid position       -> real summary
//   - sources reachable, zero positions -> demo summary, "mock (no positions)"
//   - pipeline failure                  -> demo summary, "mock (error)"
type Service struct {
	fetcher  CSVFetcher
	resolver PriceResolver
	parser   *Parser
	brokers  []config.BrokerSource
	log      zerolog.Logger
}

// NewService creates a summary service over the given broker sources.
// Broker order is fixed and carries through to the summary.
func NewService(fetcher CSVFetcher, resolver PriceResolver, brokers []config.BrokerSource, log zerolog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		resolver: resolver,
		parser:   NewParser(log),
		brokers:  brokers,
		log:      log.With().Str("component", "summary").Logger(),
	}
}

// BuildSummary runs one refresh cycle and always returns a fully populated
// summary. No failure mode surfaces as an error - the dashboard must never
// see an error screen for price or data failures.
func (s *Service) BuildSummary(ctx context.Context) Summary {
	// Probe the primary feed first. If it is unreachable the whole cycle
	// degrades to the demo dataset rather than a half-empty page.
	if _, err := s.fetcher.FetchCSV(ctx, s.brokers[0].URL); err != nil {
		s.log.Warn().Err(err).Str("broker", s.brokers[0].Name).Msg("Primary feed unreachable, serving demo data")
		return DemoSummary(SourceMockError, "Error loading real data: "+err.Error())
	}

	// Fetch and price every broker concurrently; join before aggregating.
	// Results are kept per broker so positions concatenate in fixed broker
	// order regardless of which fetch finishes first.
	results := make([][]ValuedPosition, len(s.brokers))
	var wg sync.WaitGroup
	for i, broker := range s.brokers {
		wg.Add(1)
		go func(i int, broker config.BrokerSource) {
			defer wg.Done()
			results[i] = s.loadBroker(ctx, broker)
		}(i, broker)
	}
	wg.Wait()

	var positions []ValuedPosition
	for _, brokerPositions := range results {
		positions = append(positions, brokerPositions...)
	}

	if len(positions) == 0 {
		s.log.Warn().Msg("No valid positions found in any source, serving demo data")
		return DemoSummary(SourceMockEmpty, "No valid stock positions found in sheets")
	}

	summary := Aggregate(positions, s.brokerNames())
	s.log.Info().
		Int("positions", len(positions)).
		Float64("total_value", summary.TotalValue).
		Float64("total_gain_loss", summary.TotalGainLoss).
		Msg("Built portfolio summary")
	return summary
}

// loadBroker fetches, parses, and values one broker's positions.
// Fetch failures are non-fatal: the broker contributes zero positions and
// the other brokers still process. Price resolution is sequential in row
// order, so the summary's position order is deterministic.
func (s *Service) loadBroker(ctx context.Context, broker config.BrokerSource) []ValuedPosition {
	csvText, err := s.fetcher.FetchCSV(ctx, broker.URL)
	if err != nil {
		if errors.Is(err, sheets.ErrNotFound) {
			s.log.Warn().Str("broker", broker.Name).Msg("Sheet tab missing or gid wrong, skipping broker")
		} else {
			s.log.Error().Err(err).Str("broker", broker.Name).Msg("Failed to load broker data")
		}
		return nil
	}

	parsed := s.parser.Parse(csvText)
	if len(parsed) == 0 {
		s.log.Warn().Str("broker", broker.Name).Msg("No valid positions in broker export")
		return nil
	}

	valued := make([]ValuedPosition, 0, len(parsed))
	for _, pos := range parsed {
		pos.Broker = broker.Name
		price := s.resolver.Resolve(ctx, pos.Symbol)
		vp := Value(pos, price)
		valued = append(valued, vp)

		s.log.Debug().
			Str("broker", broker.Name).
			Str("symbol", pos.Symbol).
			Str("account", pos.Account).
			Float64("shares", pos.Shares).
			Float64("price", price).
			Float64("value", vp.CurrentValue).
			Float64("gain_loss", vp.GainLoss).
			Msg("Valued position")
	}

	return valued
}

func (s *Service) brokerNames() []string {
	names := make([]string, len(s.brokers))
	for i, b := range s.brokers {
		names[i] = b.Name
	}
	return names
}
