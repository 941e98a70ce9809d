package dataflows

import (
	"context"
	"fmt"

	"github.com/finsight-ai/finsight/internal/logging"
	"github.com/finsight-ai/finsight/internal/models"
)

// Indicator window sizes.
const (
	smaPeriod = 50
	rsiPeriod = 14
)

// IndicatorProvider serves precomputed indicator values.
type IndicatorProvider interface {
	GetSMA(ctx context.Context, symbol string) (float64, error)
	GetRSI(ctx context.Context, symbol string) (float64, error)
}

// HistoryProvider serves raw daily closing prices, oldest first.
type HistoryProvider interface {
	HistoricalCloses(ctx context.Context, symbol string, days int) ([]float64, error)
}

// Indicator sources reported on TechnicalIndicators.
const (
	IndicatorSourcePrecomputed = "precomputed"
	IndicatorSourceComputed    = "computed"
	IndicatorSourceSynthetic   = "synthetic"
)

// IndicatorService resolves SMA-50 and RSI-14 with the same cascading
// fallback as quotes: precomputed values first, then recomputation from a
// raw series, then bounded synthetic values anchored to the quote.
type IndicatorService struct {
	precomputed IndicatorProvider
	history     HistoryProvider
}

// NewIndicatorService creates an IndicatorService. Either provider may be
// nil, which skips that tier of the cascade.
func NewIndicatorService(precomputed IndicatorProvider, history HistoryProvider) *IndicatorService {
	return &IndicatorService{precomputed: precomputed, history: history}
}

// Resolve returns indicators for the symbol, never failing: the final
// tier synthesizes values from the already-resolved quote.
func (s *IndicatorService) Resolve(ctx context.Context, symbol string, quote *models.Quote) models.TechnicalIndicators {
	log := logging.Named("indicators")
	symbol = NormalizeSymbol(symbol)

	if s.precomputed != nil {
		sma, smaErr := s.precomputed.GetSMA(ctx, symbol)
		rsi, rsiErr := s.precomputed.GetRSI(ctx, symbol)
		if smaErr == nil && rsiErr == nil {
			return models.TechnicalIndicators{
				SMA50:  sma,
				RSI14:  clamp(rsi, 0, 100),
				Source: IndicatorSourcePrecomputed,
			}
		}
		log.Debugw("precomputed indicators unavailable", "symbol", symbol,
			"sma_err", smaErr, "rsi_err", rsiErr)
	}

	if s.history != nil {
		// ~90 calendar days covers 50 trading days.
		closes, err := s.history.HistoricalCloses(ctx, symbol, 90)
		if err == nil {
			sma, smaErr := SMA(closes, smaPeriod)
			rsi, rsiErr := RSI(closes, rsiPeriod)
			if smaErr == nil && rsiErr == nil {
				return models.TechnicalIndicators{
					SMA50:  sma,
					RSI14:  rsi,
					Source: IndicatorSourceComputed,
				}
			}
			log.Debugw("indicator recomputation failed", "symbol", symbol,
				"sma_err", smaErr, "rsi_err", rsiErr)
		} else {
			log.Debugw("historical series unavailable", "symbol", symbol, "error", err)
		}
	}

	log.Warnw("synthesizing indicators", "symbol", symbol)
	return SyntheticIndicators(symbol, quote)
}

// SMA computes the simple moving average over the last `period` closes.
func SMA(closes []float64, period int) (float64, error) {
	if len(closes) < period {
		return 0, fmt.Errorf("insufficient data for SMA: have %d, need %d", len(closes), period)
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), nil
}

// RSI computes the relative strength index over the last `period` price
// changes. With zero losses the result is 100; with zero gains, 0. The
// result is always within [0, 100].
func RSI(closes []float64, period int) (float64, error) {
	if len(closes) < period+1 {
		return 0, fmt.Errorf("insufficient data for RSI: have %d, need %d", len(closes), period+1)
	}

	window := closes[len(closes)-period-1:]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if losses == 0 {
		return 100, nil
	}

	rs := gains / losses
	rsi := 100 - 100/(1+rs)
	return clamp(rsi, 0, 100), nil
}

// SyntheticIndicators derives plausible bounded values from the resolved
// quote. Deterministic per symbol; RSI stays within the neutral [30, 70]
// band so a degraded UI never suggests an extreme signal.
func SyntheticIndicators(symbol string, quote *models.Quote) models.TechnicalIndicators {
	seed := symbolSeed(NormalizeSymbol(symbol))

	price := 0.0
	if quote != nil {
		price, _ = quote.Price.Float64()
	}
	if price <= 0 {
		mock := SyntheticQuote(symbol)
		price, _ = mock.Price.Float64()
	}

	// SMA drifts a few percent around the current price.
	drift := float64(int64(seed%11) - 5) // [-5, 5]
	sma := price * (1 + drift/100)

	rsi := 30 + float64(seed%41) // [30, 70]

	return models.TechnicalIndicators{
		SMA50:  sma,
		RSI14:  rsi,
		Source: IndicatorSourceSynthetic,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
