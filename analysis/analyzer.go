// Package analysis produces the advisory market reports served by the
// analysis API: sentiment, price prediction, and a technical summary.
//
// Sentiment and prediction are mock model output driven by an injectable
// seeded random source, so two analyzers with the same seed produce the
// same report sequence. The technical summary is real indicator math over
// candles; only the engines' trade decisions are deterministic by
// contract, and nothing here feeds back into them.
package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cryptosim/indicators"
	"cryptosim/market"
)

// Analyzer serves advisory reports. Safe for concurrent use.
type Analyzer struct {
	src market.Source

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Analyzer whose randomness is fully determined by seed.
func New(src market.Source, seed int64) *Analyzer {
	return &Analyzer{
		src: src,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// SentimentReport labels overall market mood for a symbol.
type SentimentReport struct {
	Symbol     string    `json:"symbol"`
	Sentiment  string    `json:"sentiment"`
	Score      float64   `json:"score"`
	Confidence float64   `json:"confidence"`
	Sources    []string  `json:"sources"`
	Time       time.Time `json:"timestamp"`
}

// Sentiment produces a mock sentiment score in [-1, 1].
func (a *Analyzer) Sentiment(symbol string) SentimentReport {
	a.mu.Lock()
	score := a.rng.Float64()*2 - 1
	a.mu.Unlock()

	label := "neutral"
	if score > 0.2 {
		label = "positive"
	} else if score < -0.2 {
		label = "negative"
	}

	return SentimentReport{
		Symbol:     symbol,
		Sentiment:  label,
		Score:      score,
		Confidence: abs(score),
		Sources:    []string{"news", "social", "volume"},
		Time:       time.Now().UTC(),
	}
}

// PricePoint is one step of a predicted price path.
type PricePoint struct {
	Hour       int     `json:"hour"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
}

// PredictionReport is a mock hourly price forecast.
type PredictionReport struct {
	Symbol       string       `json:"symbol"`
	CurrentPrice float64      `json:"current_price"`
	Predictions  []PricePoint `json:"predictions"`
	Model        string       `json:"model"`
	Time         time.Time    `json:"timestamp"`
}

// Predict builds an hourly forecast path anchored at the current price,
// each step within ±5% of the previous one.
func (a *Analyzer) Predict(ctx context.Context, symbol string, hours int) (PredictionReport, error) {
	if hours <= 0 {
		hours = 24
	}

	price, err := a.src.CurrentPrice(ctx, symbol)
	if err != nil {
		return PredictionReport{}, fmt.Errorf("current price for %s: %w", symbol, err)
	}

	a.mu.Lock()
	points := make([]PricePoint, 0, hours)
	p := price
	for h := 1; h <= hours; h++ {
		p *= 1 + (a.rng.Float64()*2-1)*0.05
		points = append(points, PricePoint{
			Hour:       h,
			Price:      p,
			Confidence: 0.6 + a.rng.Float64()*0.3,
		})
	}
	a.mu.Unlock()

	return PredictionReport{
		Symbol:       symbol,
		CurrentPrice: price,
		Predictions:  points,
		Model:        "random-walk",
		Time:         time.Now().UTC(),
	}, nil
}

// Indicator is one named technical reading of the summary.
type Indicator struct {
	Type       string  `json:"type"`
	Signal     string  `json:"signal"`
	Confidence float64 `json:"confidence"`
}

// MarketAnalysis is the combined technical summary for a symbol.
type MarketAnalysis struct {
	Symbol          string      `json:"symbol"`
	Trend           string      `json:"trend"`
	Confidence      float64     `json:"confidence"`
	Volatility      string      `json:"volatility"`
	VolatilityScore float64     `json:"volatility_score"`
	RSI             float64     `json:"rsi"`
	Recommendation  string      `json:"recommendation"`
	Signals         []Indicator `json:"signals"`
	Time            time.Time   `json:"timestamp"`
}

// Analyze computes a technical summary from hourly candles: SMA trend,
// RSI, Bollinger position, and return volatility.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, hours int) (MarketAnalysis, error) {
	if hours < 24 {
		hours = 24
	}

	candles, err := a.src.Candles(ctx, symbol, "1h", hours)
	if err != nil {
		return MarketAnalysis{}, fmt.Errorf("candles for %s: %w", symbol, err)
	}
	closes := market.Closes(candles)
	if len(closes) < 21 {
		return MarketAnalysis{}, fmt.Errorf("candles for %s: %w: need at least 21, got %d",
			symbol, market.ErrUnavailable, len(closes))
	}
	last := closes[len(closes)-1]

	fast, _ := indicators.SMA(closes, 5)
	slow, _ := indicators.SMA(closes, 20)

	trend := "sideways"
	trendConfidence := 0.5
	if slow > 0 {
		rel := (fast - slow) / slow
		if rel > 0.005 {
			trend = "up"
		} else if rel < -0.005 {
			trend = "down"
		}
		trendConfidence = clamp01(0.5 + abs(rel)*20)
	}

	volScore := indicators.StdDev(returnsOf(closes))
	volLabel := "low"
	if volScore > 0.05 {
		volLabel = "high"
	} else if volScore > 0.02 {
		volLabel = "medium"
	}

	rsi, _ := indicators.RSI(closes, 14)
	rsiSignal := "neutral"
	if rsi >= 70 {
		rsiSignal = "overbought"
	} else if rsi <= 30 {
		rsiSignal = "oversold"
	}

	_, upper, lower, _ := indicators.Bollinger(closes, 20, 2)
	bandSignal := "inside bands"
	if last > upper {
		bandSignal = "above upper band"
	} else if last < lower {
		bandSignal = "below lower band"
	}

	recommendation := "normal trading"
	if volLabel == "high" {
		recommendation = "cautious trading"
	}

	return MarketAnalysis{
		Symbol:          symbol,
		Trend:           trend,
		Confidence:      trendConfidence,
		Volatility:      volLabel,
		VolatilityScore: volScore,
		RSI:             rsi,
		Recommendation:  recommendation,
		Signals: []Indicator{
			{Type: "sma_trend", Signal: trend, Confidence: trendConfidence},
			{Type: "rsi", Signal: rsiSignal, Confidence: 0.7},
			{Type: "bollinger", Signal: bandSignal, Confidence: 0.6},
		},
		Time: time.Now().UTC(),
	}, nil
}

func returnsOf(closes []float64) []float64 {
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, (closes[i]-closes[i-1])/closes[i-1])
	}
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
