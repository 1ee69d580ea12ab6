package chanlun

import (
	"math"

	"github.com/gamma-omg/chanlun/internal/market"
)

// Build connects every consecutive pair of fractals into a pen. Pairs are
// judged independently: a rejected pair does not affect its neighbours.
func Build(bars []market.Bar, fractals []Fractal) []Pen {
	pens := []Pen{}
	if len(fractals) < 2 {
		return pens
	}

	for i := 0; i < len(fractals)-1; i++ {
		if p, ok := newPen(bars, fractals[i], fractals[i+1]); ok {
			pens = append(pens, p)
		}
	}

	return pens
}

func newPen(bars []market.Bar, from, to Fractal) (Pen, bool) {
	if from.Kind == to.Kind {
		return Pen{}, false
	}

	var dir Direction
	switch from.Kind {
	case Bottom:
		dir = Up
		if to.Price <= originHigh(bars, from) {
			return Pen{}, false
		}
	case Top:
		dir = Down
		if to.Price >= originLow(bars, from) {
			return Pen{}, false
		}
	default:
		return Pen{}, false
	}

	span := to.OriginIndex - from.OriginIndex
	if span < 0 {
		span = -span
	}
	if span+1 < MinPenBars {
		return Pen{}, false
	}

	return Pen{
		Direction:        dir,
		StartOriginIndex: from.OriginIndex,
		EndOriginIndex:   to.OriginIndex,
		StartPrice:       from.Price,
		EndPrice:         to.Price,
		Length:           math.Abs(to.Price - from.Price),
	}, true
}

// originHigh falls back to the fractal price when the index is not in bars.
func originHigh(bars []market.Bar, f Fractal) float64 {
	if f.OriginIndex < 0 || f.OriginIndex >= len(bars) {
		return f.Price
	}
	return bars[f.OriginIndex].High
}

// originLow falls back to the fractal price when the index is not in bars.
func originLow(bars []market.Bar, f Fractal) float64 {
	if f.OriginIndex < 0 || f.OriginIndex >= len(bars) {
		return f.Price
	}
	return bars[f.OriginIndex].Low
}
