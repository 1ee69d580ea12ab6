package chanlun

import (
	"testing"

	"github.com/gamma-omg/chanlun/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_singleTop(t *testing.T) {
	bars := barsFromHL(t,
		[]float64{10, 12, 15, 11, 9},
		[]float64{8, 9, 11, 7, 6})

	a := Analyze(bars)
	assert.Len(t, a.Resolved, 5)
	require.Len(t, a.Fractals, 1)
	assert.Equal(t, Top, a.Fractals[0].Kind)
	assert.Equal(t, 2, a.Fractals[0].OriginIndex)
	assert.Equal(t, 15.0, a.Fractals[0].Price)
	assert.Empty(t, a.Pens)
}

func TestAnalyze_empty(t *testing.T) {
	a := Analyze(nil)
	assert.Empty(t, a.Resolved)
	assert.Empty(t, a.Fractals)
	assert.Empty(t, a.Pens)
}

func shiftFractals(fractals []Fractal, offset, from int) []Fractal {
	var res []Fractal
	for _, f := range fractals {
		f.OriginIndex += offset
		f.LeftOriginIndex += offset
		f.RightOriginIndex += offset
		if f.OriginIndex >= from {
			res = append(res, f)
		}
	}
	return res
}

func shiftPens(pens []Pen, offset, from int) []Pen {
	var res []Pen
	for _, p := range pens {
		p.StartOriginIndex += offset
		p.EndOriginIndex += offset
		if p.StartOriginIndex >= from {
			res = append(res, p)
		}
	}
	return res
}

func TestAnalyze_suffixStable(t *testing.T) {
	full := zigzag(101)
	suffix := full[10:]

	a := Analyze(full)
	b := Analyze(suffix)

	fa := shiftFractals(a.Fractals, 0, 20)
	fb := shiftFractals(b.Fractals, 10, 20)
	require.NotEmpty(t, fa)
	assert.Equal(t, fa, fb)

	pa := shiftPens(a.Pens, 0, 20)
	pb := shiftPens(b.Pens, 10, 20)
	require.NotEmpty(t, pa)
	assert.Equal(t, pa, pb)
}

func TestAnalyze_repeatable(t *testing.T) {
	bars := randomWalk(7, 500)
	assert.Equal(t, Analyze(bars), Analyze(bars))
}

func TestMarkers(t *testing.T) {
	fractals := []Fractal{
		{Kind: Top, Timestamp: "2024-01-02"},
		{Kind: Bottom, Timestamp: "2024-01-09"},
	}

	assert.Equal(t, []Marker{
		{Timestamp: "2024-01-02", Kind: Top, Position: AboveBar, Shape: ArrowDown},
		{Timestamp: "2024-01-09", Kind: Bottom, Position: BelowBar, Shape: ArrowUp},
	}, Markers(fractals))
	assert.Empty(t, Markers(nil))
}

func TestPenVertices(t *testing.T) {
	bars := []market.Bar{
		{Date: "2024-01-01"},
		{Date: "2024-01-02"},
		{Date: "2024-01-03"},
		{Date: "2024-01-04"},
		{Date: "2024-01-05"},
		{Date: "2024-01-06"},
	}

	pens := []Pen{
		{Direction: Up, StartOriginIndex: 3, EndOriginIndex: 5, StartPrice: 4, EndPrice: 9},
		{Direction: Down, StartOriginIndex: 0, EndOriginIndex: 3, StartPrice: 8, EndPrice: 3},
		{Direction: Up, StartOriginIndex: 5, EndOriginIndex: 10, StartPrice: 9, EndPrice: 12},
	}

	assert.Equal(t, []Vertex{
		{Timestamp: "2024-01-01", Price: 8},
		{Timestamp: "2024-01-04", Price: 4},
		{Timestamp: "2024-01-06", Price: 9},
	}, PenVertices(bars, pens))
	assert.Empty(t, PenVertices(bars, nil))
}
