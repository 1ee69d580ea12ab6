package chanlun

import (
	"sort"

	"github.com/gamma-omg/chanlun/internal/market"
)

type Analysis struct {
	Resolved []ResolvedBar
	Fractals []Fractal
	Pens     []Pen
}

// Analyze runs containment resolution, fractal detection and pen building
// over the whole bar sequence.
func Analyze(bars []market.Bar) Analysis {
	resolved := Resolve(bars)
	fractals := Detect(resolved)

	return Analysis{
		Resolved: resolved,
		Fractals: fractals,
		Pens:     Build(bars, fractals),
	}
}

type MarkerPosition string

const (
	AboveBar MarkerPosition = "above"
	BelowBar MarkerPosition = "below"
)

type MarkerShape string

const (
	ArrowDown MarkerShape = "arrow_down"
	ArrowUp   MarkerShape = "arrow_up"
)

type Marker struct {
	Timestamp string
	Kind      FractalKind
	Position  MarkerPosition
	Shape     MarkerShape
}

func Markers(fractals []Fractal) []Marker {
	res := make([]Marker, len(fractals))
	for i, f := range fractals {
		m := Marker{Timestamp: f.Timestamp, Kind: f.Kind}
		if f.Kind == Top {
			m.Position, m.Shape = AboveBar, ArrowDown
		} else {
			m.Position, m.Shape = BelowBar, ArrowUp
		}
		res[i] = m
	}
	return res
}

type Vertex struct {
	Timestamp string
	Price     float64
}

// PenVertices flattens pens into polyline vertices keyed by bar date. When
// two pens share an endpoint the first vertex seen wins.
func PenVertices(bars []market.Bar, pens []Pen) []Vertex {
	res := []Vertex{}
	seen := make(map[string]struct{})

	add := func(idx int, price float64) {
		if idx < 0 || idx >= len(bars) {
			return
		}
		ts := bars[idx].Date
		if _, ok := seen[ts]; ok {
			return
		}
		seen[ts] = struct{}{}
		res = append(res, Vertex{Timestamp: ts, Price: price})
	}

	for _, p := range pens {
		add(p.StartOriginIndex, p.StartPrice)
		add(p.EndOriginIndex, p.EndPrice)
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Timestamp < res[j].Timestamp
	})

	return res
}
