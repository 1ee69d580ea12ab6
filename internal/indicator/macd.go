package indicator

import (
	"github.com/gamma-omg/chanlun/internal/config"
	"github.com/gamma-omg/chanlun/internal/market"
)

type Point struct {
	Timestamp string
	DIF       float64
	DEA       float64
	MACD      float64
}

// MACD returns one point per bar, aligned by position with bars.
func MACD(bars []market.Bar, cfg config.MACD) []Point {
	prices := market.Closes(bars)

	fast := ema(prices, cfg.Fast)
	slow := ema(prices, cfg.Slow)
	dif := make([]float64, len(prices))
	for i := range dif {
		dif[i] = fast[i] - slow[i]
	}

	dea := ema(dif, cfg.Signal)
	points := make([]Point, len(bars))
	for i, b := range bars {
		points[i] = Point{
			Timestamp: b.Date,
			DIF:       dif[i],
			DEA:       dea[i],
			MACD:      (dif[i] - dea[i]) * 2,
		}
	}

	return points
}

type CrossKind int

const (
	GoldenCross CrossKind = iota
	DeathCross
)

func (k CrossKind) String() string {
	if k == GoldenCross {
		return "golden"
	}
	return "death"
}

type Crossover struct {
	Index     int
	Timestamp string
	Kind      CrossKind
}

// Crossovers finds the points where DIF crosses DEA, i.e. where the
// histogram changes sign. Zero histogram values do not count as a side.
func Crossovers(points []Point) []Crossover {
	res := []Crossover{}

	var side float64
	for i, p := range points {
		if p.MACD == 0 {
			continue
		}

		if side < 0 && p.MACD > 0 {
			res = append(res, Crossover{Index: i, Timestamp: p.Timestamp, Kind: GoldenCross})
		}
		if side > 0 && p.MACD < 0 {
			res = append(res, Crossover{Index: i, Timestamp: p.Timestamp, Kind: DeathCross})
		}

		side = p.MACD
	}

	return res
}
