package chanlun

import "github.com/gamma-omg/chanlun/internal/market"

// Resolve merges consecutive bars whose high/low ranges contain one another.
// No two adjacent bars of the result are in a containment relation.
func Resolve(bars []market.Bar) []ResolvedBar {
	if len(bars) == 0 {
		return []ResolvedBar{}
	}

	res := make([]ResolvedBar, 0, len(bars))
	res = append(res, newResolvedBar(0, bars[0]))

	for i, b := range bars[1:] {
		n := len(res)
		last := res[n-1]
		if !contains(last, b) {
			res = append(res, newResolvedBar(i+1, b))
			continue
		}

		var up bool
		if n >= 2 {
			up = res[n-2].High <= last.High
		} else {
			up = b.Close >= b.Open
		}

		res[n-1] = merge(last, i+1, b, up)
	}

	return res
}

func newResolvedBar(idx int, b market.Bar) ResolvedBar {
	return ResolvedBar{
		OriginIndex: idx,
		Timestamp:   b.Date,
		Open:        b.Open,
		High:        b.High,
		Low:         b.Low,
		Close:       b.Close,
		Volume:      b.Volume,
	}
}

func contains(acc ResolvedBar, b market.Bar) bool {
	return b.High <= acc.High && b.Low >= acc.Low ||
		b.High >= acc.High && b.Low <= acc.Low
}

func merge(acc ResolvedBar, idx int, b market.Bar, up bool) ResolvedBar {
	m := ResolvedBar{
		OriginIndex: idx,
		Timestamp:   b.Date,
		Open:        acc.Open,
		Close:       b.Close,
		Volume:      acc.Volume + b.Volume,
	}

	if up {
		m.High = max(acc.High, b.High)
		m.Low = max(acc.Low, b.Low)
	} else {
		m.High = min(acc.High, b.High)
		m.Low = min(acc.Low, b.Low)
	}

	return m
}
