package chanlun

import (
	"math/rand"
	"testing"
	"time"

	"github.com/gamma-omg/chanlun/internal/market"
)

func dateAt(i int) string {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format(market.DateLayout)
}

func barsFromHL(t *testing.T, highs, lows []float64) []market.Bar {
	t.Helper()

	if len(highs) != len(lows) {
		t.Fatalf("highs and lows length mismatch: %d != %d", len(highs), len(lows))
	}

	bars := make([]market.Bar, len(highs))
	for i := range highs {
		bars[i] = market.Bar{
			Date:   dateAt(i),
			Open:   lows[i],
			High:   highs[i],
			Low:    lows[i],
			Close:  highs[i],
			Volume: 1,
		}
	}
	return bars
}

func resolvedFromHL(t *testing.T, highs, lows []float64) []ResolvedBar {
	t.Helper()

	bars := barsFromHL(t, highs, lows)
	res := make([]ResolvedBar, len(bars))
	for i, b := range bars {
		res[i] = newResolvedBar(i, b)
	}
	return res
}

// zigzag swings five real steps up and five down. Every bar with i%10 == 7
// is an inside bar of its predecessor and does not advance the path.
func zigzag(n int) []market.Bar {
	bars := make([]market.Bar, 0, n)

	h := 100.0
	dir := 1.0
	steps := 0
	for i := 0; i < n; i++ {
		if i > 0 && i%10 == 7 {
			prev := bars[i-1]
			bars = append(bars, market.Bar{
				Date:   dateAt(i),
				Open:   prev.High - 0.5,
				High:   prev.High - 0.5,
				Low:    prev.Low + 0.5,
				Close:  prev.Low + 0.5,
				Volume: 7,
			})
			continue
		}

		if i > 0 {
			h += dir * (1 + float64(i%3))
			steps++
			if steps == 5 {
				steps = 0
				dir = -dir
			}
		}

		bars = append(bars, market.Bar{
			Date:   dateAt(i),
			Open:   h - 1,
			High:   h,
			Low:    h - 2,
			Close:  h - 0.5,
			Volume: float64(10 + i%4),
		})
	}

	return bars
}

// randomWalk produces bars with integral prices and volumes so that sums
// are exact.
func randomWalk(seed int64, n int) []market.Bar {
	r := rand.New(rand.NewSource(seed))

	bars := make([]market.Bar, n)
	mid := 500.0
	for i := range bars {
		mid += float64(r.Intn(11) - 5)
		half := float64(1 + r.Intn(6))
		open := mid - half + float64(r.Intn(int(2*half)+1))
		close := mid - half + float64(r.Intn(int(2*half)+1))
		bars[i] = market.Bar{
			Date:   dateAt(i),
			Open:   open,
			High:   mid + half,
			Low:    mid - half,
			Close:  close,
			Volume: float64(r.Intn(1000)),
		}
	}
	return bars
}
