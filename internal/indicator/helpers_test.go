package indicator

import (
	"time"

	"github.com/gamma-omg/chanlun/internal/market"
)

func barsFromCloses(closes []float64) []market.Bar {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = market.Bar{
			Date:  t0.AddDate(0, 0, i).Format(market.DateLayout),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}

	return bars
}
