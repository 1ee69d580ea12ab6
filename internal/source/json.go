package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gamma-omg/chanlun/internal/market"
)

// stockData is the payload the stock data service returns for one code.
type stockData struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Data         []jsonBar `json:"data"`
	Total        int       `json:"total"`
	EarliestDate string    `json:"earliestDate,omitempty"`
}

type jsonBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type jsonSource struct {
	path   string
	filter barFilter
}

func (s *jsonSource) Bars(ctx context.Context) ([]market.Bar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open bars file: %w", err)
	}
	defer f.Close()

	var sd stockData
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&sd); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars := make([]market.Bar, 0, len(sd.Data))
	for i, d := range sd.Data {
		bar := market.Bar(d)
		if _, err := bar.Time(); err != nil {
			return nil, fmt.Errorf("invalid bar %d of %s: %w", i, sd.Code, err)
		}

		if s.filter(bar) {
			bars = append(bars, bar)
		}
	}

	sortByDate(bars)
	return bars, nil
}
