package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gamma-omg/chanlun/internal/market"
	"github.com/shopspring/decimal"
)

var csvColumns = []string{"date", "open", "high", "low", "close", "volume"}

type csvSource struct {
	path   string
	filter barFilter
}

func (s *csvSource) Bars(ctx context.Context) ([]market.Bar, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to open bars file: %w", err)
	}
	defer f.Close()

	bars, err := readCsv(ctx, bufio.NewReader(f), s.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return bars, nil
}

func readCsv(ctx context.Context, r io.Reader, filter barFilter) ([]market.Bar, error) {
	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true

	header, err := rdr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	idx := make([]int, len(csvColumns))
	for i, name := range csvColumns {
		n, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("missing csv column: %s", name)
		}
		idx[i] = n
	}

	var bars []market.Bar
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bar data: %w", err)
		}

		var vals [5]float64
		for i, name := range csvColumns[1:] {
			d, err := decimal.NewFromString(strings.TrimSpace(data[idx[i+1]]))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s price at line %d: %w", name, line, err)
			}
			vals[i] = d.InexactFloat64()
		}

		bar := market.Bar{
			Date:   strings.TrimSpace(data[idx[0]]),
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		}
		if _, err := bar.Time(); err != nil {
			return nil, fmt.Errorf("invalid bar at line %d: %w", line, err)
		}

		if filter(bar) {
			bars = append(bars, bar)
		}
	}

	sortByDate(bars)
	return bars, nil
}
