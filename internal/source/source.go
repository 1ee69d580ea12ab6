package source

import (
	"context"
	"fmt"
	"sort"

	"github.com/gamma-omg/chanlun/internal/config"
	"github.com/gamma-omg/chanlun/internal/market"
)

type Source interface {
	Bars(ctx context.Context) ([]market.Bar, error)
}

// New creates the bar source of a configured symbol. The date range of the
// symbol is applied by the source.
func New(s config.Symbol) (Source, error) {
	r := dateRange{start: s.Start, end: s.End}

	switch src := s.SourceRef.Source.(type) {
	case config.CSV:
		return &csvSource{path: src.Path, filter: r.contains}, nil
	case config.JSON:
		return &jsonSource{path: src.Path, filter: r.contains}, nil
	case config.SQLite:
		return &sqliteSource{path: src.Path, code: src.Code, rng: r}, nil
	default:
		return nil, fmt.Errorf("unknown bars source: %v", s.SourceRef.Source)
	}
}

type barFilter func(b market.Bar) bool

// dateRange is inclusive on both ends, an empty bound is open.
type dateRange struct {
	start string
	end   string
}

func (r dateRange) contains(b market.Bar) bool {
	if r.start != "" && b.Date < r.start {
		return false
	}
	if r.end != "" && b.Date > r.end {
		return false
	}
	return true
}

func sortByDate(bars []market.Bar) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date < bars[j].Date
	})
}
