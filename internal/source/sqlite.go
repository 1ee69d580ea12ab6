package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gamma-omg/chanlun/internal/market"
	_ "modernc.org/sqlite"
)

type sqliteSource struct {
	path string
	code string
	rng  dateRange
}

func (s *sqliteSource) Bars(ctx context.Context) (bars []market.Bar, err error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sqlite database: %w", cerr)
		}
	}()

	query, args := s.query()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars of %s: %w", s.code, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b market.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar of %s: %w", s.code, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bars of %s: %w", s.code, err)
	}

	return bars, nil
}

func (s *sqliteSource) query() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT date(date), open, high, low, close, volume FROM stock_daily WHERE code = ?")
	args := []any{s.code}

	if s.rng.start != "" {
		sb.WriteString(" AND date(date) >= ?")
		args = append(args, s.rng.start)
	}
	if s.rng.end != "" {
		sb.WriteString(" AND date(date) <= ?")
		args = append(args, s.rng.end)
	}

	sb.WriteString(" ORDER BY date(date) ASC")
	return sb.String(), args
}
