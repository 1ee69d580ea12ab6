package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamma-omg/chanlun/internal/config"
	"github.com/gamma-omg/chanlun/internal/market"
	"github.com/gamma-omg/chanlun/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeWaveCsv(t *testing.T, dir string, n int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("date,open,high,low,close,volume\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		mid := 100 + 10*math.Sin(float64(i)/5)
		fmt.Fprintf(&sb, "%s,%.4f,%.4f,%.4f,%.4f,%d\n",
			start.AddDate(0, 0, i).Format(market.DateLayout), mid, mid+1, mid-1, mid+0.5, 1000+i)
	}

	path := filepath.Join(dir, "wave.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeWaveCsv(t, dir, 120)

	cfg := config.Config{
		Symbols: map[string]config.Symbol{
			"WAVE": {SourceRef: config.SourceReference{Source: config.CSV{Path: csvPath}}},
			"WAVE_W": {
				SourceRef: config.SourceReference{Source: config.CSV{Path: csvPath}},
				Period:    market.PeriodWeek,
			},
		},
		MACD:    config.DefaultMACD(),
		Report:  filepath.Join(dir, "report.json"),
		DumpDir: filepath.Join(dir, "dump"),
		Chart:   config.Chart{Dir: filepath.Join(dir, "charts"), Width: 600, Height: 400},
	}

	err := New(discardLogger(), cfg).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)

	var rep struct {
		Symbols map[string]struct {
			Bars int               `json:"bars"`
			Pens []json.RawMessage `json:"pens"`
			MACD []json.RawMessage `json:"macd"`
		} `json:"symbols"`
	}
	require.NoError(t, json.Unmarshal(data, &rep))
	require.Len(t, rep.Symbols, 2)

	daily := rep.Symbols["WAVE"]
	assert.Equal(t, 120, daily.Bars)
	assert.Len(t, daily.MACD, 120)
	assert.NotEmpty(t, daily.Pens)
	assert.Less(t, rep.Symbols["WAVE_W"].Bars, 120)

	assert.FileExists(t, filepath.Join(cfg.DumpDir, "WAVE.csv"))
	assert.FileExists(t, filepath.Join(cfg.DumpDir, "WAVE_W.csv"))
	assert.FileExists(t, filepath.Join(cfg.Chart.Dir, "WAVE.png"))
	assert.FileExists(t, filepath.Join(cfg.Chart.Dir, "WAVE_W.png"))
}

type failingSource struct{}

func (failingSource) Bars(ctx context.Context) ([]market.Bar, error) {
	return nil, errors.New("source is down")
}

func TestRun_symbolFailureDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeWaveCsv(t, dir, 60)

	cfg := config.Config{
		Symbols: map[string]config.Symbol{
			"OK":     {SourceRef: config.SourceReference{Source: config.CSV{Path: csvPath}}},
			"BROKEN": {SourceRef: config.SourceReference{Source: config.JSON{Path: "unused"}}},
		},
		MACD:   config.DefaultMACD(),
		Report: filepath.Join(dir, "report.json"),
	}

	a := New(discardLogger(), cfg)
	a.newSource = func(s config.Symbol) (source.Source, error) {
		if _, ok := s.SourceRef.Source.(config.JSON); ok {
			return failingSource{}, nil
		}
		return source.New(s)
	}

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol BROKEN")
	assert.Contains(t, err.Error(), "source is down")

	data, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"OK"`)
	assert.NotContains(t, string(data), `"BROKEN"`)
}

func TestRun_errorsJoined(t *testing.T) {
	cfg := config.Config{
		Symbols: map[string]config.Symbol{
			"A": {SourceRef: config.SourceReference{Source: config.CSV{Path: "/nonexistent/a.csv"}}},
			"B": {SourceRef: config.SourceReference{Source: config.CSV{Path: "/nonexistent/b.csv"}}},
		},
		MACD: config.DefaultMACD(),
	}

	err := New(discardLogger(), cfg).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol A")
	assert.Contains(t, err.Error(), "symbol B")
}

func TestRun_canceled(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeWaveCsv(t, dir, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Config{
		Symbols: map[string]config.Symbol{
			"WAVE": {SourceRef: config.SourceReference{Source: config.CSV{Path: csvPath}}},
		},
		MACD: config.DefaultMACD(),
	}

	err := New(discardLogger(), cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
