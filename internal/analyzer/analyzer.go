package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gamma-omg/chanlun/internal/chanlun"
	"github.com/gamma-omg/chanlun/internal/chart"
	"github.com/gamma-omg/chanlun/internal/config"
	"github.com/gamma-omg/chanlun/internal/indicator"
	"github.com/gamma-omg/chanlun/internal/market"
	"github.com/gamma-omg/chanlun/internal/report"
	"github.com/gamma-omg/chanlun/internal/source"
	"golang.org/x/sync/errgroup"
)

type Analyzer struct {
	log       *slog.Logger
	cfg       config.Config
	newSource func(s config.Symbol) (source.Source, error)
}

func New(log *slog.Logger, cfg config.Config) *Analyzer {
	return &Analyzer{
		log:       log,
		cfg:       cfg,
		newSource: source.New,
	}
}

// Run analyzes every configured symbol concurrently. A failing symbol does
// not stop the others, all failures are returned joined.
func (a *Analyzer) Run(ctx context.Context) error {
	for _, dir := range []string{a.cfg.DumpDir, a.cfg.Chart.Dir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	rb := report.NewJsonReportBuilder(a.log)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for symbol, cfg := range a.cfg.Symbols {
		g.Go(func() error {
			if err := a.runSymbol(ctx, rb, symbol, cfg); err != nil {
				a.log.Error("failed to analyze symbol", slog.String("symbol", symbol), slog.Any("error", err))

				mu.Lock()
				errs = append(errs, fmt.Errorf("symbol %s: %w", symbol, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if a.cfg.Report != "" {
		if err := writeReport(a.cfg.Report, rb); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (a *Analyzer) runSymbol(ctx context.Context, rb *report.JsonReportBuilder, symbol string, cfg config.Symbol) error {
	src, err := a.newSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to create bars source: %w", err)
	}

	bars, err := src.Bars(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bars: %w", err)
	}

	bars, err = market.Aggregate(bars, cfg.Period)
	if err != nil {
		return fmt.Errorf("failed to aggregate bars: %w", err)
	}

	a.log.Debug("bars loaded", slog.String("symbol", symbol), slog.Int("count", len(bars)))

	var (
		analysis chanlun.Analysis
		macd     []indicator.Point
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis = chanlun.Analyze(bars)
		return ctx.Err()
	})
	g.Go(func() error {
		macd = indicator.MACD(bars, a.cfg.MACD)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if a.cfg.DumpDir != "" {
		if err := report.DumpResolved(filepath.Join(a.cfg.DumpDir, symbol+".csv"), analysis.Resolved); err != nil {
			return err
		}
	}

	if a.cfg.Chart.Dir != "" && len(bars) > 0 {
		path := filepath.Join(a.cfg.Chart.Dir, symbol+".png")
		if err := chart.Render(path, a.cfg.Chart.Width, a.cfg.Chart.Height, bars, analysis, macd); err != nil {
			return fmt.Errorf("failed to render chart: %w", err)
		}
	}

	rb.Submit(report.Result{
		Symbol:   symbol,
		Bars:     len(bars),
		Analysis: analysis,
		PenLine:  chanlun.PenVertices(bars, analysis.Pens),
		MACD:     macd,
	})

	return nil
}

func writeReport(path string, rb *report.JsonReportBuilder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()

	return rb.Write(f)
}
