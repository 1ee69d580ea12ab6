package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gamma-omg/chanlun/internal/chanlun"
	"github.com/gamma-omg/chanlun/internal/indicator"
	"github.com/shopspring/decimal"
)

const roundPlaces = 4

type JsonReportBuilder struct {
	log    *slog.Logger
	report JsonReport
	mu     sync.Mutex
}

type JsonReport struct {
	Symbols map[string]JsonSymbol `json:"symbols,omitempty"`
}

type JsonSymbol struct {
	Bars       int             `json:"bars"`
	Resolved   int             `json:"resolved"`
	Fractals   []JsonFractal   `json:"fractals"`
	Pens       []JsonPen       `json:"pens"`
	PenLine    []JsonVertex    `json:"pen_line"`
	Markers    []JsonMarker    `json:"markers"`
	MACD       []JsonMACD      `json:"macd"`
	Crossovers []JsonCrossover `json:"crossovers"`
}

type JsonFractal struct {
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	OriginIndex int    `json:"origin_index"`
	Price       string `json:"price"`
	Left        int    `json:"left"`
	Right       int    `json:"right"`
}

type JsonPen struct {
	Direction  string `json:"direction"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	StartPrice string `json:"start_price"`
	EndPrice   string `json:"end_price"`
	Length     string `json:"length"`
}

type JsonVertex struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

type JsonMarker struct {
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Position string `json:"position"`
	Shape    string `json:"shape"`
}

type JsonMACD struct {
	Date string `json:"date"`
	DIF  string `json:"dif"`
	DEA  string `json:"dea"`
	MACD string `json:"macd"`
}

type JsonCrossover struct {
	Date string `json:"date"`
	Kind string `json:"kind"`
}

// Result is everything computed for one symbol.
type Result struct {
	Symbol   string
	Bars     int
	Analysis chanlun.Analysis
	PenLine  []chanlun.Vertex
	MACD     []indicator.Point
}

func NewJsonReportBuilder(log *slog.Logger) *JsonReportBuilder {
	return &JsonReportBuilder{
		log: log,
		report: JsonReport{
			Symbols: map[string]JsonSymbol{},
		},
	}
}

func round(v float64) string {
	return decimal.NewFromFloat(v).Round(roundPlaces).String()
}

func (r *JsonReportBuilder) Submit(res Result) {
	s := JsonSymbol{
		Bars:       res.Bars,
		Resolved:   len(res.Analysis.Resolved),
		Fractals:   make([]JsonFractal, len(res.Analysis.Fractals)),
		Pens:       make([]JsonPen, len(res.Analysis.Pens)),
		PenLine:    make([]JsonVertex, len(res.PenLine)),
		MACD:       make([]JsonMACD, len(res.MACD)),
		Crossovers: []JsonCrossover{},
	}

	for i, f := range res.Analysis.Fractals {
		s.Fractals[i] = JsonFractal{
			Kind:        f.Kind.String(),
			Date:        f.Timestamp,
			OriginIndex: f.OriginIndex,
			Price:       round(f.Price),
			Left:        f.LeftOriginIndex,
			Right:       f.RightOriginIndex,
		}
	}

	for i, p := range res.Analysis.Pens {
		s.Pens[i] = JsonPen{
			Direction:  p.Direction.String(),
			Start:      p.StartOriginIndex,
			End:        p.EndOriginIndex,
			StartPrice: round(p.StartPrice),
			EndPrice:   round(p.EndPrice),
			Length:     round(p.Length),
		}
	}

	for i, v := range res.PenLine {
		s.PenLine[i] = JsonVertex{Date: v.Timestamp, Price: round(v.Price)}
	}

	markers := chanlun.Markers(res.Analysis.Fractals)
	s.Markers = make([]JsonMarker, len(markers))
	for i, m := range markers {
		s.Markers[i] = JsonMarker{
			Date:     m.Timestamp,
			Kind:     m.Kind.String(),
			Position: string(m.Position),
			Shape:    string(m.Shape),
		}
	}

	for i, p := range res.MACD {
		s.MACD[i] = JsonMACD{
			Date: p.Timestamp,
			DIF:  round(p.DIF),
			DEA:  round(p.DEA),
			MACD: round(p.MACD),
		}
	}

	for _, c := range indicator.Crossovers(res.MACD) {
		s.Crossovers = append(s.Crossovers, JsonCrossover{Date: c.Timestamp, Kind: c.Kind.String()})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.report.Symbols[res.Symbol] = s

	r.log.Info("symbol analyzed",
		slog.String("symbol", res.Symbol),
		slog.Int("bars", res.Bars),
		slog.Int("resolved", s.Resolved),
		slog.Int("fractals", len(s.Fractals)),
		slog.Int("pens", len(s.Pens)),
		slog.Int("crossovers", len(s.Crossovers)))
}

func (r *JsonReportBuilder) Write(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	if err := e.Encode(r.report); err != nil {
		return fmt.Errorf("failed to write analysis report: %w", err)
	}

	return nil
}
