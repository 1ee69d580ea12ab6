package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gamma-omg/chanlun/internal/chanlun"
	"github.com/gamma-omg/chanlun/internal/indicator"
	"github.com/gamma-omg/chanlun/internal/market"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	closeColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	penColor   = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	topColor   = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	botColor   = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	deaColor   = color.RGBA{R: 230, G: 150, B: 20, A: 255}
)

// dateTicks labels integer bar positions with bar dates.
type dateTicks struct {
	dates []string
}

func (t dateTicks) Ticks(min, max float64) []plot.Tick {
	var res []plot.Tick
	for _, tick := range (plot.DefaultTicks{}).Ticks(min, max) {
		if tick.Label == "" {
			res = append(res, tick)
			continue
		}

		i := int(math.Round(tick.Value))
		if i < 0 || i >= len(t.dates) || float64(i) != tick.Value {
			res = append(res, plot.Tick{Value: tick.Value})
			continue
		}
		res = append(res, plot.Tick{Value: tick.Value, Label: t.dates[i]})
	}
	return res
}

// Render draws price with pens and fractals in the upper pane and MACD in the
// lower one, and saves the result as png.
func Render(path string, w, h int, bars []market.Bar, a chanlun.Analysis, macd []indicator.Point) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to render")
	}

	dates := make([]string, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
	}
	ticks := dateTicks{dates: dates}

	price, err := pricePlot(bars, a, ticks)
	if err != nil {
		return err
	}

	osc, err := macdPlot(macd, ticks)
	if err != nil {
		return err
	}

	s := NewStack(w, h)
	s.Add(price, 3)
	s.Add(osc, 1)
	return s.Save(path)
}

func pricePlot(bars []market.Bar, a chanlun.Analysis, ticks plot.Ticker) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Price"
	p.X.Tick.Marker = ticks

	closes := make(plotter.XYs, len(bars))
	for i, b := range bars {
		closes[i] = plotter.XY{X: float64(i), Y: b.Close}
	}
	closeLine, err := plotter.NewLine(closes)
	if err != nil {
		return nil, fmt.Errorf("failed to create close graph: %w", err)
	}
	closeLine.Color = closeColor
	p.Add(closeLine)

	if pens := penLine(bars, a.Pens); len(pens) > 0 {
		line, err := plotter.NewLine(pens)
		if err != nil {
			return nil, fmt.Errorf("failed to create pens graph: %w", err)
		}
		line.Color = penColor
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	var tops, bottoms plotter.XYs
	for _, f := range a.Fractals {
		pt := plotter.XY{X: float64(f.OriginIndex), Y: f.Price}
		if f.Kind == chanlun.Top {
			tops = append(tops, pt)
		} else {
			bottoms = append(bottoms, pt)
		}
	}

	if err := addScatter(p, tops, draw.TriangleGlyph{}, topColor); err != nil {
		return nil, fmt.Errorf("failed to create top fractals graph: %w", err)
	}
	if err := addScatter(p, bottoms, draw.PyramidGlyph{}, botColor); err != nil {
		return nil, fmt.Errorf("failed to create bottom fractals graph: %w", err)
	}

	return p, nil
}

// penLine places pen vertices at the position of the bar they are dated by.
func penLine(bars []market.Bar, pens []chanlun.Pen) plotter.XYs {
	pos := make(map[string]int, len(bars))
	for i, b := range bars {
		pos[b.Date] = i
	}

	vertices := chanlun.PenVertices(bars, pens)
	res := make(plotter.XYs, 0, len(vertices))
	for _, v := range vertices {
		res = append(res, plotter.XY{X: float64(pos[v.Timestamp]), Y: v.Price})
	}
	return res
}

func addScatter(p *plot.Plot, pts plotter.XYs, shape draw.GlyphDrawer, c color.Color) error {
	if len(pts) == 0 {
		return nil
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Shape = shape
	sc.GlyphStyle.Color = c
	sc.GlyphStyle.Radius = vg.Points(4)
	p.Add(sc)
	return nil
}

func macdPlot(points []indicator.Point, ticks plot.Ticker) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "MACD"
	p.X.Tick.Marker = ticks

	if len(points) == 0 {
		return p, nil
	}

	dif := make(plotter.XYs, len(points))
	dea := make(plotter.XYs, len(points))
	hist := make(plotter.Values, len(points))
	for i, pt := range points {
		dif[i] = plotter.XY{X: float64(i), Y: pt.DIF}
		dea[i] = plotter.XY{X: float64(i), Y: pt.DEA}
		hist[i] = pt.MACD
	}

	bars, err := plotter.NewBarChart(hist, vg.Points(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create macd histogram: %w", err)
	}
	bars.LineStyle.Width = 0
	bars.Color = closeColor
	p.Add(bars)

	difLine, err := plotter.NewLine(dif)
	if err != nil {
		return nil, fmt.Errorf("failed to create dif graph: %w", err)
	}
	difLine.Color = penColor
	p.Add(difLine)

	deaLine, err := plotter.NewLine(dea)
	if err != nil {
		return nil, fmt.Errorf("failed to create dea graph: %w", err)
	}
	deaLine.Color = deaColor
	p.Add(deaLine)

	return p, nil
}
