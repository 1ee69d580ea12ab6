package chart

import (
	"errors"
	"fmt"
	"os"

	"github.com/pplcc/plotext"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Stack is a vertical stack of plots sharing the X axis range.
type Stack struct {
	plots   []*plot.Plot
	heights []float64
	w       int
	h       int
}

func NewStack(w, h int) *Stack {
	return &Stack{w: w, h: h}
}

// Add appends a pane. height is a fraction of the stack height.
func (s *Stack) Add(p *plot.Plot, height float64) {
	s.plots = append(s.plots, p)
	s.heights = append(s.heights, height)
}

func (s *Stack) Save(path string) (err error) {
	if len(s.plots) == 0 {
		return errors.New("nothing to plot")
	}

	var axis []*plot.Axis
	for _, p := range s.plots {
		axis = append(axis, &p.X)
	}
	plotext.UniteAxisRanges(axis)

	total := 0.0
	for _, v := range s.heights {
		total += v
	}

	rows := make([]float64, len(s.heights))
	for i, v := range s.heights {
		rows[i] = v / total
	}

	tbl := plotext.Table{
		RowHeights: rows,
		ColWidths:  []float64{1},
	}

	var plots2d [][]*plot.Plot
	for _, p := range s.plots {
		plots2d = append(plots2d, []*plot.Plot{p})
	}

	img := vgimg.New(vg.Points(float64(s.w)), vg.Points(float64(s.h)))
	dc := draw.New(img)

	canvases := tbl.Align(plots2d, dc)
	for i, p := range s.plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close chart file: %w", cerr))
		}
	}()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write chart to file: %w", err)
	}

	return nil
}
