package chanlun

type candidate struct {
	Fractal
	pos int // position in the resolved sequence
}

// Detect finds top and bottom fractals in a resolved bar sequence and keeps
// a strictly alternating subset whose members are at least MinFractalGap
// resolved bars apart.
func Detect(resolved []ResolvedBar) []Fractal {
	if len(resolved) < MinResolvedBars {
		return []Fractal{}
	}

	f := fractalFold{accepted: []Fractal{}}
	for _, c := range candidates(resolved) {
		f.push(c)
	}

	return f.accepted
}

// candidates are produced in resolved order, so tops and bottoms come out
// already merged and sorted.
func candidates(resolved []ResolvedBar) []candidate {
	var res []candidate
	for i := 1; i < len(resolved)-1; i++ {
		left, mid, right := resolved[i-1], resolved[i], resolved[i+1]

		var kind FractalKind
		var price float64
		switch {
		case mid.High > left.High && mid.High > right.High &&
			mid.Low > left.Low && mid.Low > right.Low:
			kind, price = Top, mid.High
		case mid.Low < left.Low && mid.Low < right.Low &&
			mid.High < left.High && mid.High < right.High:
			kind, price = Bottom, mid.Low
		default:
			continue
		}

		res = append(res, candidate{
			Fractal: Fractal{
				Kind:             kind,
				OriginIndex:      mid.OriginIndex,
				Price:            price,
				LeftOriginIndex:  left.OriginIndex,
				RightOriginIndex: right.OriginIndex,
				Timestamp:        mid.Timestamp,
			},
			pos: i,
		})
	}

	return res
}

type fractalFold struct {
	accepted []Fractal
	last     *candidate
}

func (f *fractalFold) push(c candidate) {
	switch {
	case f.last == nil:
		f.accept(c)
	case c.Kind != f.last.Kind:
		// a too close opposite fractal is dropped for good
		if c.pos-f.last.pos >= MinFractalGap {
			f.accept(c)
		}
	case moreExtreme(c.Fractal, f.last.Fractal):
		f.accepted[len(f.accepted)-1] = c.Fractal
		f.last = &c
	}
}

func (f *fractalFold) accept(c candidate) {
	f.accepted = append(f.accepted, c.Fractal)
	f.last = &c
}

func moreExtreme(c, last Fractal) bool {
	if c.Kind == Top {
		return c.Price > last.Price
	}
	return c.Price < last.Price
}
