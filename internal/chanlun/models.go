package chanlun

import "fmt"

const (
	// MinResolvedBars is the shortest resolved sequence fractal detection runs on.
	MinResolvedBars = 5
	// MinFractalGap is the minimum distance, in resolved bars, between two
	// accepted fractals of different kind.
	MinFractalGap = 4
	// MinPenBars is the minimum number of original bars a pen spans, both
	// endpoints included.
	MinPenBars = 5
)

// ResolvedBar is a bar after containment processing. It may stand for
// several consecutive original bars, in which case OriginIndex and Timestamp
// point at the last one merged.
type ResolvedBar struct {
	OriginIndex int
	Timestamp   string
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
}

type FractalKind int

const (
	Top FractalKind = iota
	Bottom
)

func (k FractalKind) String() string {
	switch k {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return fmt.Sprintf("kind_%d", int(k))
	}
}

type Fractal struct {
	Kind             FractalKind
	OriginIndex      int
	Price            float64
	LeftOriginIndex  int
	RightOriginIndex int
	Timestamp        string
}

type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction_%d", int(d))
	}
}

type Pen struct {
	Direction        Direction
	StartOriginIndex int
	EndOriginIndex   int
	StartPrice       float64
	EndPrice         float64
	Length           float64
}
