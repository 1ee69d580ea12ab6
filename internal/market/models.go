package market

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format of Bar.Date.
const DateLayout = "2006-01-02"

type Bar struct {
	Date   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b Bar) Time() (time.Time, error) {
	t, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse bar date %q: %w", b.Date, err)
	}

	return t, nil
}

func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
