package market

import "fmt"

type Period string

const (
	PeriodDay  Period = "day"
	PeriodWeek Period = "week"
)

// Aggregate groups daily bars into bars of the given period. Daily bars
// are returned as is.
func Aggregate(bars []Bar, p Period) ([]Bar, error) {
	switch p {
	case "", PeriodDay:
		return bars, nil
	case PeriodWeek:
		return AggregateWeekly(bars)
	default:
		return nil, fmt.Errorf("unknown period: %s", p)
	}
}

// AggregateWeekly merges daily bars of the same ISO week. The weekly bar is
// dated by the last trading day of the week.
func AggregateWeekly(bars []Bar) ([]Bar, error) {
	res := make([]Bar, 0, len(bars)/5+1)

	var cur *Bar
	var curYear, curWeek int
	for _, b := range bars {
		t, err := b.Time()
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate bars: %w", err)
		}

		year, week := t.ISOWeek()
		if cur != nil && (year != curYear || week != curWeek) {
			res = append(res, *cur)
			cur = nil
		}

		if cur == nil {
			curYear, curWeek = year, week
			cur = &Bar{
				Open: b.Open,
				High: b.High,
				Low:  b.Low,
			}
		}

		cur.Date = b.Date
		cur.Close = b.Close
		cur.High = max(cur.High, b.High)
		cur.Low = min(cur.Low, b.Low)
		cur.Volume += b.Volume
	}

	if cur != nil {
		res = append(res, *cur)
	}

	return res, nil
}
