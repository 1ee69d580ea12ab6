package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gamma-omg/chanlun/internal/chanlun"
	"github.com/shopspring/decimal"
)

type csvResolvedDump struct {
	w           *csv.Writer
	writeHeader bool
}

func newCsvResolvedDump(w io.Writer) *csvResolvedDump {
	return &csvResolvedDump{csv.NewWriter(w), true}
}

func (d *csvResolvedDump) Dump(bar chanlun.ResolvedBar) error {
	if d.writeHeader {
		if err := d.w.Write([]string{"origin_index", "date", "open", "high", "low", "close", "volume"}); err != nil {
			return fmt.Errorf("failed to write resolved dump csv header: %w", err)
		}
		d.writeHeader = false
	}

	err := d.w.Write([]string{
		strconv.Itoa(bar.OriginIndex),
		bar.Timestamp,
		decimal.NewFromFloat(bar.Open).String(),
		decimal.NewFromFloat(bar.High).String(),
		decimal.NewFromFloat(bar.Low).String(),
		decimal.NewFromFloat(bar.Close).String(),
		decimal.NewFromFloat(bar.Volume).String()})

	if err != nil {
		return fmt.Errorf("failed to dump resolved bar: %w", err)
	}

	d.w.Flush()
	return d.w.Error()
}

// DumpResolved writes resolved bars into a csv file at path.
func DumpResolved(path string, resolved []chanlun.ResolvedBar) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create resolved dump file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close resolved dump file: %w", cerr))
		}
	}()

	d := newCsvResolvedDump(f)
	for _, b := range resolved {
		if err := d.Dump(b); err != nil {
			return err
		}
	}

	return nil
}
