package stats

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
)

// CalcSource is the slice of the ledger the aggregator reads: the derived
// computation tab, owned by an external calculation and read-only here.
type CalcSource interface {
	ReadCalcRows(ctx context.Context) ([][]string, error)
}

// Summary is a worked-time total plus incentive points.
type Summary struct {
	Hours   int
	Minutes int
	Points  float64
}

func (s Summary) String() string {
	return fmt.Sprintf("%d soat %d daqiqa, %.1f ball", s.Hours, s.Minutes, s.Points)
}

type Aggregator struct {
	src CalcSource
}

func NewAggregator(src CalcSource) *Aggregator {
	return &Aggregator{src: src}
}

// Daily sums worked hours and points for one phone on one exact date.
func (a *Aggregator) Daily(ctx context.Context, rawPhone, date string) (Summary, error) {
	return a.sum(ctx, rawPhone, date, false)
}

// Monthly sums over a "YYYY-MM" prefix of the date column.
func (a *Aggregator) Monthly(ctx context.Context, rawPhone, yearMonth string) (Summary, error) {
	return a.sum(ctx, rawPhone, yearMonth, true)
}

func (a *Aggregator) sum(ctx context.Context, rawPhone, date string, prefix bool) (Summary, error) {
	rows, err := a.src.ReadCalcRows(ctx)
	if err != nil {
		return Summary{}, err
	}
	p := phone.Normalize(rawPhone)

	var hours, points float64
	for _, row := range rows {
		if len(row) <= ledger.CalcColDate {
			continue
		}
		if phone.Normalize(row[ledger.CalcColPhone]) != p {
			continue
		}
		d := row[ledger.CalcColDate]
		if prefix {
			if !strings.HasPrefix(d, date) {
				continue
			}
		} else if d != date {
			continue
		}
		// Cells are parsed independently: one corrupt value must not drop
		// the other figures of the same row, let alone the whole report.
		hours += numericCell(row, ledger.CalcColHours)
		points += numericCell(row, ledger.CalcColPoints)
	}
	return summarize(hours, points), nil
}

func numericCell(row []string, i int) float64 {
	if i >= len(row) {
		return 0
	}
	v := strings.TrimSpace(strings.ReplaceAll(row[i], ",", "."))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func summarize(hours, points float64) Summary {
	whole := math.Floor(hours)
	minutes := int(math.Round((hours - whole) * 60))
	s := Summary{Hours: int(whole), Minutes: minutes, Points: points}
	if s.Minutes == 60 {
		s.Hours++
		s.Minutes = 0
	}
	return s
}
