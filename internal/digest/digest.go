package digest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
	"github.com/Nbuilt/ish-vaqti-bot/internal/stats"
)

// Sender delivers the digest text to the admin chat.
type Sender interface {
	SendAdmin(text string) error
}

// Job sends one attendance digest per day at a fixed wall-clock time.
// It only reads: the ledger for who clocked in today, the aggregator for
// their totals. It shares no mutable state with the session engine.
type Job struct {
	ledger ledger.Ledger
	stats  *stats.Aggregator
	sender Sender
	loc    *time.Location
	at     string // "HH:MM"

	now func() time.Time
}

func NewJob(led ledger.Ledger, agg *stats.Aggregator, sender Sender, loc *time.Location, at string) *Job {
	return &Job{ledger: led, stats: agg, sender: sender, loc: loc, at: at, now: time.Now}
}

// Run blocks until ctx is cancelled, firing once per day at the configured
// time. A failed digest is logged and retried the next day; it never stops
// the job.
func (j *Job) Run(ctx context.Context) error {
	for {
		wait := time.Until(j.nextRun())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := j.SendDigest(ctx); err != nil {
			log.Printf("[WARN] daily digest: %v", err)
		}
	}
}

func (j *Job) nextRun() time.Time {
	now := j.now().In(j.loc)
	at, _ := time.Parse("15:04", j.at) // validated at config load
	next := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, j.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// SendDigest builds and delivers the digest for "today" in the job's
// timezone. Exported so an operator command can trigger it off-schedule.
func (j *Job) SendDigest(ctx context.Context) error {
	today := j.now().In(j.loc).Format(ledger.DateLayout)

	rows, err := j.ledger.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read attendance: %w", err)
	}

	text, err := j.build(ctx, rows, today)
	if err != nil {
		return err
	}
	return j.sender.SendAdmin(text)
}

type worker struct {
	phone string
	name  string
	open  bool
}

func (j *Job) build(ctx context.Context, rows [][]string, today string) (string, error) {
	// One entry per phone; the last row wins for name/open status.
	seen := make(map[string]worker)
	for _, row := range rows {
		if len(row) <= ledger.ColDate {
			continue
		}
		rec := ledger.RecordFromRow(row)
		if rec.Date != today {
			continue
		}
		p := phone.Normalize(rec.Phone)
		if p == "" {
			continue
		}
		seen[p] = worker{
			phone: p,
			name:  strings.TrimSpace(rec.FirstName + " " + rec.LastName),
			open:  rec.End == "",
		}
	}

	if len(seen) == 0 {
		return fmt.Sprintf("📋 %s: hech kim ishga kelmadi.", today), nil
	}

	workers := make([]worker, 0, len(seen))
	for _, w := range seen {
		workers = append(workers, w)
	}
	sort.Slice(workers, func(i, k int) bool { return workers[i].name < workers[k].name })

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Kunlik hisobot %s (%d xodim)\n", today, len(workers))
	for _, w := range workers {
		sum, err := j.stats.Daily(ctx, w.phone, today)
		if err != nil {
			return "", fmt.Errorf("stats for %s: %w", w.phone, err)
		}
		status := ""
		if w.open {
			status = " (hali ishda)"
		}
		fmt.Fprintf(&b, "• %s: %d soat %d daqiqa, %.1f ball%s\n",
			w.name, sum.Hours, sum.Minutes, sum.Points, status)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
