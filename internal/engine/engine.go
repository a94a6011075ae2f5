package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Nbuilt/ish-vaqti-bot/internal/access"
	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/session"
	"github.com/Nbuilt/ish-vaqti-bot/internal/stats"
)

const (
	timeLayout  = "15:04:05"
	monthLayout = "2006-01"
)

// Engine drives the per-user conversation state machine. Every inbound
// event resolves into exactly one Reply; raw store errors never leak out.
type Engine struct {
	sessions *session.Store
	gate     *access.Gate
	ledger   ledger.Ledger
	stats    *stats.Aggregator
	loc      *time.Location

	now func() time.Time // injectable for tests
}

func New(sessions *session.Store, gate *access.Gate, led ledger.Ledger, agg *stats.Aggregator, loc *time.Location) *Engine {
	return &Engine{
		sessions: sessions,
		gate:     gate,
		ledger:   led,
		stats:    agg,
		loc:      loc,
		now:      time.Now,
	}
}

// Handle processes one inbound event under the identity's session lock.
// The lock covers the whole check-then-act sequence against the ledger, so
// a stray duplicate event from the same user cannot race a transition.
func (e *Engine) Handle(ctx context.Context, id Identity, ev Event) Reply {
	var reply Reply
	e.sessions.Do(id.TelegramID, func(s *session.Session) {
		reply = e.handle(ctx, id, s, ev)
	})
	return reply
}

func (e *Engine) handle(ctx context.Context, id Identity, s *session.Session, ev Event) Reply {
	if !s.Authorized {
		return e.handleUnauthenticated(ctx, s, ev)
	}

	switch ev := ev.(type) {
	case Command:
		return e.handleCommand(ctx, id, s, ev.Text)
	case Location:
		return e.handleLocation(ctx, id, s, ev)
	case Photo:
		return e.handlePhoto(id, s, ev)
	case Contact:
		return Reply{Text: msgAlreadyAuthed, Keyboard: KeyboardMain}
	}
	return Reply{Text: msgUnknown, Keyboard: KeyboardMain}
}

// ----- authentication -----

func (e *Engine) handleUnauthenticated(ctx context.Context, s *session.Session, ev Event) Reply {
	raw := ""
	switch ev := ev.(type) {
	case Contact:
		raw = ev.Phone
	case Command:
		// Free-text phone entry is accepted alongside the contact button.
		if looksLikePhone(ev.Text) {
			raw = ev.Text
		}
	}
	if raw == "" {
		return Reply{Text: msgAskPhone, Keyboard: KeyboardContact}
	}

	d, err := e.gate.Authorize(ctx, raw)
	if err != nil {
		log.Printf("[WARN] authorize: %v", err)
		return Reply{Text: msgTransient, Keyboard: KeyboardContact}
	}
	if !d.Allowed {
		// Echo exactly what the normalizer produced, even if it looks odd:
		// that is what the operator must find in the allow-list.
		return Reply{Text: msgDenied(d.Phone), Keyboard: KeyboardContact}
	}

	s.Authorized = true
	s.Phone = d.Phone
	s.Pending = session.PendingNone
	s.OpenRow = nil
	return Reply{Text: msgAuthorized, Keyboard: KeyboardMain}
}

func looksLikePhone(text string) bool {
	digits := 0
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// ----- commands -----

func (e *Engine) handleCommand(ctx context.Context, id Identity, s *session.Session, text string) Reply {
	switch {
	case isStart(text):
		return e.startWork(ctx, s)
	case isEnd(text):
		return e.endWork(ctx, s)
	case isMonthly(text):
		return e.monthlyReport(ctx, s)
	case strings.HasPrefix(strings.TrimSpace(text), "/start"):
		return Reply{Text: msgGreeting, Keyboard: KeyboardMain}
	}
	return Reply{Text: msgUnknown, Keyboard: KeyboardMain}
}

func isStart(text string) bool {
	t := strings.TrimSpace(text)
	return t == BtnStart || strings.EqualFold(t, "start")
}

func isEnd(text string) bool {
	t := strings.TrimSpace(text)
	return t == BtnEnd || strings.EqualFold(t, "end")
}

func isMonthly(text string) bool {
	t := strings.TrimSpace(text)
	return t == BtnMonthly || strings.EqualFold(t, "stats")
}

func (e *Engine) startWork(ctx context.Context, s *session.Session) Reply {
	rows, err := e.ledger.ReadAll(ctx)
	if err != nil {
		log.Printf("[WARN] start check: %v", err)
		return Reply{Text: msgTransient, Keyboard: KeyboardMain}
	}
	if _, open := ledger.FindOpenRow(rows, s.Phone, e.today()); open {
		return Reply{Text: msgAlreadyStarted, Keyboard: KeyboardMain}
	}
	s.Pending = session.PendingLocationForStart
	return Reply{Text: msgAskLocation, Keyboard: KeyboardMain}
}

func (e *Engine) handleLocation(ctx context.Context, id Identity, s *session.Session, loc Location) Reply {
	if s.Pending != session.PendingLocationForStart {
		return Reply{Text: msgStrayLocation, Keyboard: KeyboardMain}
	}

	now := e.now().In(e.loc)
	rec := ledger.AttendanceRecord{
		TelegramID: id.TelegramID,
		Phone:      s.Phone,
		LastName:   id.LastName,
		FirstName:  id.FirstName,
		Date:       now.Format(ledger.DateLayout),
		Start:      now.Format(timeLayout),
		Location:   fmt.Sprintf("%.6f,%.6f", loc.Lat, loc.Lon),
	}
	idx, err := e.ledger.AppendRow(ctx, rec)
	if err != nil {
		// Pending stays set: the user just resends the location.
		log.Printf("[WARN] append start row: %v", err)
		return Reply{Text: msgTransient, Keyboard: KeyboardMain}
	}

	// The only trustworthy index is the one the append itself returned.
	s.OpenRow = &session.RowRef{Index: idx, Date: rec.Date}
	s.Pending = session.PendingNone
	return Reply{Text: msgStarted + "\n" + msgAskSelfie, Keyboard: KeyboardMain}
}

func (e *Engine) endWork(ctx context.Context, s *session.Session) Reply {
	today := e.today()

	idx := 0
	if s.OpenRow != nil && s.OpenRow.Date == today {
		idx = s.OpenRow.Index
	} else {
		// Cache absent or stale (restart, another device): the ledger is
		// the source of truth.
		s.OpenRow = nil
		rows, err := e.ledger.ReadAll(ctx)
		if err != nil {
			log.Printf("[WARN] end lookup: %v", err)
			return Reply{Text: msgTransient, Keyboard: KeyboardMain}
		}
		found, ok := ledger.FindOpenRow(rows, s.Phone, today)
		if !ok {
			return Reply{Text: msgStartFirst, Keyboard: KeyboardMain}
		}
		idx = found
	}

	endAt := e.now().In(e.loc).Format(timeLayout)
	if err := e.ledger.UpdateCell(ctx, idx, ledger.ColEnd, endAt); err != nil {
		log.Printf("[WARN] close row %d: %v", idx, err)
		return Reply{Text: msgTransient, Keyboard: KeyboardMain}
	}
	s.OpenRow = nil

	text := msgEnded
	if sum, err := e.stats.Daily(ctx, s.Phone, today); err != nil {
		// The row is already closed; only the report is unavailable.
		log.Printf("[WARN] daily stats: %v", err)
		text += "\n" + msgStatsLater
	} else {
		text += fmt.Sprintf("\n⏱ Bugun: %d soat %d daqiqa\n⭐ Ball: %.1f", sum.Hours, sum.Minutes, sum.Points)
	}
	return Reply{Text: text, Keyboard: KeyboardMain}
}

func (e *Engine) monthlyReport(ctx context.Context, s *session.Session) Reply {
	month := e.now().In(e.loc).Format(monthLayout)
	sum, err := e.stats.Monthly(ctx, s.Phone, month)
	if err != nil {
		log.Printf("[WARN] monthly stats: %v", err)
		return Reply{Text: msgTransient, Keyboard: KeyboardMain}
	}
	text := fmt.Sprintf("📊 %s: %d soat %d daqiqa\n⭐ Ball: %.1f", month, sum.Hours, sum.Minutes, sum.Points)
	return Reply{Text: text, Keyboard: KeyboardMain}
}

// ----- photo proof -----

func (e *Engine) handlePhoto(id Identity, s *session.Session, p Photo) Reply {
	if s.OpenRow == nil || s.OpenRow.Date != e.today() {
		return Reply{Text: msgUnknown, Keyboard: KeyboardMain}
	}
	proofID := ulid.Make().String()
	log.Printf("[INFO] selfie proof %s user=%s row=%d token=%s", proofID, id.TelegramID, s.OpenRow.Index, p.Token)
	return Reply{Text: msgSelfieAccepted(proofID), Keyboard: KeyboardMain}
}

func (e *Engine) today() string {
	return e.now().In(e.loc).Format(ledger.DateLayout)
}
