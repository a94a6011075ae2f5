package admin

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
	"github.com/Nbuilt/ish-vaqti-bot/internal/platform/auth"
	"github.com/Nbuilt/ish-vaqti-bot/internal/stats"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Service exposes the operator's read-only view of the ledger plus login.
type Service struct {
	ledger       ledger.Ledger
	stats        *stats.Aggregator
	jwtSecret    []byte
	passwordHash []byte
}

func NewService(led ledger.Ledger, agg *stats.Aggregator, jwtSecret, passwordHash string) *Service {
	return &Service{
		ledger:       led,
		stats:        agg,
		jwtSecret:    []byte(jwtSecret),
		passwordHash: []byte(passwordHash),
	}
}

func (s *Service) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrUnauth("authentication failed")
	}
	token, err := auth.IssueToken(s.jwtSecret, "admin")
	if err != nil {
		return "", ErrInternal("token signing failed")
	}
	return token, nil
}

// ListAttendance returns ledger rows, optionally filtered by phone and/or
// date. Rows too short to carry a date are skipped, as everywhere.
func (s *Service) ListAttendance(ctx context.Context, rawPhone, on string) ([]AttendanceResponse, error) {
	if on != "" && !dateRe.MatchString(on) {
		return nil, ErrInvalid("on must be YYYY-MM-DD")
	}
	rows, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, ErrUnavail("ledger read failed")
	}

	p := phone.Normalize(rawPhone)
	out := make([]AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		if len(row) <= ledger.ColDate {
			continue
		}
		rec := ledger.RecordFromRow(row)
		if !dateRe.MatchString(rec.Date) {
			continue // header or hand-edited junk
		}
		if p != "" && phone.Normalize(rec.Phone) != p {
			continue
		}
		if on != "" && rec.Date != on {
			continue
		}
		out = append(out, AttendanceResponse{
			TelegramID: rec.TelegramID,
			Phone:      phone.Normalize(rec.Phone),
			LastName:   rec.LastName,
			FirstName:  rec.FirstName,
			Date:       rec.Date,
			Start:      rec.Start,
			End:        rec.End,
			Location:   rec.Location,
			Open:       rec.End == "",
		})
	}
	return out, nil
}

func (s *Service) DailyStats(ctx context.Context, rawPhone, on string) (StatsResponse, error) {
	if phone.Normalize(rawPhone) == "" {
		return StatsResponse{}, ErrInvalid("phone is required")
	}
	if !dateRe.MatchString(on) {
		return StatsResponse{}, ErrInvalid("on must be YYYY-MM-DD")
	}
	sum, err := s.stats.Daily(ctx, rawPhone, on)
	if err != nil {
		return StatsResponse{}, ErrUnavail("ledger read failed")
	}
	return statsResponse(rawPhone, on, sum), nil
}

func (s *Service) MonthlyStats(ctx context.Context, rawPhone, month string) (StatsResponse, error) {
	if phone.Normalize(rawPhone) == "" {
		return StatsResponse{}, ErrInvalid("phone is required")
	}
	if !monthRe.MatchString(month) {
		return StatsResponse{}, ErrInvalid("month must be YYYY-MM")
	}
	sum, err := s.stats.Monthly(ctx, rawPhone, month)
	if err != nil {
		return StatsResponse{}, ErrUnavail("ledger read failed")
	}
	return statsResponse(rawPhone, month, sum), nil
}

func statsResponse(rawPhone, period string, sum stats.Summary) StatsResponse {
	return StatsResponse{
		Phone:   phone.Normalize(rawPhone),
		Period:  period,
		Hours:   sum.Hours,
		Minutes: sum.Minutes,
		Points:  sum.Points,
	}
}
