package ledger

import (
	"context"

	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
)

// Ledger is the boundary to the external tabular store. Reads are always
// full-range: the store is the only consistency boundary, and a windowed
// read could miss a row another session just appended.
type Ledger interface {
	// AppendRow appends one attendance row and returns its 1-based sheet
	// row index, taken from the store's own append response (never from a
	// pre-read row count, which can be stale under concurrent appends).
	AppendRow(ctx context.Context, rec AttendanceRecord) (int, error)

	// UpdateCell sets a single cell of the attendance tab.
	UpdateCell(ctx context.Context, rowIndex, col int, value string) error

	// ReadAll returns every row of the attendance tab, in sheet order.
	ReadAll(ctx context.Context) ([][]string, error)

	// ReadAccessList returns the allow-list snapshot, keyed by normalized
	// phone. Fetched fresh on every call.
	ReadAccessList(ctx context.Context) (map[string]bool, error)

	// ReadCalcRows returns every row of the derived computation tab.
	ReadCalcRows(ctx context.Context) ([][]string, error)
}

// FindOpenRow scans rows backward for the most recent open row matching
// (normalizedPhone, date) and returns its 1-based sheet row index. Backward
// because the most recently appended open row is the only one that should
// exist under the one-open-row-per-day invariant. Malformed rows are
// skipped, a header row simply never matches.
func FindOpenRow(rows [][]string, normalizedPhone, date string) (int, bool) {
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) <= ColDate {
			continue
		}
		if phone.Normalize(row[ColPhone]) != normalizedPhone {
			continue
		}
		if row[ColDate] != date {
			continue
		}
		if cell(row, ColEnd) != "" {
			continue
		}
		return i + 1, true
	}
	return 0, false
}
