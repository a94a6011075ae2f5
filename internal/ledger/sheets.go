package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
)

const valueInputRaw = "RAW"

// SheetsLedger implements Ledger over a Google Sheets spreadsheet with
// three tabs: attendance, access list, and the derived computation table.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	attendanceTab string
	accessTab     string
	calcTab       string
	timeout       time.Duration
}

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	AttendanceTab   string
	AccessTab       string
	CalcTab         string
	Timeout         time.Duration
}

func NewSheetsLedger(ctx context.Context, cfg SheetsConfig) (*SheetsLedger, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SheetsLedger{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		attendanceTab: cfg.AttendanceTab,
		accessTab:     cfg.AccessTab,
		calcTab:       cfg.CalcTab,
		timeout:       timeout,
	}, nil
}

func (l *SheetsLedger) AppendRow(ctx context.Context, rec AttendanceRecord) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cells := rec.Cells()
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	resp, err := l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, l.attendanceTab, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	if resp.Updates == nil {
		return 0, fmt.Errorf("append row: response carried no update info")
	}
	idx, err := rowIndexFromRange(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, fmt.Errorf("append row: %w", err)
	}
	return idx, nil
}

func (l *SheetsLedger) UpdateCell(ctx context.Context, rowIndex, col int, value string) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	rng := fmt.Sprintf("%s!%s%d", l.attendanceTab, columnLetter(col), rowIndex)
	_, err := l.svc.Spreadsheets.Values.
		Update(l.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption(valueInputRaw).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", rng, err)
	}
	return nil
}

func (l *SheetsLedger) ReadAll(ctx context.Context) ([][]string, error) {
	return l.readTab(ctx, l.attendanceTab)
}

func (l *SheetsLedger) ReadCalcRows(ctx context.Context) ([][]string, error) {
	return l.readTab(ctx, l.calcTab)
}

func (l *SheetsLedger) ReadAccessList(ctx context.Context) (map[string]bool, error) {
	rows, err := l.readTab(ctx, l.accessTab)
	if err != nil {
		return nil, err
	}
	return AccessListFromRows(rows), nil
}

func (l *SheetsLedger) readTab(ctx context.Context, tab string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", tab, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AccessListFromRows builds the normalized allow-list mapping from raw
// access-tab rows. Rows without a usable phone are skipped.
func AccessListFromRows(rows [][]string) map[string]bool {
	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		if len(row) <= AccessColPhone {
			continue
		}
		p := phone.Normalize(row[AccessColPhone])
		if p == "" {
			continue
		}
		out[p] = truthy(cell(row, AccessColActive))
	}
	return out
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "ha":
		return true
	}
	return false
}

func columnLetter(col int) string {
	// The fixed layouts never pass column 26; keep the simple form.
	return string(rune('A' + col))
}

// rowIndexFromRange extracts the 1-based row index from an updated range
// like "Davomat!A12:H12" (the tab name may be quoted and contain '!').
func rowIndexFromRange(rng string) (int, error) {
	bang := strings.LastIndex(rng, "!")
	if bang < 0 || bang == len(rng)-1 {
		return 0, fmt.Errorf("unexpected range %q", rng)
	}
	cellRef := rng[bang+1:]
	if colon := strings.Index(cellRef, ":"); colon >= 0 {
		cellRef = cellRef[:colon]
	}
	digits := strings.TrimLeft(cellRef, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unexpected range %q", rng)
	}
	return n, nil
}
