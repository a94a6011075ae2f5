package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOpenRow(t *testing.T) {
	rows := [][]string{
		{"telegramId", "phone", "lastName", "firstName", "date", "start", "end", "loc"}, // header
		{"1", "+998901234567", "A", "B", "2024-01-01", "09:00:00", "18:00:00", "x"},
		{"1", "+998901234567", "A", "B", "2024-01-02", "09:00:00", "", "x"},
		{"2", "+998907654321", "C", "D", "2024-01-02", "10:00:00", "", "x"},
	}

	idx, ok := FindOpenRow(rows, "+998901234567", "2024-01-02")
	require.True(t, ok)
	assert.Equal(t, 3, idx, "1-based sheet row of the open row")

	_, ok = FindOpenRow(rows, "+998901234567", "2024-01-01")
	assert.False(t, ok, "closed rows are not open")

	_, ok = FindOpenRow(rows, "+998900000000", "2024-01-02")
	assert.False(t, ok)
}

func TestFindOpenRowPicksMostRecent(t *testing.T) {
	// Two open rows for the same pair should never exist, but if the sheet
	// was hand-edited the scan must still settle on the latest one.
	rows := [][]string{
		{"1", "+998901234567", "A", "B", "2024-01-02", "08:00:00", ""},
		{"1", "+998901234567", "A", "B", "2024-01-02", "13:00:00", ""},
	}
	idx, ok := FindOpenRow(rows, "+998901234567", "2024-01-02")
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestFindOpenRowNormalizesStoredPhone(t *testing.T) {
	// A trunk-prefixed stored form must match the international form.
	rows := [][]string{
		{"1", "8 998 90 123 45 67", "A", "B", "2024-01-02", "09:00:00", ""},
	}
	idx, ok := FindOpenRow(rows, "+998901234567", "2024-01-02")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestFindOpenRowSkipsMalformed(t *testing.T) {
	rows := [][]string{
		{},
		{"1", "+998901234567"},
		{"1", "+998901234567", "A", "B", "2024-01-02", "09:00:00"}, // short: end trimmed → open
	}
	idx, ok := FindOpenRow(rows, "+998901234567", "2024-01-02")
	require.True(t, ok)
	assert.Equal(t, 3, idx)
}

func TestRecordRoundTrip(t *testing.T) {
	rec := AttendanceRecord{
		TelegramID: "42",
		Phone:      "+998901234567",
		LastName:   "Aliyev",
		FirstName:  "Vali",
		Date:       "2024-01-02",
		Start:      "09:00:00",
		Location:   "41.311081,69.240562",
	}
	got := RecordFromRow(rec.Cells())
	assert.Equal(t, rec, got)
}

func TestAccessListFromRows(t *testing.T) {
	rows := [][]string{
		{"phone", "active"}, // header never normalizes to a phone
		{"+998901234567", "1"},
		{"998 90 765 43 21", "true"},
		{"+998900000000", "0"},
		{"+998911111111"}, // missing flag → inactive
		{"", "1"},
	}
	got := AccessListFromRows(rows)
	assert.Equal(t, map[string]bool{
		"+998901234567": true,
		"+998907654321": true,
		"+998900000000": false,
		"+998911111111": false,
	}, got)
}

func TestRowIndexFromRange(t *testing.T) {
	cases := []struct {
		rng  string
		want int
	}{
		{"Davomat!A12:H12", 12},
		{"'Ish vaqti'!A3:H3", 3},
		{"Sheet1!B7", 7},
	}
	for _, tc := range cases {
		got, err := rowIndexFromRange(tc.rng)
		require.NoError(t, err, tc.rng)
		assert.Equal(t, tc.want, got, tc.rng)
	}

	_, err := rowIndexFromRange("garbage")
	assert.Error(t, err)
}
