package ledger

// Column layout of the attendance tab. The sheet has no schema, so these
// constants are the single place to touch if columns are ever reordered.
const (
	ColTelegramID = iota
	ColPhone
	ColLastName
	ColFirstName
	ColDate
	ColStart
	ColEnd
	ColLocation

	attendanceWidth
)

// Access tab: [phone, active].
const (
	AccessColPhone = iota
	AccessColActive
)

// Calc tab: [phone, date, _, _, workedHours, _, points]. Columns 2, 3 and 5
// belong to the external computation and are never read here.
const (
	CalcColPhone  = 0
	CalcColDate   = 1
	CalcColHours  = 4
	CalcColPoints = 6
)

const DateLayout = "2006-01-02"

// AttendanceRecord is one ledger row. An empty End means the row is open:
// work started but not yet ended.
type AttendanceRecord struct {
	TelegramID string
	Phone      string
	LastName   string
	FirstName  string
	Date       string // YYYY-MM-DD
	Start      string // HH:MM:SS
	End        string // empty while open
	Location   string
}

// Cells renders the record in sheet column order.
func (r AttendanceRecord) Cells() []string {
	row := make([]string, attendanceWidth)
	row[ColTelegramID] = r.TelegramID
	row[ColPhone] = r.Phone
	row[ColLastName] = r.LastName
	row[ColFirstName] = r.FirstName
	row[ColDate] = r.Date
	row[ColStart] = r.Start
	row[ColEnd] = r.End
	row[ColLocation] = r.Location
	return row
}

// RecordFromRow maps a raw sheet row back to a typed record. Short rows are
// tolerated: the sheet API trims trailing empty cells.
func RecordFromRow(row []string) AttendanceRecord {
	return AttendanceRecord{
		TelegramID: cell(row, ColTelegramID),
		Phone:      cell(row, ColPhone),
		LastName:   cell(row, ColLastName),
		FirstName:  cell(row, ColFirstName),
		Date:       cell(row, ColDate),
		Start:      cell(row, ColStart),
		End:        cell(row, ColEnd),
		Location:   cell(row, ColLocation),
	}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
