package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nbuilt/ish-vaqti-bot/internal/ledger"
	"github.com/Nbuilt/ish-vaqti-bot/internal/stats"
)

type fakeLedger struct {
	rows [][]string
	calc [][]string
}

func (f *fakeLedger) AppendRow(context.Context, ledger.AttendanceRecord) (int, error) {
	panic("admin API never writes")
}
func (f *fakeLedger) UpdateCell(context.Context, int, int, string) error {
	panic("admin API never writes")
}
func (f *fakeLedger) ReadAll(context.Context) ([][]string, error)      { return f.rows, nil }
func (f *fakeLedger) ReadCalcRows(context.Context) ([][]string, error) { return f.calc, nil }
func (f *fakeLedger) ReadAccessList(context.Context) (map[string]bool, error) {
	return nil, nil
}

const testPassword = "operator-pass"

func newTestRouter(t *testing.T, led *fakeLedger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewService(led, stats.NewAggregator(led), "test-secret", string(hash))
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), svc)
	return r
}

func login(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login",
		strings.NewReader(`{"password":"`+testPassword+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestRouter(t, &fakeLedger{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login",
		strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceRequiresToken(t *testing.T) {
	r := newTestRouter(t, &fakeLedger{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/attendance", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAttendanceFiltered(t *testing.T) {
	led := &fakeLedger{rows: [][]string{
		{"telegramId", "phone", "last", "first", "date", "start", "end", "loc"}, // header
		{"1", "+998901234567", "Aliyev", "Vali", "2024-01-02", "09:00:00", "", "41,69"},
		{"2", "+998907654321", "Karimov", "Olim", "2024-01-02", "10:00:00", "18:00:00", "41,69"},
		{"1", "+998901234567", "Aliyev", "Vali", "2024-01-01", "09:00:00", "17:30:00", "41,69"},
	}}
	r := newTestRouter(t, led)
	token := login(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance?phone=%2B998901234567&on=2024-01-02", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []AttendanceResponse `json:"items"`
		Total int                  `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "+998901234567", resp.Items[0].Phone)
	assert.True(t, resp.Items[0].Open)
}

func TestDailyStatsEndpoint(t *testing.T) {
	led := &fakeLedger{calc: [][]string{
		{"+998901234567", "2024-01-02", "", "", "8.5", "", "12"},
	}}
	r := newTestRouter(t, led)
	token := login(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/daily?phone=%2B998901234567&on=2024-01-02", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Hours)
	assert.Equal(t, 30, resp.Minutes)
	assert.Equal(t, 12.0, resp.Points)
}

func TestStatsValidation(t *testing.T) {
	r := newTestRouter(t, &fakeLedger{})
	token := login(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats/monthly?phone=%2B998901234567&month=January", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
