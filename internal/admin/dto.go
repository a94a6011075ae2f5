package admin

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type AttendanceResponse struct {
	TelegramID string `json:"telegram_id"`
	Phone      string `json:"phone"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	Date       string `json:"date"`
	Start      string `json:"start_time"`
	End        string `json:"end_time,omitempty"`
	Location   string `json:"location,omitempty"`
	Open       bool   `json:"open"`
}

type StatsResponse struct {
	Phone   string  `json:"phone"`
	Period  string  `json:"period"`
	Hours   int     `json:"hours"`
	Minutes int     `json:"minutes"`
	Points  float64 `json:"points"`
}
