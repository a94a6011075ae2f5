package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nbuilt/ish-vaqti-bot/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRouter, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/login", h.Login)

	protected := r.Group("", auth.RequireAuth(svc.jwtSecret))
	protected.GET("/attendance", h.ListAttendance)
	protected.GET("/stats/daily", h.DailyStats)
	protected.GET("/stats/monthly", h.MonthlyStats)
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Code: CodeInvalidArgument, Message: "invalid json or missing password"})
		return
	}
	token, err := h.svc.Login(req.Password)
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token})
}

// GET /attendance?phone=&on=
func (h *Handler) ListAttendance(c *gin.Context) {
	res, err := h.svc.ListAttendance(c.Request.Context(), c.Query("phone"), c.Query("on"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": res, "total": len(res)})
}

// GET /stats/daily?phone=&on=
func (h *Handler) DailyStats(c *gin.Context) {
	res, err := h.svc.DailyStats(c.Request.Context(), c.Query("phone"), c.Query("on"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /stats/monthly?phone=&month=
func (h *Handler) MonthlyStats(c *gin.Context) {
	res, err := h.svc.MonthlyStats(c.Request.Context(), c.Query("phone"), c.Query("month"))
	if err != nil {
		c.JSON(toHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
