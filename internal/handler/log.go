package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/repository"
)

// LogHandler serves the allocation audit trail (read-only).
type LogHandler struct {
	Logs *repository.SeatLogRepo
}

func NewLogHandler(l *repository.SeatLogRepo) *LogHandler {
	if l == nil {
		panic("nil repository passed to NewLogHandler")
	}
	return &LogHandler{Logs: l}
}

// parseTimeParam accepts RFC3339 or a plain date.
func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// List handles GET /api/admin/log/logs with optional filters: seat_no,
// operation_type, operator_id, user_id, start, end, page, page_size.
func (h *LogHandler) List(c echo.Context) error {
	var f repository.LogFilter
	f.SeatNo = strings.TrimSpace(c.QueryParam("seat_no"))
	f.OperatorID = strings.TrimSpace(c.QueryParam("operator_id"))
	f.UserID = strings.TrimSpace(c.QueryParam("user_id"))

	if v := c.QueryParam("operation_type"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operation_type"})
		}
		f.OperationType = n
	}
	if v := c.QueryParam("start"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
		}
		f.Start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
		}
		f.End = t
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	items, total, err := h.Logs.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// Get handles GET /api/admin/log/logs/:id.
func (h *LogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	l, err := h.Logs.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrLogNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "log entry not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, l)
}

// Statistics handles GET /api/admin/log/logs/statistics with an optional
// start/end window, returning per-operation counts.
func (h *LogHandler) Statistics(c echo.Context) error {
	var start, end time.Time
	if v := c.QueryParam("start"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
		}
		start = t
	}
	if v := c.QueryParam("end"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
		}
		end = t
	}
	total, counts, err := h.Logs.Statistics(c.Request().Context(), start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "operations": counts})
}
