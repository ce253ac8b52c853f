package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/queue"
	"github.com/deskhub/seatdesk/internal/repository"
	"github.com/deskhub/seatdesk/internal/service"
)

// EmployeeHandler serves directory reads, the bulk sync endpoint and the
// webhook the OA system calls on every employee change.
type EmployeeHandler struct {
	Employees *repository.EmployeeRepo
	Seats     *repository.SeatRepo
	Directory *service.DirectoryService
}

func NewEmployeeHandler(e *repository.EmployeeRepo, s *repository.SeatRepo, d *service.DirectoryService) *EmployeeHandler {
	if e == nil || s == nil || d == nil {
		panic("nil dependency passed to NewEmployeeHandler")
	}
	return &EmployeeHandler{Employees: e, Seats: s, Directory: d}
}

// List handles GET /api/users?dept_id=&status=&page=&page_size=.
func (h *EmployeeHandler) List(c echo.Context) error {
	deptID := strings.TrimSpace(c.QueryParam("dept_id"))

	var status *int
	if v := c.QueryParam("status"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != model.EmployeeActive && n != model.EmployeeInactive) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		status = &n
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	items, err := h.Employees.List(c.Request().Context(), deptID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "page": page, "page_size": pageSize})
}

// Search handles GET /api/users/search?q= and matches on id or name prefix.
func (h *EmployeeHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}
	items, err := h.Employees.Search(c.Request().Context(), query, 20)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/users/:id and includes the employee's current seats.
func (h *EmployeeHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	emp, err := h.Employees.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrEmployeeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	seats, err := h.Seats.ListByOccupant(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"employee": emp, "seats": seats})
}

// Sync handles POST /api/users/sync with a full batch of directory records.
// Departed employees in the batch get their seats released as part of the
// same pass; per-record failures are counted, not fatal.
func (h *EmployeeHandler) Sync(c echo.Context) error {
	var body struct {
		Employees []model.Employee `json:"employees"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Employees) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employees is required"})
	}
	res, err := h.Directory.SyncBatch(c.Request().Context(), body.Employees)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sync aborted"})
	}
	return c.JSON(http.StatusOK, res)
}

// Webhook handles POST /api/webhook/user-change. The payload is validated
// and enqueued onto the broker; the background consumer applies it. The OA
// system only needs a fast acknowledgement here.
func (h *EmployeeHandler) Webhook(c echo.Context) error {
	var ev queue.EmployeeChangedEvent
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ev.EmployeeID = strings.TrimSpace(ev.EmployeeID)
	if ev.EmployeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id is required"})
	}
	if ev.Status != model.EmployeeActive && ev.Status != model.EmployeeInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if err := service.PublishEmployeeChange(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "broker unavailable"})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"queued": true})
}
