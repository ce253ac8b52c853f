package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/allocation"
	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/repository"
)

// CreateSeat handles POST /api/admin/seats and places a single seat
// manually. Bulk placement goes through GenerateSeats instead.
func (h *AdminHandler) CreateSeat(c echo.Context) error {
	var body struct {
		AreaID  uint64  `json:"area_id"`
		SeatNo  string  `json:"seat_no"`
		GridRow int     `json:"grid_row"`
		GridCol int     `json:"grid_col"`
		PosX    float64 `json:"pos_x"`
		PosY    float64 `json:"pos_y"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	seatNo := strings.TrimSpace(body.SeatNo)
	if body.AreaID == 0 || seatNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area_id and seat_no are required"})
	}
	if _, err := h.Areas.GetByID(c.Request().Context(), body.AreaID); err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	s := &model.Seat{
		AreaID:   body.AreaID,
		SeatNo:   seatNo,
		Status:   model.SeatStatusIdle,
		GridRow:  body.GridRow,
		GridCol:  body.GridCol,
		PosX:     body.PosX,
		PosY:     body.PosY,
		BindType: model.BindTypeNone,
	}
	if err := h.Seats.Create(c.Request().Context(), s); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat_no already exists in this area"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seat"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListSeats handles GET /api/admin/seats filtered by one of area_id,
// floor_id or venue_id. This is the query behind the floor seat map, so
// responses are served through the Redis cache middleware.
func (h *AdminHandler) ListSeats(c echo.Context) error {
	var f repository.SeatFilter
	if v := c.QueryParam("area_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area_id"})
		}
		f.AreaID = id
	}
	if v := c.QueryParam("floor_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor_id"})
		}
		f.FloorID = id
	}
	if v := c.QueryParam("venue_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
		}
		f.VenueID = id
	}
	items, err := h.Seats.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSeat handles GET /api/admin/seats/:id.
func (h *AdminHandler) GetSeat(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Seats.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateSeat handles PUT /api/admin/seats/:id. Only layout fields and the
// administrative status may change here; occupancy is owned by the bind,
// unbind and transfer endpoints and setting it here is rejected.
func (h *AdminHandler) UpdateSeat(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		SeatNo  string   `json:"seat_no"`
		GridRow *int     `json:"grid_row"`
		GridCol *int     `json:"grid_col"`
		PosX    *float64 `json:"pos_x"`
		PosY    *float64 `json:"pos_y"`
		Status  *int     `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s, err := h.Seats.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if v := strings.TrimSpace(body.SeatNo); v != "" {
		s.SeatNo = v
	}
	if body.GridRow != nil {
		s.GridRow = *body.GridRow
	}
	if body.GridCol != nil {
		s.GridCol = *body.GridCol
	}
	if body.PosX != nil {
		s.PosX = *body.PosX
	}
	if body.PosY != nil {
		s.PosY = *body.PosY
	}
	if err := h.Seats.UpdateGeometry(c.Request().Context(), s); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat_no already exists in this area"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	if body.Status != nil {
		switch *body.Status {
		case model.SeatStatusIdle, model.SeatStatusMaintenance, model.SeatStatusDisabled:
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		if err := h.Seats.SetAdminStatus(c.Request().Context(), id, *body.Status); err != nil {
			if err == repository.ErrConflict {
				return c.JSON(http.StatusConflict, echo.Map{"error": "seat is occupied; unbind first"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		s.Status = *body.Status
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSeat handles DELETE /api/admin/seats/:id. Occupied seats and seats
// referenced by the audit trail cannot be removed.
func (h *AdminHandler) DeleteSeat(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Seats.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrSeatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat is occupied or has audit history"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ProvisionHandler wraps the grid provisioner behind POST
// /api/admin/seats/generate.
type ProvisionHandler struct {
	Provisioner *allocation.Provisioner
}

func NewProvisionHandler(p *allocation.Provisioner) *ProvisionHandler {
	return &ProvisionHandler{Provisioner: p}
}

// GenerateSeats lays out a full grid of seats for an area in one atomic
// insert. The response reports how many seats were created.
func (h *ProvisionHandler) GenerateSeats(c echo.Context) error {
	var body struct {
		AreaID uint64 `json:"area_id"`
		Count  int    `json:"count"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.AreaID == 0 || body.Count <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "area_id and a positive count are required"})
	}

	created, err := h.Provisioner.Provision(c.Request().Context(), body.AreaID, body.Count)
	if err != nil {
		return respondAllocError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"area_id": body.AreaID, "created": created})
}
