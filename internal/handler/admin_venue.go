package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/repository"
)

// AdminHandler bundles repositories for managing the seating hierarchy:
// venues, floors, areas and the seats inside them.
type AdminHandler struct {
	Venues *repository.VenueRepo
	Floors *repository.FloorRepo
	Areas  *repository.AreaRepo
	Seats  *repository.SeatRepo
}

func NewAdminHandler(v *repository.VenueRepo, f *repository.FloorRepo, a *repository.AreaRepo, s *repository.SeatRepo) *AdminHandler {
	if v == nil || f == nil || a == nil || s == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Venues: v, Floors: f, Areas: a, Seats: s}
}

// CreateVenue handles POST /api/admin/venue/venues.
func (h *AdminHandler) CreateVenue(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	v := &model.Venue{
		Name:    name,
		Address: strings.TrimSpace(body.Address),
		Status:  model.HierarchyEnabled,
	}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create venue"})
	}
	return c.JSON(http.StatusCreated, v)
}

// ListVenues handles GET /api/admin/venue/venues.
func (h *AdminHandler) ListVenues(c echo.Context) error {
	items, err := h.Venues.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetVenue handles GET /api/admin/venue/venues/:id.
func (h *AdminHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, v)
}

// UpdateVenue handles PUT /api/admin/venue/venues/:id.
func (h *AdminHandler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Status  *int   `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		v.Name = name
	}
	if addr := strings.TrimSpace(body.Address); addr != "" {
		v.Address = addr
	}
	if body.Status != nil {
		v.Status = *body.Status
	}
	if err := h.Venues.Update(c.Request().Context(), v); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue handles DELETE /api/admin/venue/venues/:id. A venue that
// still has floors cannot be deleted.
func (h *AdminHandler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrVenueNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue still has floors"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
