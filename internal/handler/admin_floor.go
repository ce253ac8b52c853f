package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/repository"
)

// CreateFloor handles POST /api/admin/floor/floors.
func (h *AdminHandler) CreateFloor(c echo.Context) error {
	var body struct {
		VenueID   uint64 `json:"venue_id"`
		FloorNo   string `json:"floor_no"`
		FloorName string `json:"floor_name"`
		ImageURL  string `json:"image_url"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	floorNo := strings.TrimSpace(body.FloorNo)
	if body.VenueID == 0 || floorNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id and floor_no are required"})
	}
	if _, err := h.Venues.GetByID(c.Request().Context(), body.VenueID); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	f := &model.Floor{
		VenueID:   body.VenueID,
		FloorNo:   floorNo,
		FloorName: strings.TrimSpace(body.FloorName),
		ImageURL:  strings.TrimSpace(body.ImageURL),
		SortOrder: body.SortOrder,
		Status:    model.HierarchyEnabled,
	}
	if err := h.Floors.Create(c.Request().Context(), f); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "floor_no already exists in this venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create floor"})
	}
	return c.JSON(http.StatusCreated, f)
}

// ListFloors handles GET /api/admin/floor/floors?venue_id=.
func (h *AdminHandler) ListFloors(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.QueryParam("venue_id"), 10, 64)
	if err != nil || venueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue_id"})
	}
	items, err := h.Floors.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFloor handles GET /api/admin/floor/floors/:id.
func (h *AdminHandler) GetFloor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Floors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFloorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

// UpdateFloor handles PUT /api/admin/floor/floors/:id.
func (h *AdminHandler) UpdateFloor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		FloorNo   string `json:"floor_no"`
		FloorName string `json:"floor_name"`
		ImageURL  string `json:"image_url"`
		SortOrder *int   `json:"sort_order"`
		Status    *int   `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f, err := h.Floors.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFloorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if v := strings.TrimSpace(body.FloorNo); v != "" {
		f.FloorNo = v
	}
	if v := strings.TrimSpace(body.FloorName); v != "" {
		f.FloorName = v
	}
	if v := strings.TrimSpace(body.ImageURL); v != "" {
		f.ImageURL = v
	}
	if body.SortOrder != nil {
		f.SortOrder = *body.SortOrder
	}
	if body.Status != nil {
		f.Status = *body.Status
	}
	if err := h.Floors.Update(c.Request().Context(), f); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "floor_no already exists in this venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFloor handles DELETE /api/admin/floor/floors/:id. A floor with
// areas on it cannot be deleted.
func (h *AdminHandler) DeleteFloor(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Floors.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrFloorNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "floor still has areas"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
