package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/repository"
)

func validAreaType(t int) bool {
	switch t {
	case model.AreaTypeDedicated, model.AreaTypeMixed, model.AreaTypeMeeting, model.AreaTypePublic:
		return true
	}
	return false
}

// CreateArea handles POST /api/admin/area/areas.
func (h *AdminHandler) CreateArea(c echo.Context) error {
	var body struct {
		FloorID      uint64 `json:"floor_id"`
		AreaNo       string `json:"area_no"`
		AreaName     string `json:"area_name"`
		AreaType     int    `json:"area_type"`
		AllowedDepts string `json:"allowed_depts"`
		PositionCSS  string `json:"position_css"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	areaNo := strings.TrimSpace(body.AreaNo)
	if body.FloorID == 0 || areaNo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "floor_id and area_no are required"})
	}
	if !validAreaType(body.AreaType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area_type"})
	}
	if _, err := h.Floors.GetByID(c.Request().Context(), body.FloorID); err != nil {
		if err == repository.ErrFloorNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "floor not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	a := &model.Area{
		FloorID:      body.FloorID,
		AreaNo:       areaNo,
		AreaName:     strings.TrimSpace(body.AreaName),
		AreaType:     body.AreaType,
		AllowedDepts: body.AllowedDepts,
		PositionCSS:  body.PositionCSS,
		Status:       model.HierarchyEnabled,
	}
	if err := h.Areas.Create(c.Request().Context(), a); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "area_no already exists on this floor"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create area"})
	}
	return c.JSON(http.StatusCreated, a)
}

// ListAreas handles GET /api/admin/area/areas?floor_id=.
func (h *AdminHandler) ListAreas(c echo.Context) error {
	floorID, err := strconv.ParseUint(c.QueryParam("floor_id"), 10, 64)
	if err != nil || floorID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor_id"})
	}
	items, err := h.Areas.ListByFloor(c.Request().Context(), floorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetArea handles GET /api/admin/area/areas/:id.
func (h *AdminHandler) GetArea(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	a, err := h.Areas.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateArea handles PUT /api/admin/area/areas/:id.
func (h *AdminHandler) UpdateArea(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		AreaNo       string  `json:"area_no"`
		AreaName     string  `json:"area_name"`
		AreaType     *int    `json:"area_type"`
		AllowedDepts *string `json:"allowed_depts"`
		PositionCSS  *string `json:"position_css"`
		Status       *int    `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Areas.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrAreaNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if v := strings.TrimSpace(body.AreaNo); v != "" {
		a.AreaNo = v
	}
	if v := strings.TrimSpace(body.AreaName); v != "" {
		a.AreaName = v
	}
	if body.AreaType != nil {
		if !validAreaType(*body.AreaType) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid area_type"})
		}
		a.AreaType = *body.AreaType
	}
	if body.AllowedDepts != nil {
		a.AllowedDepts = *body.AllowedDepts
	}
	if body.PositionCSS != nil {
		a.PositionCSS = *body.PositionCSS
	}
	if body.Status != nil {
		a.Status = *body.Status
	}
	if err := h.Areas.Update(c.Request().Context(), a); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "area_no already exists on this floor"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteArea handles DELETE /api/admin/area/areas/:id. An area that still
// contains seats cannot be deleted.
func (h *AdminHandler) DeleteArea(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Areas.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrAreaNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "area not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "area still has seats"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
