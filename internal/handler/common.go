// Package handler defines the HTTP handlers of the seat service.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/allocation"
)

// actorFrom builds the audit actor for the current request from the JWT
// claims stored in context by the auth middleware. The client IP goes onto
// every audit row.
func actorFrom(c echo.Context) allocation.Actor {
	a := allocation.Actor{IP: c.RealIP()}
	if v, ok := c.Get("username").(string); ok {
		a.ID = v
	}
	if v, ok := c.Get("display_name").(string); ok {
		a.Name = v
	}
	if a.ID == "" {
		a.ID = "unknown"
	}
	if a.Name == "" {
		a.Name = a.ID
	}
	return a
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// allocStatus maps an allocation failure kind to an HTTP status code.
// Precondition failures on current seat state are conflicts; eligibility is
// a semantic rejection of the request entity; store trouble is retryable.
func allocStatus(kind allocation.Kind) int {
	switch kind {
	case allocation.KindNotFound:
		return http.StatusNotFound
	case allocation.KindSeatNotAvailable,
		allocation.KindSeatNotOccupied,
		allocation.KindOwnershipMismatch,
		allocation.KindConstraintViolation:
		return http.StatusConflict
	case allocation.KindEmployeeNotEligible:
		return http.StatusUnprocessableEntity
	case allocation.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondAllocError renders an engine error as JSON. Non-engine errors fall
// through as a generic 500 without leaking internals.
func respondAllocError(c echo.Context, err error) error {
	if kind, ok := allocation.KindOf(err); ok {
		return c.JSON(allocStatus(kind), echo.Map{
			"error": err.Error(),
			"kind":  string(kind),
		})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
