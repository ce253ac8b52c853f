package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/deskhub/seatdesk/internal/allocation"
)

func TestAllocStatusMapping(t *testing.T) {
	cases := map[allocation.Kind]int{
		allocation.KindNotFound:            http.StatusNotFound,
		allocation.KindSeatNotAvailable:    http.StatusConflict,
		allocation.KindSeatNotOccupied:     http.StatusConflict,
		allocation.KindOwnershipMismatch:   http.StatusConflict,
		allocation.KindConstraintViolation: http.StatusConflict,
		allocation.KindEmployeeNotEligible: http.StatusUnprocessableEntity,
		allocation.KindStoreUnavailable:    http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, allocStatus(kind), "kind %s", kind)
	}
	assert.Equal(t, http.StatusInternalServerError, allocStatus(allocation.Kind("bogus")))
}

func TestActorFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Real-Ip", "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("username", "ops")
	c.Set("display_name", "Ops Admin")

	a := actorFrom(c)
	assert.Equal(t, "ops", a.ID)
	assert.Equal(t, "Ops Admin", a.Name)
	assert.Equal(t, "203.0.113.9", a.IP)
}

func TestActorFromContextWithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	a := actorFrom(c)
	assert.Equal(t, "unknown", a.ID)
	assert.Equal(t, "unknown", a.Name)
}
