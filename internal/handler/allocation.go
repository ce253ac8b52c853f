package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskhub/seatdesk/internal/allocation"
	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/queue"
	"github.com/deskhub/seatdesk/internal/service"
)

// AllocationHandler exposes the engine's occupancy transitions over HTTP.
// Every successful transition also publishes a seat.allocation event;
// publishing happens after commit and failures there are swallowed, the
// audit trail in MySQL remains the source of truth.
type AllocationHandler struct {
	Engine *allocation.Engine
}

func NewAllocationHandler(engine *allocation.Engine) *AllocationHandler {
	if engine == nil {
		panic("nil engine passed to NewAllocationHandler")
	}
	return &AllocationHandler{Engine: engine}
}

type bindReq struct {
	SeatID     uint64 `json:"seat_id"`
	EmployeeID string `json:"employee_id"`
}

type transferReq struct {
	OldSeatID  uint64 `json:"old_seat_id"`
	NewSeatID  uint64 `json:"new_seat_id"`
	EmployeeID string `json:"employee_id"`
}

// Bind handles POST /api/admin/seats/bind.
func (h *AllocationHandler) Bind(c echo.Context) error {
	var req bindReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.SeatID == 0 || req.EmployeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id and employee_id are required"})
	}
	actor := actorFrom(c)
	seat, err := h.Engine.BindPrimary(c.Request().Context(), req.SeatID, req.EmployeeID, actor)
	if err != nil {
		return respondAllocError(c, err)
	}
	publishAllocation(seat, model.OperationBindPrimary, actor)
	return c.JSON(http.StatusOK, seat)
}

// BindSecondary handles POST /api/admin/seats/extra-bind.
func (h *AllocationHandler) BindSecondary(c echo.Context) error {
	var req bindReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.SeatID == 0 || req.EmployeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id and employee_id are required"})
	}
	actor := actorFrom(c)
	seat, err := h.Engine.BindSecondary(c.Request().Context(), req.SeatID, req.EmployeeID, actor)
	if err != nil {
		return respondAllocError(c, err)
	}
	publishAllocation(seat, model.OperationBindSecondary, actor)
	return c.JSON(http.StatusOK, seat)
}

// Unbind handles POST /api/admin/seats/unbind.
func (h *AllocationHandler) Unbind(c echo.Context) error {
	var req struct {
		SeatID uint64 `json:"seat_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}
	actor := actorFrom(c)
	seat, err := h.Engine.Unbind(c.Request().Context(), req.SeatID, actor)
	if err != nil {
		return respondAllocError(c, err)
	}
	publishAllocation(seat, model.OperationUnbind, actor)
	return c.JSON(http.StatusOK, seat)
}

// Transfer handles POST /api/admin/seats/transfer.
func (h *AllocationHandler) Transfer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.OldSeatID == 0 || req.NewSeatID == 0 || req.EmployeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_seat_id, new_seat_id and employee_id are required"})
	}
	actor := actorFrom(c)
	seat, err := h.Engine.Transfer(c.Request().Context(), req.OldSeatID, req.NewSeatID, req.EmployeeID, actor)
	if err != nil {
		return respondAllocError(c, err)
	}
	publishAllocation(seat, model.OperationTransfer, actor)
	return c.JSON(http.StatusOK, seat)
}

// publishAllocation fires the post-commit event in the background so broker
// latency never extends the request.
func publishAllocation(seat *model.Seat, op int, actor allocation.Actor) {
	ev := queue.SeatAllocationEvent{
		OperationType: op,
		Operation:     model.OperationName(op),
		SeatID:        seat.ID,
		SeatNo:        seat.SeatNo,
		AreaID:        seat.AreaID,
		OperatorID:    actor.ID,
		OperatorName:  actor.Name,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if seat.OccupantID != nil {
		ev.EmployeeID = *seat.OccupantID
	}
	if seat.OccupantName != nil {
		ev.EmployeeName = *seat.OccupantName
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishSeatAllocation(ctx, ev)
	}()
}
