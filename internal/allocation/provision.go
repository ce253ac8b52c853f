package allocation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/deskhub/seatdesk/internal/model"
)

// seatAspectRatio is the assumed width:height ratio of a rendered seat.
// The grid planner biases toward more columns than rows so the resulting
// block is visually near-square on a floor plan.
const seatAspectRatio = 1.5

// GridSlot is the planned placement of one seat: its 1-based grid cell and
// its normalized position, centered within the cell.
type GridSlot struct {
	Row int     // 1-based row
	Col int     // 1-based column
	X   float64 // (col-0.5)/cols, in (0,1)
	Y   float64 // (row-0.5)/rows, in (0,1)
}

// PlanGrid computes a deterministic near-square layout for count seats.
// cols = ceil(sqrt(count*1.5)), rows = ceil(count/cols); seat i fills the
// grid left to right, top to bottom.  count must be positive.
func PlanGrid(count int) (rows, cols int, slots []GridSlot) {
	if count <= 0 {
		return 0, 0, nil
	}
	cols = int(math.Ceil(math.Sqrt(float64(count) * seatAspectRatio)))
	rows = int(math.Ceil(float64(count) / float64(cols)))
	slots = make([]GridSlot, count)
	for i := 0; i < count; i++ {
		row := i/cols + 1
		col := i%cols + 1
		slots[i] = GridSlot{
			Row: row,
			Col: col,
			X:   (float64(col) - 0.5) / float64(cols),
			Y:   (float64(row) - 0.5) / float64(rows),
		}
	}
	return rows, cols, slots
}

// Provisioner bulk-creates the seat grid for an area.  Provisioning is a
// one-time batch producer feeding the seat store; it shares the engine's
// transactional store so a seat-number collision rolls the whole grid back
// with no partial insert.
type Provisioner struct {
	store Store
}

// NewProvisioner constructs a Provisioner over the given store.
func NewProvisioner(store Store) *Provisioner {
	if store == nil {
		panic("nil store passed to NewProvisioner")
	}
	return &Provisioner{store: store}
}

// Provision generates count idle seats for the area, numbered
// "{area_no}-{i+1}", arranged per PlanGrid, and updates the area's cached
// seat count.  The whole call is atomic: a duplicate seat number fails with
// ConstraintViolation and leaves nothing behind.  Returns the number of
// seats created.
func (p *Provisioner) Provision(ctx context.Context, areaID uint64, count int) (int, error) {
	if count <= 0 {
		return 0, failf(KindConstraintViolation, "seat count must be positive, got %d", count)
	}
	tx, err := p.store.Begin(ctx)
	if err != nil {
		return 0, failf(KindStoreUnavailable, "begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	area, err := tx.Area(ctx, areaID)
	if err != nil {
		if errors.Is(err, ErrAreaMissing) {
			return 0, failf(KindNotFound, "area %d not found", areaID)
		}
		return 0, failf(KindStoreUnavailable, "load area %d: %v", areaID, err)
	}

	_, _, slots := PlanGrid(count)
	seats := make([]model.Seat, count)
	for i, slot := range slots {
		seats[i] = model.Seat{
			AreaID:   areaID,
			SeatNo:   fmt.Sprintf("%s-%d", area.AreaNo, i+1),
			Status:   model.SeatStatusIdle,
			GridRow:  slot.Row,
			GridCol:  slot.Col,
			PosX:     slot.X,
			PosY:     slot.Y,
			BindType: model.BindTypeNone,
		}
	}
	if err := tx.InsertSeats(ctx, seats); err != nil {
		if errors.Is(err, ErrDuplicateSeatNo) {
			return 0, failf(KindConstraintViolation, "area %s already contains seats with conflicting numbers", area.AreaNo)
		}
		return 0, failf(KindStoreUnavailable, "insert seats for area %s: %v", area.AreaNo, err)
	}
	if err := tx.SetAreaSeatCount(ctx, areaID, count); err != nil {
		return 0, failf(KindStoreUnavailable, "update seat count of area %s: %v", area.AreaNo, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, failf(KindStoreUnavailable, "commit: %v", err)
	}
	committed = true
	return count, nil
}
