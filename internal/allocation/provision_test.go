package allocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/seatdesk/internal/model"
)

func TestPlanGridNearSquareLayout(t *testing.T) {
	rows, cols, slots := PlanGrid(5)
	require.Equal(t, 3, cols)
	require.Equal(t, 2, rows)
	require.Len(t, slots, 5)

	// Third seat lands at (1,3), fourth wraps to (2,1).
	assert.Equal(t, 1, slots[2].Row)
	assert.Equal(t, 3, slots[2].Col)
	assert.InDelta(t, 0.8333, slots[2].X, 0.001)
	assert.InDelta(t, 0.25, slots[2].Y, 0.001)

	assert.Equal(t, 2, slots[3].Row)
	assert.Equal(t, 1, slots[3].Col)
	assert.InDelta(t, 0.1667, slots[3].X, 0.001)
	assert.InDelta(t, 0.75, slots[3].Y, 0.001)
}

func TestPlanGridSingleSeat(t *testing.T) {
	rows, cols, slots := PlanGrid(1)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 2, cols)
	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].Row)
	assert.Equal(t, 1, slots[0].Col)
	assert.InDelta(t, 0.25, slots[0].X, 0.001)
	assert.InDelta(t, 0.5, slots[0].Y, 0.001)
}

func TestPlanGridPositionsStayInUnitSquare(t *testing.T) {
	for _, count := range []int{1, 2, 7, 24, 100} {
		rows, cols, slots := PlanGrid(count)
		require.Len(t, slots, count)
		assert.GreaterOrEqual(t, rows*cols, count)
		for _, s := range slots {
			assert.Greater(t, s.X, 0.0)
			assert.Less(t, s.X, 1.0)
			assert.Greater(t, s.Y, 0.0)
			assert.Less(t, s.Y, 1.0)
		}
	}
}

func TestPlanGridRejectsNonPositiveCount(t *testing.T) {
	rows, cols, slots := PlanGrid(0)
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Nil(t, slots)
}

func TestProvisionCreatesNumberedGrid(t *testing.T) {
	store := newMemStore()
	store.addArea(7, "101")
	p := NewProvisioner(store)

	created, err := p.Provision(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.seats, 5)

	byNo := make(map[string]model.Seat, len(store.seats))
	for _, s := range store.seats {
		assert.Equal(t, uint64(7), s.AreaID)
		assert.Equal(t, model.SeatStatusIdle, s.Status)
		assert.Equal(t, model.BindTypeNone, s.BindType)
		byNo[s.SeatNo] = s
	}
	require.Contains(t, byNo, "101-1")
	require.Contains(t, byNo, "101-5")
	third := byNo["101-3"]
	assert.Equal(t, 1, third.GridRow)
	assert.Equal(t, 3, third.GridCol)

	assert.Equal(t, 5, store.areas[7].SeatCount)
}

func TestProvisionRollsBackOnSeatNumberCollision(t *testing.T) {
	store := newMemStore()
	store.addArea(7, "101")
	store.addSeat(1, 7, "101-3") // collides with the planned grid
	p := NewProvisioner(store)

	_, err := p.Provision(context.Background(), 7, 5)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	// No partial grid: only the pre-existing seat remains and the cached
	// count is untouched.
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.seats, 1)
	assert.Equal(t, 0, store.areas[7].SeatCount)
}

func TestProvisionUnknownArea(t *testing.T) {
	store := newMemStore()
	p := NewProvisioner(store)

	_, err := p.Provision(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProvisionRejectsNonPositiveCount(t *testing.T) {
	store := newMemStore()
	store.addArea(7, "101")
	p := NewProvisioner(store)

	_, err := p.Provision(context.Background(), 7, 0)
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = p.Provision(context.Background(), 7, -3)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}
