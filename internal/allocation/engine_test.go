package allocation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/seatdesk/internal/model"
)

var testActor = Actor{ID: "admin", Name: "Admin One", IP: "10.0.0.1"}

func newBindFixture(t *testing.T) (*memStore, *Engine) {
	t.Helper()
	store := newMemStore()
	store.addArea(1, "A1")
	store.addSeat(1, 1, "A1-1")
	store.addSeat(2, 1, "A1-2")
	store.addEmployee("E100", "Dana", "D1", model.EmployeeActive)
	return store, NewEngine(store)
}

func TestBindPrimaryAssignsIdleSeat(t *testing.T) {
	store, eng := newBindFixture(t)

	seat, err := eng.BindPrimary(context.Background(), 1, "E100", testActor)
	require.NoError(t, err)

	assert.Equal(t, model.SeatStatusOccupied, seat.Status)
	require.NotNil(t, seat.OccupantID)
	assert.Equal(t, "E100", *seat.OccupantID)
	require.NotNil(t, seat.OccupantName)
	assert.Equal(t, "Dana", *seat.OccupantName)
	assert.Equal(t, model.BindTypePrimary, seat.BindType)

	// Committed state matches the returned snapshot.
	got := store.seat(1)
	assert.Equal(t, model.SeatStatusOccupied, got.Status)
	require.NotNil(t, got.OccupantID)
	assert.Equal(t, "E100", *got.OccupantID)

	logs := store.allLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.OperationBindPrimary, logs[0].OperationType)
	assert.Equal(t, uint64(1), logs[0].SeatID)
	assert.Equal(t, "A1-1", logs[0].SeatNo)
	assert.Nil(t, logs[0].OldUserID)
	require.NotNil(t, logs[0].NewUserID)
	assert.Equal(t, "E100", *logs[0].NewUserID)
	assert.Equal(t, "admin", logs[0].OperatorID)
	assert.Equal(t, "10.0.0.1", logs[0].OperationIP)
}

func TestBindSecondaryUsesDistinctOperation(t *testing.T) {
	store, eng := newBindFixture(t)

	_, err := eng.BindPrimary(context.Background(), 1, "E100", testActor)
	require.NoError(t, err)
	seat, err := eng.BindSecondary(context.Background(), 2, "E100", testActor)
	require.NoError(t, err)

	assert.Equal(t, model.BindTypeSecondary, seat.BindType)
	logs := store.allLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, model.OperationBindSecondary, logs[1].OperationType)
}

func TestBindFailsWhenSeatNotIdle(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addEmployee("E200", "Noor", "D2", model.EmployeeActive)

	_, err := eng.BindPrimary(context.Background(), 1, "E100", testActor)
	require.NoError(t, err)

	_, err = eng.BindPrimary(context.Background(), 1, "E200", testActor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatNotAvailable)

	// Loser left no trace: occupant unchanged, single audit row.
	got := store.seat(1)
	require.NotNil(t, got.OccupantID)
	assert.Equal(t, "E100", *got.OccupantID)
	assert.Equal(t, 1, store.logCount())
}

func TestBindFailsForInactiveEmployee(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addEmployee("E300", "Gone", "D1", model.EmployeeInactive)

	_, err := eng.BindPrimary(context.Background(), 1, "E300", testActor)
	assert.ErrorIs(t, err, ErrEmployeeNotEligible)

	assert.Equal(t, model.SeatStatusIdle, store.seat(1).Status)
	assert.Equal(t, 0, store.logCount())
}

func TestBindFailsForUnknownEmployee(t *testing.T) {
	store, eng := newBindFixture(t)

	_, err := eng.BindPrimary(context.Background(), 1, "E999", testActor)
	assert.ErrorIs(t, err, ErrEmployeeNotEligible)
	assert.Equal(t, 0, store.logCount())
}

func TestBindFailsForUnknownSeat(t *testing.T) {
	store, eng := newBindFixture(t)

	_, err := eng.BindPrimary(context.Background(), 42, "E100", testActor)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.logCount())
}

func TestBindFailsOnMaintenanceSeat(t *testing.T) {
	store, eng := newBindFixture(t)
	s := store.seats[2]
	s.Status = model.SeatStatusMaintenance
	store.seats[2] = s

	_, err := eng.BindPrimary(context.Background(), 2, "E100", testActor)
	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	assert.Equal(t, 0, store.logCount())
}

func TestUnbindClearsOccupant(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)

	seat, err := eng.Unbind(context.Background(), 3, testActor)
	require.NoError(t, err)

	assert.Equal(t, model.SeatStatusIdle, seat.Status)
	assert.Nil(t, seat.OccupantID)
	assert.Nil(t, seat.OccupantName)
	assert.Equal(t, model.BindTypeNone, seat.BindType)

	logs := store.allLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.OperationUnbind, logs[0].OperationType)
	require.NotNil(t, logs[0].OldUserID)
	assert.Equal(t, "E100", *logs[0].OldUserID)
	assert.Nil(t, logs[0].NewUserID)
}

func TestUnbindFailsOnIdleSeatWithoutAuditRow(t *testing.T) {
	store, eng := newBindFixture(t)

	_, err := eng.Unbind(context.Background(), 1, testActor)
	assert.ErrorIs(t, err, ErrSeatNotOccupied)
	assert.Equal(t, 0, store.logCount())
}

func TestTransferMovesOccupantAtomically(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)

	seat, err := eng.Transfer(context.Background(), 3, 2, "E100", testActor)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), seat.ID)
	assert.Equal(t, model.SeatStatusOccupied, seat.Status)
	require.NotNil(t, seat.OccupantID)
	assert.Equal(t, "E100", *seat.OccupantID)

	old := store.seat(3)
	assert.Equal(t, model.SeatStatusIdle, old.Status)
	assert.Nil(t, old.OccupantID)

	// One audit row, keyed on the destination, with the source recorded in
	// the extra payload.
	logs := store.allLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, model.OperationTransfer, logs[0].OperationType)
	assert.Equal(t, uint64(2), logs[0].SeatID)
	require.NotNil(t, logs[0].Extra)
	var extra struct {
		OldSeatID uint64 `json:"old_seat_id"`
		OldSeatNo string `json:"old_seat_no"`
	}
	require.NoError(t, json.Unmarshal([]byte(*logs[0].Extra), &extra))
	assert.Equal(t, uint64(3), extra.OldSeatID)
	assert.Equal(t, "A1-3", extra.OldSeatNo)
}

func TestTransferFailsOnOwnershipMismatch(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addEmployee("E200", "Noor", "D2", model.EmployeeActive)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)

	_, err := eng.Transfer(context.Background(), 3, 2, "E200", testActor)
	assert.ErrorIs(t, err, ErrOwnershipMismatch)

	// Nothing moved, nothing logged.
	old := store.seat(3)
	require.NotNil(t, old.OccupantID)
	assert.Equal(t, "E100", *old.OccupantID)
	assert.Equal(t, model.SeatStatusIdle, store.seat(2).Status)
	assert.Equal(t, 0, store.logCount())
}

func TestTransferFailsWhenTargetNotIdle(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addEmployee("E200", "Noor", "D2", model.EmployeeActive)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)
	store.addOccupiedSeat(4, 1, "A1-4", "E200", "Noor", model.BindTypePrimary)

	_, err := eng.Transfer(context.Background(), 3, 4, "E100", testActor)
	assert.ErrorIs(t, err, ErrSeatNotAvailable)

	// Source stays bound after the failed move.
	old := store.seat(3)
	assert.Equal(t, model.SeatStatusOccupied, old.Status)
	require.NotNil(t, old.OccupantID)
	assert.Equal(t, "E100", *old.OccupantID)
	assert.Equal(t, 0, store.logCount())
}

func TestTransferToSameSeatFails(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)

	_, err := eng.Transfer(context.Background(), 3, 3, "E100", testActor)
	assert.ErrorIs(t, err, ErrSeatNotAvailable)
	assert.Equal(t, 0, store.logCount())
}

func TestDeactivateEmployeeReleasesEverySeat(t *testing.T) {
	store, eng := newBindFixture(t)
	store.addOccupiedSeat(3, 1, "A1-3", "E100", "Dana", model.BindTypePrimary)
	store.addOccupiedSeat(4, 1, "A1-4", "E100", "Dana", model.BindTypeSecondary)

	released, err := eng.DeactivateEmployee(context.Background(), "E100")
	require.NoError(t, err)
	assert.Equal(t, 2, released)

	assert.Equal(t, model.SeatStatusIdle, store.seat(3).Status)
	assert.Equal(t, model.SeatStatusIdle, store.seat(4).Status)

	logs := store.allLogs()
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, model.OperationUnbind, l.OperationType)
		assert.Equal(t, "system", l.OperatorID)
		require.NotNil(t, l.OldUserID)
		assert.Equal(t, "E100", *l.OldUserID)
	}
}

func TestDeactivateEmployeeWithNoSeatsIsNoop(t *testing.T) {
	store, eng := newBindFixture(t)

	released, err := eng.DeactivateEmployee(context.Background(), "E100")
	require.NoError(t, err)
	assert.Equal(t, 0, released)
	assert.Equal(t, 0, store.logCount())
}

func TestConcurrentBindsProduceSingleWinner(t *testing.T) {
	store, eng := newBindFixture(t)
	const n = 16
	for i := 0; i < n; i++ {
		store.addEmployee(employeeID(i), "Emp", "D1", model.EmployeeActive)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.BindPrimary(context.Background(), 1, employeeID(i), testActor)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		default:
			assert.ErrorIs(t, err, ErrSeatNotAvailable)
			losers++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, n-1, losers)
	assert.Equal(t, 1, store.logCount())

	got := store.seat(1)
	assert.Equal(t, model.SeatStatusOccupied, got.Status)
	require.NotNil(t, got.OccupantID)
}

func employeeID(i int) string {
	return "C" + string(rune('A'+i))
}

func TestErrorKindMapping(t *testing.T) {
	kind, ok := KindOf(failf(KindSeatNotAvailable, "seat busy"))
	require.True(t, ok)
	assert.Equal(t, KindSeatNotAvailable, kind)

	_, ok = KindOf(context.Canceled)
	assert.False(t, ok)
}
