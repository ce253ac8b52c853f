package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskhub/seatdesk/internal/allocation"
	"github.com/deskhub/seatdesk/internal/model"
)

// AllocationStore is the MySQL implementation of allocation.Store.  Each
// engine operation maps onto one sql.Tx; seat reads take row locks via
// SELECT ... FOR UPDATE so concurrent transitions on the same seat
// serialize at the database.
type AllocationStore struct {
	db    *sql.DB
	seats *SeatRepo
	logs  *SeatLogRepo
}

// NewAllocationStore builds the store over the shared repositories.
func NewAllocationStore(db *sql.DB, seats *SeatRepo, logs *SeatLogRepo) *AllocationStore {
	if db == nil || seats == nil || logs == nil {
		panic("nil dependency passed to NewAllocationStore")
	}
	return &AllocationStore{db: db, seats: seats, logs: logs}
}

// Begin opens a transaction for one engine operation.
func (s *AllocationStore) Begin(ctx context.Context) (allocation.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &allocationTx{tx: tx, store: s}, nil
}

type allocationTx struct {
	tx    *sql.Tx
	store *AllocationStore
}

func (t *allocationTx) Commit() error   { return t.tx.Commit() }
func (t *allocationTx) Rollback() error { return t.tx.Rollback() }

func (t *allocationTx) SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error) {
	seat, err := t.store.seats.GetForUpdateTx(ctx, t.tx, seatID)
	if errors.Is(err, ErrSeatNotFound) {
		return nil, allocation.ErrSeatMissing
	}
	return seat, err
}

func (t *allocationTx) SeatsByOccupantForUpdate(ctx context.Context, employeeID string) ([]model.Seat, error) {
	return t.store.seats.ListByOccupantForUpdateTx(ctx, t.tx, employeeID)
}

func (t *allocationTx) Employee(ctx context.Context, employeeID string) (*model.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	e, err := scanEmployee(t.tx.QueryRowContext(ctx, q, employeeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, allocation.ErrEmployeeMissing
	}
	return e, err
}

func (t *allocationTx) UpdateSeatOccupancy(ctx context.Context, seat *model.Seat) error {
	return t.store.seats.UpdateOccupancyTx(ctx, t.tx, seat)
}

func (t *allocationTx) InsertLog(ctx context.Context, entry *model.SeatLog) error {
	return t.store.logs.InsertTx(ctx, t.tx, entry)
}

func (t *allocationTx) Area(ctx context.Context, areaID uint64) (*model.Area, error) {
	const q = `SELECT ` + areaColumns + ` FROM areas WHERE id = ?`
	a, err := scanArea(t.tx.QueryRowContext(ctx, q, areaID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, allocation.ErrAreaMissing
	}
	return a, err
}

func (t *allocationTx) InsertSeats(ctx context.Context, seats []model.Seat) error {
	err := t.store.seats.CreateBulkTx(ctx, t.tx, seats)
	if errors.Is(err, ErrDuplicate) {
		return allocation.ErrDuplicateSeatNo
	}
	return err
}

func (t *allocationTx) SetAreaSeatCount(ctx context.Context, areaID uint64, count int) error {
	const q = `UPDATE areas SET seat_count = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, count, areaID)
	return err
}
