package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskhub/seatdesk/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides data access to the seats table.  Occupancy fields
// (status, occupant reference, bind type) are written exclusively through
// the Tx methods invoked by the allocation store; the plain methods here
// cover administrative reads and geometry edits, which are not
// concurrency-sensitive.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

const seatColumns = `id, area_id, seat_no, status, grid_row, grid_col, pos_x, pos_y,
	occupant_id, occupant_name, occupant_dept_id, bind_type, created_at, updated_at`

func scanSeat(row interface{ Scan(...any) error }) (*model.Seat, error) {
	var s model.Seat
	var occID, occName, occDept sql.NullString
	if err := row.Scan(&s.ID, &s.AreaID, &s.SeatNo, &s.Status, &s.GridRow, &s.GridCol,
		&s.PosX, &s.PosY, &occID, &occName, &occDept, &s.BindType, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if occID.Valid {
		s.OccupantID = &occID.String
	}
	if occName.Valid {
		s.OccupantName = &occName.String
	}
	if occDept.Valid {
		s.OccupantDeptID = &occDept.String
	}
	return &s, nil
}

// Create inserts a single manually placed seat.  A (area_id, seat_no)
// collision returns ErrDuplicate.
func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	const q = `INSERT INTO seats (area_id, seat_no, status, grid_row, grid_col, pos_x, pos_y, bind_type)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.AreaID, s.SeatNo, s.Status, s.GridRow, s.GridCol, s.PosX, s.PosY, s.BindType)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ?`
	s, err := scanSeat(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	return s, err
}

// SeatFilter narrows List to one level of the hierarchy.  At most one of
// the fields should be set; AreaID wins over FloorID wins over VenueID.
type SeatFilter struct {
	AreaID  uint64
	FloorID uint64
	VenueID uint64
}

// List returns seats matching the filter, ordered by area then seat_no.
func (r *SeatRepo) List(ctx context.Context, f SeatFilter) ([]model.Seat, error) {
	q := `SELECT ` + seatColumns + ` FROM seats`
	var args []any
	switch {
	case f.AreaID != 0:
		q += ` WHERE area_id = ?`
		args = append(args, f.AreaID)
	case f.FloorID != 0:
		q += ` WHERE area_id IN (SELECT id FROM areas WHERE floor_id = ?)`
		args = append(args, f.FloorID)
	case f.VenueID != 0:
		q += ` WHERE area_id IN (SELECT a.id FROM areas a JOIN floors fl ON fl.id = a.floor_id WHERE fl.venue_id = ?)`
		args = append(args, f.VenueID)
	}
	q += ` ORDER BY area_id, seat_no`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// ListByOccupant returns the seats currently bound to the employee.
func (r *SeatRepo) ListByOccupant(ctx context.Context, employeeID string) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE occupant_id = ? AND status = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, employeeID, model.SeatStatusOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// UpdateGeometry overwrites layout fields only: seat_no, grid cell,
// normalized position and administrative status.  It refuses to touch
// occupancy; flipping an occupied or idle state belongs to the engine.  A
// seat_no collision within the area returns ErrDuplicate.
func (r *SeatRepo) UpdateGeometry(ctx context.Context, s *model.Seat) error {
	const q = `UPDATE seats SET seat_no = ?, grid_row = ?, grid_col = ?, pos_x = ?, pos_y = ?,
	           updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.SeatNo, s.GridRow, s.GridCol, s.PosX, s.PosY, s.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// SetAdminStatus moves a seat between the administrative states (idle,
// maintenance, disabled).  It returns ErrConflict when the seat is
// currently occupied: the occupant must be unbound through the engine
// first so the transition lands in the audit trail.
func (r *SeatRepo) SetAdminStatus(ctx context.Context, id uint64, status int) error {
	if status == model.SeatStatusOccupied {
		return ErrConflict
	}
	const q = `UPDATE seats SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status <> ?`
	res, err := r.db.ExecContext(ctx, q, status, id, model.SeatStatusOccupied)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s.Occupied() {
			return ErrConflict
		}
	}
	return nil
}

// Delete removes a seat.  Deletion is blocked with ErrConflict while the
// seat is occupied or while any audit row references it, mirroring the
// referential rule that log history outlives administrative cleanup.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.Occupied() {
		return ErrConflict
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seat_logs WHERE seat_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM seats WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// GetForUpdateTx loads a seat and acquires an exclusive row lock that is
// held until the transaction ends.  The allocation store uses this to
// serialize concurrent occupancy transitions on the same seat.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ? FOR UPDATE`
	s, err := scanSeat(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	return s, err
}

// ListByOccupantForUpdateTx loads and locks every seat bound to the
// employee, ordered by ascending id so lock acquisition order stays fixed.
func (r *SeatRepo) ListByOccupantForUpdateTx(ctx context.Context, tx *sql.Tx, employeeID string) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE occupant_id = ? AND status = ? ORDER BY id FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, employeeID, model.SeatStatusOccupied)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// UpdateOccupancyTx persists the occupancy fields of a seat the caller has
// locked in this transaction.
func (r *SeatRepo) UpdateOccupancyTx(ctx context.Context, tx *sql.Tx, s *model.Seat) error {
	const q = `UPDATE seats SET status = ?, occupant_id = ?, occupant_name = ?, occupant_dept_id = ?,
	           bind_type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, s.Status, s.OccupantID, s.OccupantName, s.OccupantDeptID, s.BindType, s.ID)
	return err
}

// CreateBulkTx inserts multiple seats in a single statement within the
// provided transaction.  A (area_id, seat_no) collision returns
// ErrDuplicate; the caller rolls back so no partial grid remains.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (area_id, seat_no, status, grid_row, grid_col, pos_x, pos_y, bind_type) VALUES `
	args := make([]any, 0, len(seats)*8)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, s.AreaID, s.SeatNo, s.Status, s.GridRow, s.GridCol, s.PosX, s.PosY, s.BindType)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
