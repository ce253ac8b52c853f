package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskhub/seatdesk/internal/model"
)

// ErrAreaNotFound is returned when an area lookup yields no rows.
var ErrAreaNotFound = errors.New("area not found")

// AreaRepo provides CRUD access to the areas table.  Area numbers are
// unique within a floor.  The seat_count column is a cache maintained by
// the provisioner, not by this repository.
type AreaRepo struct {
	db *sql.DB
}

// NewAreaRepo returns a new AreaRepo bound to the given database.
func NewAreaRepo(db *sql.DB) *AreaRepo { return &AreaRepo{db: db} }

const areaColumns = `id, floor_id, area_no, area_name, area_type, allowed_depts, seat_count, position_css, status, created_at, updated_at`

func scanArea(row interface{ Scan(...any) error }) (*model.Area, error) {
	var a model.Area
	if err := row.Scan(&a.ID, &a.FloorID, &a.AreaNo, &a.AreaName, &a.AreaType,
		&a.AllowedDepts, &a.SeatCount, &a.PositionCSS, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an area.  On success the area's ID is populated.
func (r *AreaRepo) Create(ctx context.Context, a *model.Area) error {
	const q = `INSERT INTO areas (floor_id, area_no, area_name, area_type, allowed_depts, seat_count, position_css, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.FloorID, a.AreaNo, a.AreaName, a.AreaType,
		a.AllowedDepts, a.SeatCount, a.PositionCSS, a.Status)
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
	a.ID = uint64(id)
	return nil
}

// GetByID fetches an area by id.
func (r *AreaRepo) GetByID(ctx context.Context, id uint64) (*model.Area, error) {
	const q = `SELECT ` + areaColumns + ` FROM areas WHERE id = ?`
	a, err := scanArea(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAreaNotFound
	}
	return a, err
}

// ListByFloor returns all areas of a floor ordered by area_no.
func (r *AreaRepo) ListByFloor(ctx context.Context, floorID uint64) ([]model.Area, error) {
	const q = `SELECT ` + areaColumns + ` FROM areas WHERE floor_id = ? ORDER BY area_no`
	rows, err := r.db.QueryContext(ctx, q, floorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Area, 0)
	for rows.Next() {
		a, err := scanArea(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// Update overwrites the mutable area attributes.  Returns ErrDuplicate on
// an area_no collision within the floor.
func (r *AreaRepo) Update(ctx context.Context, a *model.Area) error {
	const q = `UPDATE areas SET area_no = ?, area_name = ?, area_type = ?, allowed_depts = ?,
	           position_css = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.AreaNo, a.AreaName, a.AreaType, a.AllowedDepts,
		a.PositionCSS, a.Status, a.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an area.  Deletion is blocked with ErrConflict while any
// seat still belongs to the area.
func (r *AreaRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE area_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM areas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAreaNotFound
	}
	return nil
}
