package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/deskhub/seatdesk/internal/model"
)

// ErrFloorNotFound is returned when a floor lookup yields no rows.
var ErrFloorNotFound = errors.New("floor not found")

// FloorRepo provides CRUD access to the floors table.  Floor numbers are
// unique within a venue.
type FloorRepo struct {
	db *sql.DB
}

// NewFloorRepo returns a new FloorRepo bound to the given database.
func NewFloorRepo(db *sql.DB) *FloorRepo { return &FloorRepo{db: db} }

const floorColumns = `id, venue_id, floor_no, floor_name, image_url, sort_order, status, created_at, updated_at`

func scanFloor(row interface{ Scan(...any) error }) (*model.Floor, error) {
	var f model.Floor
	var imageURL sql.NullString
	if err := row.Scan(&f.ID, &f.VenueID, &f.FloorNo, &f.FloorName, &imageURL,
		&f.SortOrder, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	f.ImageURL = imageURL.String
	return &f, nil
}

// Create inserts a floor.  On success the floor's ID is populated.
func (r *FloorRepo) Create(ctx context.Context, f *model.Floor) error {
	const q = `INSERT INTO floors (venue_id, floor_no, floor_name, image_url, sort_order, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.VenueID, f.FloorNo, f.FloorName, f.ImageURL, f.SortOrder, f.Status)
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
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a floor by id.
func (r *FloorRepo) GetByID(ctx context.Context, id uint64) (*model.Floor, error) {
	const q = `SELECT ` + floorColumns + ` FROM floors WHERE id = ?`
	f, err := scanFloor(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFloorNotFound
	}
	return f, err
}

// ListByVenue returns all floors of a venue ordered by sort_order then id.
func (r *FloorRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Floor, error) {
	const q = `SELECT ` + floorColumns + ` FROM floors WHERE venue_id = ? ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Floor, 0)
	for rows.Next() {
		f, err := scanFloor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *f)
	}
	return result, rows.Err()
}

// Update overwrites the mutable floor attributes.  Returns ErrDuplicate on
// a floor_no collision within the venue.
func (r *FloorRepo) Update(ctx context.Context, f *model.Floor) error {
	const q = `UPDATE floors SET floor_no = ?, floor_name = ?, image_url = ?, sort_order = ?, status = ?,
	           updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, f.FloorNo, f.FloorName, f.ImageURL, f.SortOrder, f.Status, f.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, f.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a floor.  Deletion is blocked with ErrConflict while any
// area still references the floor.
func (r *FloorRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM areas WHERE floor_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM floors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFloorNotFound
	}
	return nil
}
