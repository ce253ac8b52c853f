package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/deskhub/seatdesk/internal/model"
)

// ErrEmployeeNotFound is returned when an employee lookup yields no rows.
var ErrEmployeeNotFound = errors.New("employee not found")

// EmployeeRepo provides data access to the employees table.  The table is
// owned by the directory sync collaborator: rows are created and updated by
// sync batches and webhook events, never deleted.  The allocation engine
// only reads from it.
type EmployeeRepo struct {
	db *sql.DB
}

// NewEmployeeRepo returns a new EmployeeRepo bound to the provided database.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{db: db} }

const employeeColumns = `id, name, dept_id, dept_name, position, phone, email, status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*model.Employee, error) {
	var e model.Employee
	var phone, email sql.NullString
	if err := row.Scan(&e.ID, &e.Name, &e.DeptID, &e.DeptName, &e.Position,
		&phone, &email, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Phone = phone.String
	e.Email = email.String
	return &e, nil
}

// GetByID fetches one employee by their HR id.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	const q = `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	e, err := scanEmployee(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	return e, err
}

// Upsert inserts the employee or, when the HR id already exists, overwrites
// the directory attributes.  Used by both full sync batches and single
// webhook events.
func (r *EmployeeRepo) Upsert(ctx context.Context, e *model.Employee) error {
	const q = `INSERT INTO employees (id, name, dept_id, dept_name, position, phone, email, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             name = VALUES(name), dept_id = VALUES(dept_id), dept_name = VALUES(dept_name),
	             position = VALUES(position), phone = VALUES(phone), email = VALUES(email),
	             status = VALUES(status), updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.Name, e.DeptID, e.DeptName, e.Position, e.Phone, e.Email, e.Status)
	return err
}

// List returns employees filtered by optional department and status.  A
// nil status pointer means no status filter.  Results are ordered by id for
// stable pagination on the client.
func (r *EmployeeRepo) List(ctx context.Context, deptID string, status *int, limit, offset int) ([]model.Employee, error) {
	q := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := make([]any, 0, 4)
	if deptID != "" {
		q += ` AND dept_id = ?`
		args = append(args, deptID)
	}
	if status != nil {
		q += ` AND status = ?`
		args = append(args, *status)
	}
	q += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

// Search finds active employees whose id, name or department name contains
// the query string.  At most limit rows are returned.
func (r *EmployeeRepo) Search(ctx context.Context, query string, limit int) ([]model.Employee, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	const q = `SELECT ` + employeeColumns + ` FROM employees
	           WHERE status = ? AND (id LIKE ? OR name LIKE ? OR dept_name LIKE ?)
	           ORDER BY id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, model.EmployeeActive, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}
