package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/deskhub/seatdesk/internal/model"
)

// ErrLogNotFound is returned when a log lookup yields no rows.
var ErrLogNotFound = errors.New("log entry not found")

// SeatLogRepo provides access to the append-only seat_logs table.  Rows
// are inserted exactly once by the allocation engine (through InsertTx)
// and never updated or deleted; everything else here is read-side.
type SeatLogRepo struct {
	db *sql.DB
}

// NewSeatLogRepo returns a new SeatLogRepo bound to the given database.
func NewSeatLogRepo(db *sql.DB) *SeatLogRepo { return &SeatLogRepo{db: db} }

const seatLogColumns = `id, seat_id, seat_no, operation_type, old_user_id, old_user_name,
	new_user_id, new_user_name, operator_id, operator_name, operation_time, operation_ip, remark, extra`

func scanSeatLog(row interface{ Scan(...any) error }) (*model.SeatLog, error) {
	var l model.SeatLog
	var oldID, oldName, newID, newName, ip, remark, extra sql.NullString
	if err := row.Scan(&l.ID, &l.SeatID, &l.SeatNo, &l.OperationType,
		&oldID, &oldName, &newID, &newName,
		&l.OperatorID, &l.OperatorName, &l.OperationTime, &ip, &remark, &extra); err != nil {
		return nil, err
	}
	if oldID.Valid {
		l.OldUserID = &oldID.String
	}
	if oldName.Valid {
		l.OldUserName = &oldName.String
	}
	if newID.Valid {
		l.NewUserID = &newID.String
	}
	if newName.Valid {
		l.NewUserName = &newName.String
	}
	l.OperationIP = ip.String
	l.Remark = remark.String
	if extra.Valid {
		l.Extra = &extra.String
	}
	return &l, nil
}

// InsertTx appends one audit row within the provided transaction.  The
// generated id is populated on the entry.
func (r *SeatLogRepo) InsertTx(ctx context.Context, tx *sql.Tx, l *model.SeatLog) error {
	const q = `INSERT INTO seat_logs
	           (seat_id, seat_no, operation_type, old_user_id, old_user_name,
	            new_user_id, new_user_name, operator_id, operator_name, operation_time,
	            operation_ip, remark, extra)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, l.SeatID, l.SeatNo, l.OperationType,
		l.OldUserID, l.OldUserName, l.NewUserID, l.NewUserName,
		l.OperatorID, l.OperatorName, l.OperationTime.UTC(), l.OperationIP, l.Remark, l.Extra)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a single log entry.
func (r *SeatLogRepo) GetByID(ctx context.Context, id uint64) (*model.SeatLog, error) {
	const q = `SELECT ` + seatLogColumns + ` FROM seat_logs WHERE id = ?`
	l, err := scanSeatLog(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLogNotFound
	}
	return l, err
}

// LogFilter narrows List.  Zero values mean "no filter".  UserID matches
// either side of the transition (old or new occupant).
type LogFilter struct {
	SeatNo        string
	OperationType int
	OperatorID    string
	UserID        string
	Start         time.Time
	End           time.Time
	Page          int
	PageSize      int
}

func (f *LogFilter) where() (string, []any) {
	q := ` WHERE 1=1`
	var args []any
	if f.SeatNo != "" {
		q += ` AND seat_no = ?`
		args = append(args, f.SeatNo)
	}
	if f.OperationType != 0 {
		q += ` AND operation_type = ?`
		args = append(args, f.OperationType)
	}
	if f.OperatorID != "" {
		q += ` AND operator_id = ?`
		args = append(args, f.OperatorID)
	}
	if f.UserID != "" {
		q += ` AND (old_user_id = ? OR new_user_id = ?)`
		args = append(args, f.UserID, f.UserID)
	}
	if !f.Start.IsZero() {
		q += ` AND operation_time >= ?`
		args = append(args, f.Start.UTC())
	}
	if !f.End.IsZero() {
		q += ` AND operation_time <= ?`
		args = append(args, f.End.UTC())
	}
	return q, args
}

// List returns one page of log entries matching the filter, newest first,
// along with the total match count for pagination.
func (r *SeatLogRepo) List(ctx context.Context, f LogFilter) ([]model.SeatLog, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 10
	}
	where, args := f.where()

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seat_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + seatLogColumns + ` FROM seat_logs` + where + ` ORDER BY operation_time DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := make([]model.SeatLog, 0, f.PageSize)
	for rows.Next() {
		l, err := scanSeatLog(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *l)
	}
	return result, total, rows.Err()
}

// OperationCount is one row of the per-operation statistics.
type OperationCount struct {
	OperationType int    `json:"operation_type"`
	Operation     string `json:"operation"`
	Count         int    `json:"count"`
}

// Statistics aggregates log rows per operation kind within the optional
// time window.  Zero times mean an open-ended window.
func (r *SeatLogRepo) Statistics(ctx context.Context, start, end time.Time) (int, []OperationCount, error) {
	q := `SELECT operation_type, COUNT(*) FROM seat_logs WHERE 1=1`
	var args []any
	if !start.IsZero() {
		q += ` AND operation_time >= ?`
		args = append(args, start.UTC())
	}
	if !end.IsZero() {
		q += ` AND operation_time <= ?`
		args = append(args, end.UTC())
	}
	q += ` GROUP BY operation_type ORDER BY operation_type`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()
	total := 0
	counts := make([]OperationCount, 0, 4)
	for rows.Next() {
		var c OperationCount
		if err := rows.Scan(&c.OperationType, &c.Count); err != nil {
			return 0, nil, err
		}
		c.Operation = model.OperationName(c.OperationType)
		total += c.Count
		counts = append(counts, c)
	}
	return total, counts, rows.Err()
}
