package allocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deskhub/seatdesk/internal/model"
)

// Actor identifies who requested an allocation operation.  It is recorded
// verbatim on every audit row.  SystemActor is used for transitions the
// service triggers itself, such as the cascading unbind when the directory
// reports a departure.
type Actor struct {
	ID   string // operator id (account username or "system")
	Name string // operator display name
	IP   string // client address, empty for internal calls
}

// SystemActor is the actor recorded on engine-initiated transitions.
var SystemActor = Actor{ID: "system", Name: "system"}

// Store opens transactions against the seat, directory and audit tables.
// The production implementation wraps *sql.DB with MySQL row locks; tests
// substitute an in-memory fake.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one transactional unit of work.  Seat reads acquire exclusive row
// locks (SELECT ... FOR UPDATE in the MySQL implementation) and hold them
// until Commit or Rollback.  Implementations must guarantee that a rolled
// back Tx leaves no trace: no seat mutation and no audit row.
type Tx interface {
	Commit() error
	Rollback() error

	// SeatForUpdate loads a seat and takes an exclusive lock on its row.
	// Returns ErrSeatMissing when the id does not resolve.
	SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error)
	// SeatsByOccupantForUpdate loads and locks every seat currently bound
	// to the employee, ordered by ascending seat id.
	SeatsByOccupantForUpdate(ctx context.Context, employeeID string) ([]model.Seat, error)
	// Employee reads a directory record (shared lock is sufficient).
	// Returns ErrEmployeeMissing when the id does not resolve.
	Employee(ctx context.Context, employeeID string) (*model.Employee, error)
	// UpdateSeatOccupancy persists the occupancy fields of a locked seat:
	// status, occupant reference and bind type.
	UpdateSeatOccupancy(ctx context.Context, seat *model.Seat) error
	// InsertLog appends one audit row.
	InsertLog(ctx context.Context, entry *model.SeatLog) error

	// Area resolves an area for provisioning.  Returns ErrAreaMissing when
	// the id does not resolve.
	Area(ctx context.Context, areaID uint64) (*model.Area, error)
	// InsertSeats bulk-inserts provisioned seats.  Returns
	// ErrDuplicateSeatNo when any (area_id, seat_no) pair already exists;
	// the surrounding transaction rolls back so no partial grid remains.
	InsertSeats(ctx context.Context, seats []model.Seat) error
	// SetAreaSeatCount updates the area's cached plan count.
	SetAreaSeatCount(ctx context.Context, areaID uint64, count int) error
}

// Engine serializes and validates all seat occupancy transitions.  Every
// operation opens one transaction, locks the affected seat rows (ascending
// id when more than one is involved), validates preconditions under the
// lock, mutates, appends exactly one audit row per transition and commits.
// Precondition failures after lock acquisition roll back the whole
// transaction, so a failed call never leaves partial state.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine constructs an Engine over the given store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// BindPrimary assigns an idle seat to an active employee as their main
// desk.  Fails with SeatNotAvailable when the seat is not idle and with
// EmployeeNotEligible when the employee is missing or inactive.
func (e *Engine) BindPrimary(ctx context.Context, seatID uint64, employeeID string, actor Actor) (*model.Seat, error) {
	return e.bind(ctx, seatID, employeeID, actor, model.BindTypePrimary)
}

// BindSecondary assigns an idle seat to an active employee as an
// additional desk.  Preconditions match BindPrimary; the audit row carries
// a distinct operation kind so the two policies stay distinguishable.
func (e *Engine) BindSecondary(ctx context.Context, seatID uint64, employeeID string, actor Actor) (*model.Seat, error) {
	return e.bind(ctx, seatID, employeeID, actor, model.BindTypeSecondary)
}

func (e *Engine) bind(ctx context.Context, seatID uint64, employeeID string, actor Actor, bindType int) (*model.Seat, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, failf(KindStoreUnavailable, "begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := tx.SeatForUpdate(ctx, seatID)
	if err != nil {
		return nil, mapSeatErr(err, seatID)
	}
	emp, err := tx.Employee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrEmployeeMissing) {
			return nil, failf(KindEmployeeNotEligible, "employee %s not found", employeeID)
		}
		return nil, failf(KindStoreUnavailable, "load employee %s: %v", employeeID, err)
	}
	// Precondition checks run under the row lock: a concurrent bind that
	// lost the race observes the winner's committed state here.
	if seat.Status != model.SeatStatusIdle {
		return nil, failf(KindSeatNotAvailable, "seat %s is not idle (status %d)", seat.SeatNo, seat.Status)
	}
	if !emp.Active() {
		return nil, failf(KindEmployeeNotEligible, "employee %s (%s) is not active", emp.Name, emp.ID)
	}

	occupy(seat, emp, bindType)
	if err := tx.UpdateSeatOccupancy(ctx, seat); err != nil {
		return nil, failf(KindStoreUnavailable, "update seat %s: %v", seat.SeatNo, err)
	}

	op := model.OperationBindPrimary
	remark := fmt.Sprintf("bound %s to seat %s", emp.Name, seat.SeatNo)
	if bindType == model.BindTypeSecondary {
		op = model.OperationBindSecondary
		remark = fmt.Sprintf("extra-bound %s to seat %s", emp.Name, seat.SeatNo)
	}
	entry := e.newLog(seat, op, actor, remark)
	entry.NewUserID = &emp.ID
	entry.NewUserName = &emp.Name
	if err := tx.InsertLog(ctx, entry); err != nil {
		return nil, failf(KindStoreUnavailable, "append audit row for seat %s: %v", seat.SeatNo, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, failf(KindStoreUnavailable, "commit: %v", err)
	}
	committed = true
	return seat, nil
}

// Unbind clears the occupant of an occupied seat.  Fails with
// SeatNotOccupied when the seat has no occupant; in that case no audit row
// is written.
func (e *Engine) Unbind(ctx context.Context, seatID uint64, actor Actor) (*model.Seat, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, failf(KindStoreUnavailable, "begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := tx.SeatForUpdate(ctx, seatID)
	if err != nil {
		return nil, mapSeatErr(err, seatID)
	}
	if seat.Status != model.SeatStatusOccupied || seat.OccupantID == nil {
		return nil, failf(KindSeatNotOccupied, "seat %s has no occupant", seat.SeatNo)
	}
	if _, err := e.unbindLocked(ctx, tx, seat, actor); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, failf(KindStoreUnavailable, "commit: %v", err)
	}
	committed = true
	return seat, nil
}

// unbindLocked clears a seat that is already locked and known to be
// occupied, and appends the unbind audit row.  Shared by Unbind and
// DeactivateEmployee.
func (e *Engine) unbindLocked(ctx context.Context, tx Tx, seat *model.Seat, actor Actor) (*model.SeatLog, error) {
	priorID, priorName := seat.OccupantID, seat.OccupantName
	vacate(seat)
	if err := tx.UpdateSeatOccupancy(ctx, seat); err != nil {
		return nil, failf(KindStoreUnavailable, "update seat %s: %v", seat.SeatNo, err)
	}
	name := ""
	if priorName != nil {
		name = *priorName
	}
	entry := e.newLog(seat, model.OperationUnbind, actor,
		fmt.Sprintf("unbound %s from seat %s", name, seat.SeatNo))
	entry.OldUserID = priorID
	entry.OldUserName = priorName
	if err := tx.InsertLog(ctx, entry); err != nil {
		return nil, failf(KindStoreUnavailable, "append audit row for seat %s: %v", seat.SeatNo, err)
	}
	return entry, nil
}

// transferExtra is the structured payload recorded on transfer audit rows.
type transferExtra struct {
	OldSeatID uint64 `json:"old_seat_id"`
	OldSeatNo string `json:"old_seat_no"`
}

// Transfer atomically moves an employee from one seat to another.  Both
// rows are locked in ascending id order before any check or mutation, so
// two concurrent transfers over overlapping seats cannot deadlock and
// cannot interleave.  A single audit row is written, keyed on the new seat,
// with the source seat recorded in the extra payload.
func (e *Engine) Transfer(ctx context.Context, oldSeatID, newSeatID uint64, employeeID string, actor Actor) (*model.Seat, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, failf(KindStoreUnavailable, "begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Fixed lock order: lowest seat id first.
	firstID, secondID := oldSeatID, newSeatID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := tx.SeatForUpdate(ctx, firstID)
	if err != nil {
		return nil, mapSeatErr(err, firstID)
	}
	second := first
	if secondID != firstID {
		second, err = tx.SeatForUpdate(ctx, secondID)
		if err != nil {
			return nil, mapSeatErr(err, secondID)
		}
	}
	oldSeat, newSeat := first, second
	if oldSeat.ID != oldSeatID {
		oldSeat, newSeat = second, first
	}

	if oldSeat.OccupantID == nil || *oldSeat.OccupantID != employeeID {
		return nil, failf(KindOwnershipMismatch, "seat %s is not bound to employee %s", oldSeat.SeatNo, employeeID)
	}
	if newSeat.Status != model.SeatStatusIdle {
		return nil, failf(KindSeatNotAvailable, "seat %s is not idle (status %d)", newSeat.SeatNo, newSeat.Status)
	}
	emp, err := tx.Employee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrEmployeeMissing) {
			return nil, failf(KindEmployeeNotEligible, "employee %s not found", employeeID)
		}
		return nil, failf(KindStoreUnavailable, "load employee %s: %v", employeeID, err)
	}

	oldNo := oldSeat.SeatNo
	vacate(oldSeat)
	if err := tx.UpdateSeatOccupancy(ctx, oldSeat); err != nil {
		return nil, failf(KindStoreUnavailable, "update seat %s: %v", oldSeat.SeatNo, err)
	}
	occupy(newSeat, emp, model.BindTypePrimary)
	if err := tx.UpdateSeatOccupancy(ctx, newSeat); err != nil {
		return nil, failf(KindStoreUnavailable, "update seat %s: %v", newSeat.SeatNo, err)
	}

	entry := e.newLog(newSeat, model.OperationTransfer, actor,
		fmt.Sprintf("%s moved from seat %s to seat %s", emp.Name, oldNo, newSeat.SeatNo))
	entry.OldUserID = &emp.ID
	entry.OldUserName = &emp.Name
	entry.NewUserID = &emp.ID
	entry.NewUserName = &emp.Name
	extra, err := json.Marshal(transferExtra{OldSeatID: oldSeat.ID, OldSeatNo: oldNo})
	if err != nil {
		return nil, failf(KindStoreUnavailable, "encode transfer payload: %v", err)
	}
	extraStr := string(extra)
	entry.Extra = &extraStr
	if err := tx.InsertLog(ctx, entry); err != nil {
		return nil, failf(KindStoreUnavailable, "append audit row for seat %s: %v", newSeat.SeatNo, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, failf(KindStoreUnavailable, "commit: %v", err)
	}
	committed = true
	return newSeat, nil
}

// DeactivateEmployee releases every seat currently bound to the employee.
// The directory service calls this when a sync batch or webhook flips an
// employee to inactive; routing the cascade through the engine keeps the
// per-seat lock discipline intact.  Each seat transitions independently
// with a standard unbind audit row attributed to the system actor.  The
// returned count is the number of seats released.
func (e *Engine) DeactivateEmployee(ctx context.Context, employeeID string) (int, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return 0, failf(KindStoreUnavailable, "begin transaction: %v", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seats, err := tx.SeatsByOccupantForUpdate(ctx, employeeID)
	if err != nil {
		return 0, failf(KindStoreUnavailable, "lock seats of employee %s: %v", employeeID, err)
	}
	released := 0
	for i := range seats {
		seat := &seats[i]
		if seat.Status != model.SeatStatusOccupied || seat.OccupantID == nil {
			continue
		}
		if _, err := e.unbindLocked(ctx, tx, seat, SystemActor); err != nil {
			return 0, err
		}
		released++
	}
	if err := tx.Commit(); err != nil {
		return 0, failf(KindStoreUnavailable, "commit: %v", err)
	}
	committed = true
	return released, nil
}

func (e *Engine) newLog(seat *model.Seat, op int, actor Actor, remark string) *model.SeatLog {
	return &model.SeatLog{
		SeatID:        seat.ID,
		SeatNo:        seat.SeatNo,
		OperationType: op,
		OperatorID:    actor.ID,
		OperatorName:  actor.Name,
		OperationTime: e.now(),
		OperationIP:   actor.IP,
		Remark:        remark,
	}
}

func occupy(seat *model.Seat, emp *model.Employee, bindType int) {
	id, name, dept := emp.ID, emp.Name, emp.DeptID
	seat.OccupantID = &id
	seat.OccupantName = &name
	seat.OccupantDeptID = &dept
	seat.Status = model.SeatStatusOccupied
	seat.BindType = bindType
}

func vacate(seat *model.Seat) {
	seat.OccupantID = nil
	seat.OccupantName = nil
	seat.OccupantDeptID = nil
	seat.Status = model.SeatStatusIdle
	seat.BindType = model.BindTypeNone
}

func mapSeatErr(err error, seatID uint64) error {
	if errors.Is(err, ErrSeatMissing) {
		return failf(KindNotFound, "seat %d not found", seatID)
	}
	return failf(KindStoreUnavailable, "load seat %d: %v", seatID, err)
}
