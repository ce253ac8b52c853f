package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/deskhub/seatdesk/internal/model"
)

// memStore is an in-memory Store used by the package tests.  Begin holds a
// mutex until Commit or Rollback, which serializes transactions the same
// way MySQL row locks serialize the production store: a losing concurrent
// bind observes the winner's committed state.  Each transaction works on a
// copy of the data, so Rollback leaves no trace.
type memStore struct {
	mu         sync.Mutex
	seats      map[uint64]model.Seat
	employees  map[string]model.Employee
	areas      map[uint64]model.Area
	logs       []model.SeatLog
	nextSeatID uint64
	nextLogID  uint64
}

func newMemStore() *memStore {
	return &memStore{
		seats:     make(map[uint64]model.Seat),
		employees: make(map[string]model.Employee),
		areas:     make(map[uint64]model.Area),
	}
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
	s.mu.Lock()
	tx := &memTx{
		store:      s,
		seats:      make(map[uint64]model.Seat, len(s.seats)),
		areas:      make(map[uint64]model.Area, len(s.areas)),
		logs:       append([]model.SeatLog(nil), s.logs...),
		nextSeatID: s.nextSeatID,
		nextLogID:  s.nextLogID,
	}
	for k, v := range s.seats {
		tx.seats[k] = v
	}
	for k, v := range s.areas {
		tx.areas[k] = v
	}
	return tx, nil
}

type memTx struct {
	store      *memStore
	seats      map[uint64]model.Seat
	areas      map[uint64]model.Area
	logs       []model.SeatLog
	nextSeatID uint64
	nextLogID  uint64
	done       bool
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true
	t.store.seats = t.seats
	t.store.areas = t.areas
	t.store.logs = t.logs
	t.store.nextSeatID = t.nextSeatID
	t.store.nextLogID = t.nextLogID
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memTx) SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error) {
	s, ok := t.seats[seatID]
	if !ok {
		return nil, ErrSeatMissing
	}
	c := s
	return &c, nil
}

func (t *memTx) SeatsByOccupantForUpdate(ctx context.Context, employeeID string) ([]model.Seat, error) {
	var out []model.Seat
	for _, s := range t.seats {
		if s.OccupantID != nil && *s.OccupantID == employeeID && s.Status == model.SeatStatusOccupied {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) Employee(ctx context.Context, employeeID string) (*model.Employee, error) {
	e, ok := t.store.employees[employeeID]
	if !ok {
		return nil, ErrEmployeeMissing
	}
	c := e
	return &c, nil
}

func (t *memTx) UpdateSeatOccupancy(ctx context.Context, seat *model.Seat) error {
	if _, ok := t.seats[seat.ID]; !ok {
		return ErrSeatMissing
	}
	t.seats[seat.ID] = *seat
	return nil
}

func (t *memTx) InsertLog(ctx context.Context, entry *model.SeatLog) error {
	t.nextLogID++
	entry.ID = t.nextLogID
	t.logs = append(t.logs, *entry)
	return nil
}

func (t *memTx) Area(ctx context.Context, areaID uint64) (*model.Area, error) {
	a, ok := t.areas[areaID]
	if !ok {
		return nil, ErrAreaMissing
	}
	c := a
	return &c, nil
}

func (t *memTx) InsertSeats(ctx context.Context, seats []model.Seat) error {
	taken := make(map[string]bool)
	for _, s := range t.seats {
		taken[seatKey(s.AreaID, s.SeatNo)] = true
	}
	for _, s := range seats {
		k := seatKey(s.AreaID, s.SeatNo)
		if taken[k] {
			return ErrDuplicateSeatNo
		}
		taken[k] = true
	}
	for _, s := range seats {
		t.nextSeatID++
		s.ID = t.nextSeatID
		t.seats[s.ID] = s
	}
	return nil
}

func (t *memTx) SetAreaSeatCount(ctx context.Context, areaID uint64, count int) error {
	a, ok := t.areas[areaID]
	if !ok {
		return ErrAreaMissing
	}
	a.SeatCount = count
	t.areas[areaID] = a
	return nil
}

func seatKey(areaID uint64, seatNo string) string {
	return fmt.Sprintf("%d/%s", areaID, seatNo)
}

// ----- seeding helpers -----

func (s *memStore) addEmployee(id, name, deptID string, status int) {
	s.employees[id] = model.Employee{ID: id, Name: name, DeptID: deptID, DeptName: deptID, Status: status}
}

func (s *memStore) addArea(id uint64, areaNo string) {
	s.areas[id] = model.Area{ID: id, FloorID: 1, AreaNo: areaNo, AreaType: model.AreaTypeMixed, Status: model.HierarchyEnabled}
}

func (s *memStore) addSeat(id, areaID uint64, seatNo string) {
	if id > s.nextSeatID {
		s.nextSeatID = id
	}
	s.seats[id] = model.Seat{ID: id, AreaID: areaID, SeatNo: seatNo, Status: model.SeatStatusIdle, BindType: model.BindTypeNone}
}

func (s *memStore) addOccupiedSeat(id, areaID uint64, seatNo, employeeID, employeeName string, bindType int) {
	if id > s.nextSeatID {
		s.nextSeatID = id
	}
	eid, ename, dept := employeeID, employeeName, "D1"
	s.seats[id] = model.Seat{
		ID: id, AreaID: areaID, SeatNo: seatNo,
		Status:     model.SeatStatusOccupied,
		OccupantID: &eid, OccupantName: &ename, OccupantDeptID: &dept,
		BindType: bindType,
	}
}

func (s *memStore) seat(id uint64) model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[id]
}

func (s *memStore) logCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}

func (s *memStore) allLogs() []model.SeatLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SeatLog(nil), s.logs...)
}
