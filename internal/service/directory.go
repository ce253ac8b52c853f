// Package service hosts application services that sit between transport and
// the allocation kernel: directory synchronization and event publishing.
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/queue"
)

// EmployeeWriter persists directory records.
type EmployeeWriter interface {
	Upsert(ctx context.Context, e *model.Employee) error
}

// Deactivator releases every seat bound to an employee. It returns the
// number of seats freed.
type Deactivator interface {
	DeactivateEmployee(ctx context.Context, employeeID string) (int, error)
}

// DirectoryService applies corporate-directory changes to local state. A
// change that marks an employee inactive also releases all of their seats
// so that nothing stays bound to someone who has left.
type DirectoryService struct {
	employees EmployeeWriter
	engine    Deactivator
}

func NewDirectoryService(employees EmployeeWriter, engine Deactivator) *DirectoryService {
	return &DirectoryService{employees: employees, engine: engine}
}

// ApplyChange upserts the employee record and, when the record is inactive,
// releases the employee's seats. The upsert happens first so the directory
// snapshot is current even if seat release fails and the message is retried.
func (s *DirectoryService) ApplyChange(ctx context.Context, ev queue.EmployeeChangedEvent) error {
	emp := &model.Employee{
		ID:       ev.EmployeeID,
		Name:     ev.Name,
		DeptID:   ev.DeptID,
		DeptName: ev.DeptName,
		Position: ev.Position,
		Phone:    ev.Phone,
		Email:    ev.Email,
		Status:   ev.Status,
	}
	if err := s.employees.Upsert(ctx, emp); err != nil {
		return fmt.Errorf("upsert employee %s: %w", ev.EmployeeID, err)
	}

	if emp.Status == model.EmployeeInactive {
		freed, err := s.engine.DeactivateEmployee(ctx, emp.ID)
		if err != nil {
			return fmt.Errorf("release seats for %s: %w", emp.ID, err)
		}
		if freed > 0 {
			log.Printf("directory: employee %s deactivated, released %d seat(s)", emp.ID, freed)
		}
	}
	return nil
}

// SyncResult reports the outcome of a batch synchronization.
type SyncResult struct {
	Upserted    int `json:"upserted"`
	Deactivated int `json:"deactivated"`
	SeatsFreed  int `json:"seats_freed"`
	Failed      int `json:"failed"`
}

// SyncBatch applies a full directory batch. Failures on individual records
// are counted rather than aborting the batch, so one bad row does not block
// the rest of a nightly sync.
func (s *DirectoryService) SyncBatch(ctx context.Context, batch []model.Employee) (SyncResult, error) {
	var res SyncResult
	for i := range batch {
		emp := &batch[i]
		if emp.ID == "" {
			res.Failed++
			continue
		}
		if err := s.employees.Upsert(ctx, emp); err != nil {
			log.Printf("directory: sync upsert %s failed: %v", emp.ID, err)
			res.Failed++
			continue
		}
		res.Upserted++

		if emp.Status == model.EmployeeInactive {
			freed, err := s.engine.DeactivateEmployee(ctx, emp.ID)
			if err != nil {
				log.Printf("directory: sync release seats for %s failed: %v", emp.ID, err)
				res.Failed++
				continue
			}
			res.Deactivated++
			res.SeatsFreed += freed
		}
	}
	return res, ctx.Err()
}
