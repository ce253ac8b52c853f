package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/seatdesk/internal/model"
	"github.com/deskhub/seatdesk/internal/queue"
)

type fakeEmployeeWriter struct {
	upserted []model.Employee
	failOn   string
}

func (f *fakeEmployeeWriter) Upsert(ctx context.Context, e *model.Employee) error {
	if e.ID == f.failOn {
		return errors.New("upsert failed")
	}
	f.upserted = append(f.upserted, *e)
	return nil
}

type fakeDeactivator struct {
	calls []string
	freed int
	err   error
}

func (f *fakeDeactivator) DeactivateEmployee(ctx context.Context, employeeID string) (int, error) {
	f.calls = append(f.calls, employeeID)
	return f.freed, f.err
}

func TestApplyChangeUpsertsActiveEmployee(t *testing.T) {
	writer := &fakeEmployeeWriter{}
	deact := &fakeDeactivator{}
	svc := NewDirectoryService(writer, deact)

	err := svc.ApplyChange(context.Background(), queue.EmployeeChangedEvent{
		EmployeeID: "E100", Name: "Dana", DeptID: "D1", Status: model.EmployeeActive,
	})
	require.NoError(t, err)

	require.Len(t, writer.upserted, 1)
	assert.Equal(t, "E100", writer.upserted[0].ID)
	assert.Equal(t, "Dana", writer.upserted[0].Name)
	// An active employee keeps their seats.
	assert.Empty(t, deact.calls)
}

func TestApplyChangeReleasesSeatsOnDeparture(t *testing.T) {
	writer := &fakeEmployeeWriter{}
	deact := &fakeDeactivator{freed: 2}
	svc := NewDirectoryService(writer, deact)

	err := svc.ApplyChange(context.Background(), queue.EmployeeChangedEvent{
		EmployeeID: "E100", Name: "Dana", Status: model.EmployeeInactive,
	})
	require.NoError(t, err)

	require.Len(t, writer.upserted, 1)
	assert.Equal(t, model.EmployeeInactive, writer.upserted[0].Status)
	assert.Equal(t, []string{"E100"}, deact.calls)
}

func TestApplyChangePropagatesReleaseFailure(t *testing.T) {
	writer := &fakeEmployeeWriter{}
	deact := &fakeDeactivator{err: errors.New("store down")}
	svc := NewDirectoryService(writer, deact)

	err := svc.ApplyChange(context.Background(), queue.EmployeeChangedEvent{
		EmployeeID: "E100", Status: model.EmployeeInactive,
	})
	require.Error(t, err)
	// The upsert still happened, so a broker redelivery is idempotent.
	assert.Len(t, writer.upserted, 1)
}

func TestSyncBatchCountsOutcomes(t *testing.T) {
	writer := &fakeEmployeeWriter{failOn: "E300"}
	deact := &fakeDeactivator{freed: 1}
	svc := NewDirectoryService(writer, deact)

	res, err := svc.SyncBatch(context.Background(), []model.Employee{
		{ID: "E100", Name: "Dana", Status: model.EmployeeActive},
		{ID: "E200", Name: "Noor", Status: model.EmployeeInactive},
		{ID: "E300", Name: "Bad", Status: model.EmployeeActive},
		{ID: "", Name: "NoID", Status: model.EmployeeActive},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Upserted)
	assert.Equal(t, 1, res.Deactivated)
	assert.Equal(t, 1, res.SeatsFreed)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, []string{"E200"}, deact.calls)
}
