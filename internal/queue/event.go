// Package queue defines message payloads exchanged over the message broker.
package queue

// EmployeeChangedEvent mirrors the webhook payload pushed by the corporate
// directory whenever an employee record changes. Status follows the
// directory convention: 1 active, 0 departed.
type EmployeeChangedEvent struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	DeptID     string `json:"dept_id"`
	DeptName   string `json:"dept_name"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Status     int    `json:"status"`
	ChangedAt  string `json:"changed_at"`
}

// SeatAllocationEvent is published after a seat allocation commits. It
// carries enough denormalized data for downstream consumers (badge systems,
// desk displays, analytics) to act without querying the primary database.
type SeatAllocationEvent struct {
	OperationType int    `json:"operation_type"`
	Operation     string `json:"operation"`
	SeatID        uint64 `json:"seat_id"`
	SeatNo        string `json:"seat_no"`
	AreaID        uint64 `json:"area_id"`
	EmployeeID    string `json:"employee_id,omitempty"`
	EmployeeName  string `json:"employee_name,omitempty"`
	OperatorID    string `json:"operator_id"`
	OperatorName  string `json:"operator_name"`
	OccurredAt    string `json:"occurred_at"`
}
