package model

import "time"

// Employee status values as stored in employees.status.
const (
	EmployeeInactive = 0 // left the company; may hold no seats
	EmployeeActive   = 1 // eligible for seat binding
)

// Employee is a directory record synchronized from the HR/OA system.  The
// primary key is the external HR identifier, not a surrogate id, so webhook
// payloads and sync batches can address records directly.  Employees are
// never deleted; a departure flips Status to EmployeeInactive.
//
// Fields:
//  ID        – external HR identifier (stable, primary key).
//  Name      – display name.
//  DeptID    – department identifier.
//  DeptName  – department display name.
//  Position  – job title.
//  Phone     – contact phone (optional).
//  Email     – contact email (optional).
//  Status    – EmployeeActive or EmployeeInactive.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Employee struct {
	ID        string    `json:"id"`         // employees.id
	Name      string    `json:"name"`       // employees.name
	DeptID    string    `json:"dept_id"`    // employees.dept_id
	DeptName  string    `json:"dept_name"`  // employees.dept_name
	Position  string    `json:"position"`   // employees.position
	Phone     string    `json:"phone"`      // employees.phone
	Email     string    `json:"email"`      // employees.email
	Status    int       `json:"status"`     // employees.status
	CreatedAt time.Time `json:"created_at"` // employees.created_at
	UpdatedAt time.Time `json:"updated_at"` // employees.updated_at
}

// Active reports whether the employee is currently employed and therefore
// eligible for seat binding.
func (e *Employee) Active() bool { return e.Status == EmployeeActive }
