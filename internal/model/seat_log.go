package model

import "time"

// Allocation log operation kinds as stored in seat_logs.operation_type.
// The numbering is part of the persisted format and of the statistics API;
// do not renumber.
const (
	OperationBindPrimary   = 2 // employee bound to a primary seat
	OperationUnbind        = 3 // occupant removed from a seat
	OperationTransfer      = 4 // occupant moved between two seats
	OperationBindSecondary = 5 // employee bound to an additional seat
)

// OperationName returns a short human label for an operation kind.  Unknown
// kinds return "unknown" rather than an error so log listings never fail on
// historical rows.
func OperationName(op int) string {
	switch op {
	case OperationBindPrimary:
		return "bind"
	case OperationUnbind:
		return "unbind"
	case OperationTransfer:
		return "transfer"
	case OperationBindSecondary:
		return "extra-bind"
	default:
		return "unknown"
	}
}

// SeatLog is one immutable row of the allocation audit trail.  SeatNo is
// denormalized so the entry survives deletion of the seat itself; the old
// and new occupant fields record the transition exactly as the engine
// observed it inside the locking transaction.  Extra carries a JSON payload
// for operations that need context beyond the seat itself (transfer records
// the source seat there).  Rows are written exactly once and never updated.
type SeatLog struct {
	ID            uint64    `json:"id"`             // seat_logs.id
	SeatID        uint64    `json:"seat_id"`        // seat_logs.seat_id
	SeatNo        string    `json:"seat_no"`        // seat_logs.seat_no (denormalized)
	OperationType int       `json:"operation_type"` // seat_logs.operation_type
	OldUserID     *string   `json:"old_user_id"`    // seat_logs.old_user_id
	OldUserName   *string   `json:"old_user_name"`  // seat_logs.old_user_name
	NewUserID     *string   `json:"new_user_id"`    // seat_logs.new_user_id
	NewUserName   *string   `json:"new_user_name"`  // seat_logs.new_user_name
	OperatorID    string    `json:"operator_id"`    // seat_logs.operator_id
	OperatorName  string    `json:"operator_name"`  // seat_logs.operator_name
	OperationTime time.Time `json:"operation_time"` // seat_logs.operation_time
	OperationIP   string    `json:"operation_ip"`   // seat_logs.operation_ip
	Remark        string    `json:"remark"`         // seat_logs.remark
	Extra         *string   `json:"extra"`          // seat_logs.extra (JSON, nullable)
}
