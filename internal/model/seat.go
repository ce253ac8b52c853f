package model

import "time"

// Seat status values as stored in seats.status.  Occupancy transitions
// only ever move between idle and occupied; maintenance and disabled are
// administrative states and are treated as non-idle for binding purposes.
const (
	SeatStatusIdle        = 0 // free for binding
	SeatStatusOccupied    = 1 // bound to an employee
	SeatStatusMaintenance = 2 // temporarily out of service
	SeatStatusDisabled    = 3 // retired from use
)

// Bind type values as stored in seats.bind_type.  A secondary bind marks a
// policy-level extra desk; it does not allow a second occupant on the seat.
const (
	BindTypeNone      = 0 // no occupant
	BindTypePrimary   = 1 // employee's main desk
	BindTypeSecondary = 2 // additional desk for the same employee
)

// Seat describes a physical seat inside an area.  Seats are uniquely
// identified by their area and seat number.  Occupant fields are snapshots
// taken from the directory at bind time; a later employee rename does not
// propagate back to already-bound seats.
//
// Fields:
//  ID             – primary key identifier.
//  AreaID         – area to which this seat belongs.
//  SeatNo         – human-readable number, unique within the area (e.g. "101-3").
//  Status         – one of the SeatStatus* constants.
//  GridRow        – layout row, 1-based.
//  GridCol        – layout column, 1-based.
//  PosX           – normalized horizontal position in (0,1).
//  PosY           – normalized vertical position in (0,1).
//  OccupantID     – HR id of the current occupant (nil when idle).
//  OccupantName   – occupant name snapshot (nil when idle).
//  OccupantDeptID – occupant department snapshot (nil when idle).
//  BindType       – one of the BindType* constants.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Seat struct {
	ID             uint64    `json:"id"`               // seats.id
	AreaID         uint64    `json:"area_id"`          // seats.area_id
	SeatNo         string    `json:"seat_no"`          // seats.seat_no
	Status         int       `json:"status"`           // seats.status
	GridRow        int       `json:"grid_row"`         // seats.grid_row
	GridCol        int       `json:"grid_col"`         // seats.grid_col
	PosX           float64   `json:"pos_x"`            // seats.pos_x
	PosY           float64   `json:"pos_y"`            // seats.pos_y
	OccupantID     *string   `json:"occupant_id"`      // seats.occupant_id
	OccupantName   *string   `json:"occupant_name"`    // seats.occupant_name
	OccupantDeptID *string   `json:"occupant_dept_id"` // seats.occupant_dept_id
	BindType       int       `json:"bind_type"`        // seats.bind_type
	CreatedAt      time.Time `json:"created_at"`       // seats.created_at
	UpdatedAt      time.Time `json:"updated_at"`       // seats.updated_at
}

// Occupied reports whether the seat currently has an occupant.  The status
// flag and the occupant reference are kept in lockstep by the allocation
// engine; this helper reads the status flag.
func (s *Seat) Occupied() bool { return s.Status == SeatStatusOccupied }
