package model

import "time"

// Shared status flag for venues, floors and areas.
const (
	HierarchyDisabled = 0
	HierarchyEnabled  = 1
)

// Venue is the top level of the seating hierarchy (an office building or
// campus site).  Venue names are globally unique.
type Venue struct {
	ID        uint64    `json:"id"`         // venues.id
	Name      string    `json:"name"`       // venues.name (unique)
	Address   string    `json:"address"`    // venues.address
	Status    int       `json:"status"`     // venues.status
	CreatedAt time.Time `json:"created_at"` // venues.created_at
	UpdatedAt time.Time `json:"updated_at"` // venues.updated_at
}

// Floor belongs to a venue.  FloorNo is unique within the venue (e.g. "3F").
// ImageURL points at the floor plan rendered by the frontend; SortOrder
// controls display order.
type Floor struct {
	ID        uint64    `json:"id"`         // floors.id
	VenueID   uint64    `json:"venue_id"`   // floors.venue_id
	FloorNo   string    `json:"floor_no"`   // floors.floor_no (unique per venue)
	FloorName string    `json:"floor_name"` // floors.floor_name
	ImageURL  string    `json:"image_url"`  // floors.image_url
	SortOrder int       `json:"sort_order"` // floors.sort_order
	Status    int       `json:"status"`     // floors.status
	CreatedAt time.Time `json:"created_at"` // floors.created_at
	UpdatedAt time.Time `json:"updated_at"` // floors.updated_at
}

// Area type values as stored in areas.area_type.
const (
	AreaTypeDedicated = 1 // reserved for specific departments
	AreaTypeMixed     = 2 // open to any department
	AreaTypeMeeting   = 3 // meeting room
	AreaTypePublic    = 4 // shared public space
)

// Area belongs to a floor and owns a set of seats.  AreaNo is unique within
// the floor.  SeatCount caches the number of seats planned by the last
// provisioning run.  AllowedDepts and PositionCSS hold JSON documents the
// frontend consumes verbatim.
type Area struct {
	ID           uint64    `json:"id"`            // areas.id
	FloorID      uint64    `json:"floor_id"`      // areas.floor_id
	AreaNo       string    `json:"area_no"`       // areas.area_no (unique per floor)
	AreaName     string    `json:"area_name"`     // areas.area_name
	AreaType     int       `json:"area_type"`     // areas.area_type
	AllowedDepts string    `json:"allowed_depts"` // areas.allowed_depts (JSON array)
	SeatCount    int       `json:"seat_count"`    // areas.seat_count
	PositionCSS  string    `json:"position_css"`  // areas.position_css (JSON object)
	Status       int       `json:"status"`        // areas.status
	CreatedAt    time.Time `json:"created_at"`    // areas.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // areas.updated_at
}
