// Package repository defines data access over the MySQL store.  Sentinel
// errors declared here are reused across multiple repositories so that
// handlers can distinguish failure scenarios without inspecting SQL errors.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state, such as deleting a venue that still has floors or a seat
// that is currently occupied.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint (venue name, floor number within a venue, area number within a
// floor, seat number within an area).  Handlers translate this into 409.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateEntry reports whether err is a MySQL 1062 duplicate-key error.
func isDuplicateEntry(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
