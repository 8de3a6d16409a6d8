package models

import "time"

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
)

// Lifecycle is the visibility state of a record. Archived records are kept
// in storage but never returned by read queries.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "ACTIVE"
	LifecycleArchived Lifecycle = "ARCHIVED"
)

// Record holds the lifecycle columns shared by soft-deletable entities.
type Record struct {
	State      Lifecycle  `json:"state" db:"state"`
	ArchivedAt *time.Time `json:"archivedAt,omitempty" db:"archived_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the record is visible to queries
func (r Record) IsActive() bool {
	return r.State == LifecycleActive || r.State == ""
}

// Archive moves the record to the archived state at t
func (r *Record) Archive(t time.Time) {
	r.State = LifecycleArchived
	r.ArchivedAt = &t
	r.UpdatedAt = t
}
