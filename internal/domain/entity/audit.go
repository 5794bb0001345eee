package entity

import "time"

// SystemActor is recorded when a mutation carries no caller identity
const SystemActor = "system"

// Audit holds the bookkeeping fields shared by every planning record
type Audit struct {
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CreatedBy     string     `json:"created_by,omitempty"`
	LastUpdatedBy string     `json:"last_updated_by,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at"`
	IsActive      bool       `json:"is_active"`
}

// NewAudit returns the audit fields of a record created by actor
func NewAudit(actor string) Audit {
	if actor == "" {
		actor = SystemActor
	}
	return Audit{
		CreatedBy:     actor,
		LastUpdatedBy: actor,
		IsActive:      true,
	}
}

// SoftDelete marks the record as deleted at the given time
func (a *Audit) SoftDelete(at time.Time, actor string) {
	at = at.UTC()
	a.DeletedAt = &at
	a.IsActive = false
	a.Touch(at, actor)
}

// Restore brings a soft-deleted record back
func (a *Audit) Restore(at time.Time, actor string) {
	a.DeletedAt = nil
	a.IsActive = true
	a.Touch(at, actor)
}

// Touch records a mutation by actor
func (a *Audit) Touch(at time.Time, actor string) {
	if actor == "" {
		actor = SystemActor
	}
	a.UpdatedAt = at.UTC()
	a.LastUpdatedBy = actor
}

// IsDeleted reports whether the record is soft-deleted
func (a Audit) IsDeleted() bool {
	return a.DeletedAt != nil
}

// ListFilter narrows list queries
type ListFilter struct {
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// MaxListLimit caps the page size of list queries
const MaxListLimit = 500

// Normalize clamps the paging values into their allowed ranges
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
