package model

import "time"

// Task is a work item owned by exactly one user.
type Task struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerID     uint      `json:"owner_id" gorm:"not null;index"`
}

// TaskUpdate carries the fields of a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Name        *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether no field is set.
func (u TaskUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Completed == nil
}

// Columns returns the column assignments for the fields that are set.
func (u TaskUpdate) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Completed != nil {
		cols["completed"] = *u.Completed
	}
	return cols
}
