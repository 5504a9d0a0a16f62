package model

import "time"

// User represents an authenticated user in the system.
// A user has a password hash, an OAuth linkage, or both.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:255"`
	Username      string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  *string   `json:"-" gorm:"size:255"` // Never expose in JSON
	OAuthProvider *string   `json:"oauth_provider,omitempty" gorm:"size:50"`
	OAuthID       *string   `json:"-" gorm:"size:255;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `json:"-" gorm:"foreignKey:OwnerID"`
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasOAuth reports whether the user is linked to an OAuth provider.
func (u *User) HasOAuth() bool {
	return u.OAuthProvider != nil && *u.OAuthProvider != ""
}
