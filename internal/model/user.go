package model

import "time"

// User represents a registered account. Admins curate the catalog; regular
// users submit ratings.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Email        string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	IsAdmin      bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Ratings []Rating `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
