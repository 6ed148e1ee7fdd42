package model

import "time"

// Movie is a catalog entry. Only admins create movies.
type Movie struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:100;not null;index"`
	ReleaseYear *int      `json:"release_year"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Ratings []Rating `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT"`
}
