package model

import "time"

const (
	// MinScore is the lowest accepted rating.
	MinScore = 1
	// MaxScore is the highest accepted rating.
	MaxScore = 10
)

// Rating is a user's score for a movie. The schema allows more than one
// rating per user and movie.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MovieID   uint      `json:"movie_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Score     int       `json:"rating" gorm:"column:rating;not null;check:rating >= 1 AND rating <= 10"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
