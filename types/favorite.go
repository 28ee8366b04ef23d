package types

import "time"

// Favorite marks a listing as saved by a user. At most one favorite
// exists per (user, car) pair.
type Favorite struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	CarID     int       `json:"car_id" db:"car_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
