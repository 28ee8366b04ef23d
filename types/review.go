package types

import "time"

// Review is an append-only rating a buyer leaves for a seller after a
// transaction around a specific listing.
type Review struct {
	// ID is the unique identifier of the review.
	ID int `json:"id" db:"id"`

	// UserID identifies the seller being reviewed.
	UserID int `json:"user_id" db:"user_id"`

	// ReviewerID identifies the user who wrote the review.
	ReviewerID int `json:"reviewer_id" db:"reviewer_id"`

	// CarID identifies the listing the review relates to.
	CarID int `json:"car_id" db:"car_id"`

	// Rating is an integer score from 1 to 5.
	Rating int `json:"rating" db:"rating"`

	// Comment is the free-form review text.
	Comment string `json:"comment" db:"comment"`

	// CreatedAt is the timestamp at which the review was written.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
