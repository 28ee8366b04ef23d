package types

import "time"

// Message is a single message exchanged between a buyer and a seller
// about a specific listing. Once stored, only the read flag changes.
type Message struct {
	// ID is the unique identifier of the message.
	ID int `json:"id" db:"id"`

	// SenderID identifies the user who sent the message.
	SenderID int `json:"sender_id" db:"sender_id"`

	// ReceiverID identifies the user the message was sent to.
	ReceiverID int `json:"receiver_id" db:"receiver_id"`

	// CarID identifies the listing the conversation is about.
	CarID int `json:"car_id" db:"car_id"`

	// Content is the message body.
	Content string `json:"content" db:"content"`

	// Read reports whether the receiver has read the message. Only the
	// receiver may set it.
	Read bool `json:"read" db:"read"`

	// CreatedAt is the timestamp at which the message was sent.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
