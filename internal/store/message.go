package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/autohaven/apiserver/types"
)

// MessageRepository handles persistence for buyer/seller messages.
type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, car_id, content, read, created_at`

func scanMessage(row carScanner) (types.Message, error) {
	var msg types.Message
	err := row.Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.ReceiverID,
		&msg.CarID,
		&msg.Content,
		&msg.Read,
		&msg.CreatedAt,
	)
	return msg, err
}

func (r *MessageRepository) Get(ctx context.Context, id int) (types.Message, error) {
	const query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE id = $1`
	msg, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Message{}, ErrNotFound
		}
		return types.Message{}, err
	}
	return msg, nil
}

// ListBetweenUsers returns the conversation between two users about a
// listing, oldest first. Conversations render chronologically, unlike
// every other listing in the API.
func (r *MessageRepository) ListBetweenUsers(ctx context.Context, userID1, userID2, carID int) ([]types.Message, error) {
	const query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			AND ($3 = 0 OR car_id = $3)
		ORDER BY created_at ASC, id ASC`
	return r.listMessages(ctx, query, userID1, userID2, carID)
}

// ListForUser returns every message a user sent or received, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	const query = `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.listMessages(ctx, query, userID)
}

func (r *MessageRepository) listMessages(ctx context.Context, query string, args ...any) ([]types.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]types.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg types.Message) (types.Message, error) {
	msg.Read = false
	msg.CreatedAt = time.Now()

	const query = `
		INSERT INTO messages (sender_id, receiver_id, car_id, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		msg.SenderID,
		msg.ReceiverID,
		msg.CarID,
		msg.Content,
		msg.Read,
		msg.CreatedAt,
	).Scan(&msg.ID); err != nil {
		return types.Message{}, err
	}
	return msg, nil
}

// MarkRead flips the read flag and returns the updated message.
func (r *MessageRepository) MarkRead(ctx context.Context, id int) (types.Message, error) {
	const query = `UPDATE messages SET read = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return types.Message{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Message{}, err
	}
	if affected == 0 {
		return types.Message{}, ErrNotFound
	}
	return r.Get(ctx, id)
}
