package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
)

// MessageRepository keeps buyer/seller messages in process memory.
type MessageRepository struct {
	mu       sync.RWMutex
	messages map[int]types.Message
	nextID   int
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		messages: make(map[int]types.Message),
		nextID:   1,
	}
}

func (r *MessageRepository) Get(ctx context.Context, id int) (types.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	if !ok {
		return types.Message{}, store.ErrNotFound
	}
	return msg, nil
}

// ListBetweenUsers returns the conversation between two users about a
// listing, oldest first. A zero carID matches any listing.
func (r *MessageRepository) ListBetweenUsers(ctx context.Context, userID1, userID2, carID int) ([]types.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]types.Message, 0)
	for _, msg := range r.messages {
		between := (msg.SenderID == userID1 && msg.ReceiverID == userID2) ||
			(msg.SenderID == userID2 && msg.ReceiverID == userID1)
		if !between {
			continue
		}
		if carID != 0 && msg.CarID != carID {
			continue
		}
		messages = append(messages, msg)
	}

	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.Before(messages[j].CreatedAt)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

// ListForUser returns every message a user sent or received, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := make([]types.Message, 0)
	for _, msg := range r.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			messages = append(messages, msg)
		}
	}

	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].CreatedAt.After(messages[j].CreatedAt)
		}
		return messages[i].ID > messages[j].ID
	})
	return messages, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg types.Message) (types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	msg.Read = false
	msg.CreatedAt = time.Now()
	r.messages[msg.ID] = msg
	return msg, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id int) (types.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return types.Message{}, store.ErrNotFound
	}
	msg.Read = true
	r.messages[id] = msg
	return msg, nil
}
