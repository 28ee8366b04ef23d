package services

import (
	"context"

	"github.com/autohaven/apiserver/internal/mq"
	"github.com/autohaven/apiserver/types"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Get(ctx context.Context, id int) (types.Message, error)
	ListBetweenUsers(ctx context.Context, userID1, userID2, carID int) ([]types.Message, error)
	ListForUser(ctx context.Context, userID int) ([]types.Message, error)
	Create(ctx context.Context, msg types.Message) (types.Message, error)
	MarkRead(ctx context.Context, id int) (types.Message, error)
}

// MessageService encapsulates messaging use-cases.
type MessageService struct {
	repo   MessageRepository
	events *mq.Publisher
}

func NewMessageService(repo MessageRepository, events *mq.Publisher) *MessageService {
	return &MessageService{repo: repo, events: events}
}

func (s *MessageService) Get(ctx context.Context, id int) (types.Message, error) {
	return s.repo.Get(ctx, id)
}

// ListBetweenUsers returns the conversation between two users about a
// listing, in chronological display order.
func (s *MessageService) ListBetweenUsers(ctx context.Context, userID1, userID2, carID int) ([]types.Message, error) {
	return s.repo.ListBetweenUsers(ctx, userID1, userID2, carID)
}

func (s *MessageService) ListForUser(ctx context.Context, userID int) ([]types.Message, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *MessageService) Create(ctx context.Context, msg types.Message) (types.Message, error) {
	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return types.Message{}, err
	}
	s.events.MessageSent(ctx, created.ID, created.CarID, created.ReceiverID)
	return created, nil
}

func (s *MessageService) MarkRead(ctx context.Context, id int) (types.Message, error) {
	return s.repo.MarkRead(ctx, id)
}
