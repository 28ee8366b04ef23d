package memory_test

import (
	"context"
	"testing"

	"github.com/autohaven/apiserver/internal/store/memory"
	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendMessage(t *testing.T, repo *memory.MessageRepository, sender, receiver, car int, content string) types.Message {
	t.Helper()
	msg, err := repo.Create(context.Background(), types.Message{
		SenderID:   sender,
		ReceiverID: receiver,
		CarID:      car,
		Content:    content,
	})
	require.NoError(t, err)
	return msg
}

func messageIDs(messages []types.Message) []int {
	ids := make([]int, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	return ids
}

func TestConversationOldestFirst(t *testing.T) {
	repo := memory.NewMessageRepository()
	ctx := context.Background()

	first := sendMessage(t, repo, 1, 2, 10, "Is this still available?")
	second := sendMessage(t, repo, 2, 1, 10, "Yes it is")
	third := sendMessage(t, repo, 1, 2, 10, "Great, can I see it?")
	sendMessage(t, repo, 1, 3, 10, "Different conversation")
	sendMessage(t, repo, 1, 2, 11, "Different car")

	want := []int{first.ID, second.ID, third.ID}

	messages, err := repo.ListBetweenUsers(ctx, 1, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, want, messageIDs(messages))

	// The conversation reads the same from either side.
	messages, err = repo.ListBetweenUsers(ctx, 2, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, want, messageIDs(messages))
}

func TestConversationZeroCarMatchesAll(t *testing.T) {
	repo := memory.NewMessageRepository()

	a := sendMessage(t, repo, 1, 2, 10, "About the Camry")
	b := sendMessage(t, repo, 2, 1, 11, "About the Civic")

	messages, err := repo.ListBetweenUsers(context.Background(), 1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{a.ID, b.ID}, messageIDs(messages))
}

func TestInboxNewestFirst(t *testing.T) {
	repo := memory.NewMessageRepository()

	first := sendMessage(t, repo, 1, 2, 10, "one")
	second := sendMessage(t, repo, 3, 1, 10, "two")
	third := sendMessage(t, repo, 1, 4, 11, "three")
	sendMessage(t, repo, 2, 3, 10, "not ours")

	messages, err := repo.ListForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{third.ID, second.ID, first.ID}, messageIDs(messages))
}

func TestMarkRead(t *testing.T) {
	repo := memory.NewMessageRepository()
	ctx := context.Background()

	msg := sendMessage(t, repo, 1, 2, 10, "hello")
	assert.False(t, msg.Read)

	updated, err := repo.MarkRead(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	fetched, err := repo.Get(ctx, msg.ID)
	require.NoError(t, err)
	assert.True(t, fetched.Read)
}
