package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/autohaven/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendTestMessage(t *testing.T, router http.Handler, token string, receiverID, carID int, content string) types.Message {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/messages", token, map[string]any{
		"receiver_id": receiverID,
		"car_id":      carID,
		"content":     content,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var msg types.Message
	decodeBody(t, rec, &msg)
	return msg
}

func TestMessagingRequiresAuth(t *testing.T) {
	router := newTestAPI(t)

	rec := doRequest(t, router, http.MethodGet, "/api/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/messages", "", map[string]any{
		"receiver_id": 1, "car_id": 1, "content": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessageValidation(t *testing.T) {
	router := newTestAPI(t)
	token, _ := registerUser(t, router, "buyer")

	rec := doRequest(t, router, http.MethodPost, "/api/messages", token, map[string]any{
		"receiver_id": 0, "car_id": 1, "content": "hi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/messages", token, map[string]any{
		"receiver_id": 1, "car_id": 1, "content": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/messages", token, map[string]any{
		"receiver_id": 9999, "car_id": 1, "content": "hi",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationFlow(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, seller := registerUser(t, router, "seller")
	buyerToken, buyer := registerUser(t, router, "buyer")
	car := createCar(t, router, sellerToken, validCarPayload())

	first := sendTestMessage(t, router, buyerToken, seller.ID, car.ID, "Is this still available?")
	second := sendTestMessage(t, router, sellerToken, buyer.ID, car.ID, "Yes it is")
	third := sendTestMessage(t, router, buyerToken, seller.ID, car.ID, "Can I see it Saturday?")

	// The conversation reads oldest first from either side.
	rec := doRequest(t, router, http.MethodGet,
		fmt.Sprintf("/api/messages/%d/%d", seller.ID, car.ID), buyerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var conversation []types.Message
	decodeBody(t, rec, &conversation)
	require.Len(t, conversation, 3)
	assert.Equal(t, first.ID, conversation[0].ID)
	assert.Equal(t, second.ID, conversation[1].ID)
	assert.Equal(t, third.ID, conversation[2].ID)

	// The inbox reads newest first.
	rec = doRequest(t, router, http.MethodGet, "/api/messages", sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var inbox []types.Message
	decodeBody(t, rec, &inbox)
	require.Len(t, inbox, 3)
	assert.Equal(t, third.ID, inbox[0].ID)
	assert.Equal(t, first.ID, inbox[2].ID)
}

func TestMarkMessageRead(t *testing.T) {
	router := newTestAPI(t)
	sellerToken, seller := registerUser(t, router, "seller")
	buyerToken, _ := registerUser(t, router, "buyer")
	car := createCar(t, router, sellerToken, validCarPayload())

	msg := sendTestMessage(t, router, buyerToken, seller.ID, car.ID, "hello")
	assert.False(t, msg.Read)

	path := fmt.Sprintf("/api/messages/%d/read", msg.ID)

	// Only the receiver may mark a message read.
	rec := doRequest(t, router, http.MethodPut, path, buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodPut, path, sellerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated types.Message
	decodeBody(t, rec, &updated)
	assert.True(t, updated.Read)

	rec = doRequest(t, router, http.MethodPut, "/api/messages/9999/read", sellerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
