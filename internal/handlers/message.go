package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// MessageHandler provides HTTP handlers for buyer/seller messaging.
type MessageHandler struct {
	messageService *services.MessageService
	userService    *services.UserService
}

// NewMessageHandler constructs a handler with the provided services.
func NewMessageHandler(messageService *services.MessageService, userService *services.UserService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		userService:    userService,
	}
}

// MessageRouter registers messaging routes on the given router. All
// routes require authentication.
func MessageRouter(
	r chi.Router,
	messageService *services.MessageService,
	userService *services.UserService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewMessageHandler(messageService, userService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListMessages)
	r.Post("/", handler.SendMessage)
	r.Get("/{userID}/{carID}", handler.GetConversation)
	r.Put("/{messageID}/read", handler.MarkRead)
}

// ListMessages lists every message the caller sent or received, newest
// first.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	messages, err := h.messageService.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// SendMessage creates a message from the caller to another user about a
// listing.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.ReceiverID < 1 || req.CarID < 1 || req.Content == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if _, err := h.userService.GetByID(r.Context(), req.ReceiverID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "receiver not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch receiver")
		return
	}

	created, err := h.messageService.Create(r.Context(), types.Message{
		SenderID:   userID,
		ReceiverID: req.ReceiverID,
		CarID:      req.CarID,
		Content:    req.Content,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GetConversation lists the messages between the caller and another
// user about a listing, oldest first.
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	otherID, err := parseURLID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	carID, err := parseURLID(r, "carID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.messageService.ListBetweenUsers(r.Context(), userID, otherID, carID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// MarkRead marks a message as read. Only the receiver may do so.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseURLID(r, "messageID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.messageService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch message")
		return
	}

	if message.ReceiverID != userID {
		writeError(w, http.StatusForbidden, "not the receiver of this message")
		return
	}

	updated, err := h.messageService.MarkRead(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark message read")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiver_id"`
	CarID      int    `json:"car_id"`
	Content    string `json:"content"`
}
