package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"StorySync/internal/middleware"
	"StorySync/internal/model"
	"StorySync/internal/repo"

	"go.uber.org/zap"
)

// NotifyHandler manages push subscription registrations.
type NotifyHandler struct {
	Subs   repo.SubscriptionRepository
	Logger *zap.SugaredLogger
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *NotifyHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "invalid subscription")
		return
	}

	sub := &model.Subscription{
		Endpoint:  req.Endpoint,
		UserID:    userID,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		CreatedAt: time.Now(),
	}
	if err := h.Subs.Upsert(r.Context(), sub); err != nil {
		h.Logger.Errorw("subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"error": false, "message": "Subscribed"})
}

func (h *NotifyHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "invalid subscription")
		return
	}

	removed, err := h.Subs.Delete(r.Context(), req.Endpoint)
	if err != nil {
		h.Logger.Errorw("unsubscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "message": "Unsubscribed"})
}
