package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"StorySync/internal/config"
	"StorySync/internal/middleware"
	"StorySync/internal/service"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const tokenTTL = 24 * time.Hour

// UserHandler serves registration and login.
type UserHandler struct {
	Users    *service.UserService
	Validate *validator.Validate
	Logger   *zap.SugaredLogger
	Cfg      *config.Config
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}
	if _, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already registered")
			return
		}
		h.Logger.Errorw("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"error": false, "message": "User created"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input: "+err.Error())
		return
	}
	u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Logger.Errorw("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	token, err := middleware.MakeToken(u.ID, h.Cfg.AuthSecret, tokenTTL)
	if err != nil {
		h.Logger.Errorw("token signing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "success",
		"loginResult": map[string]string{
			"userId": u.ID,
			"name":   u.Name,
			"token":  token,
		},
	})
}
