package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"StorySync/internal/middleware"
	"StorySync/internal/model"
	"StorySync/internal/service"

	"go.uber.org/zap"
)

const maxPhotoSize = 10 << 20

// StoryHandler serves the story listing and uploads.
type StoryHandler struct {
	Stories *service.StoryService
	Logger  *zap.SugaredLogger
}

type storyDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PhotoURL    string   `json:"photoUrl"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	CreatedAt   string   `json:"createdAt"`
}

func toDTO(s model.Story) storyDTO {
	return storyDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		PhotoURL:    s.PhotoURL,
		Lat:         s.Lat,
		Lon:         s.Lon,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	stories, err := h.Stories.List(r.Context())
	if err != nil {
		h.Logger.Errorw("list stories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	dtos := make([]storyDTO, 0, len(stories))
	for _, s := range stories {
		dtos = append(dtos, toDTO(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"error":     false,
		"message":   "success",
		"listStory": dtos,
	})
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	description := r.FormValue("description")
	if description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read photo")
		return
	}
	if len(photo) > maxPhotoSize {
		writeError(w, http.StatusBadRequest, "photo too large")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	lat, err := optionalFloat(r.FormValue("lat"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lat")
		return
	}
	lon, err := optionalFloat(r.FormValue("lon"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lon")
		return
	}

	story, err := h.Stories.Create(r.Context(), userID, service.CreateInput{
		Description: description,
		Photo:       photo,
		ContentType: contentType,
		Lat:         lat,
		Lon:         lon,
	})
	if err != nil {
		h.Logger.Errorw("create story failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"error":   false,
		"message": "Story created",
		"data": map[string]string{
			"id":       story.ID,
			"photoUrl": story.PhotoURL,
		},
	})
}

func optionalFloat(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
