package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mindaid-app/mindaid-api/internal/payload"
	"github.com/mindaid-app/mindaid-api/internal/usecase"
	"github.com/mindaid-app/mindaid-api/shared/validate"
)

// MoodHandler serves mood tracking and the dashboard/tracker aggregates.
type MoodHandler struct {
	moodUsecase usecase.MoodUsecase
	validator   *validate.Validator
	logger      *zerolog.Logger
}

// NewMoodHandler creates a new MoodHandler instance.
func NewMoodHandler(
	moodUsecase usecase.MoodUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *MoodHandler {
	return &MoodHandler{
		moodUsecase: moodUsecase,
		validator:   validator,
		logger:      logger,
	}
}

// SaveMood upserts today's mood: 201 when a new entry is created, 200 when
// today's value is overwritten.
func (h *MoodHandler) SaveMood(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req payload.SaveMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	mood, created, err := h.moodUsecase.SaveMood(r.Context(), identity.ID, req.Mood)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidMoodValue):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to save mood")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	respondJSON(w, status, mood)
}

func (h *MoodHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	data, err := h.moodUsecase.Dashboard(r.Context(), identity.ID, identity.Name)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build dashboard data")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, data)
}

func (h *MoodHandler) Tracker(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	data, err := h.moodUsecase.Tracker(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build tracker data")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, data)
}
