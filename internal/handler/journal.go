package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mindaid-app/mindaid-api/internal/payload"
	"github.com/mindaid-app/mindaid-api/internal/usecase"
	"github.com/mindaid-app/mindaid-api/shared/validate"
)

// JournalHandler serves the journal endpoints.
type JournalHandler struct {
	journalUsecase usecase.JournalUsecase
	validator      *validate.Validator
	logger         *zerolog.Logger
}

// NewJournalHandler creates a new JournalHandler instance.
func NewJournalHandler(
	journalUsecase usecase.JournalUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *JournalHandler {
	return &JournalHandler{
		journalUsecase: journalUsecase,
		validator:      validator,
		logger:         logger,
	}
}

func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req payload.CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.journalUsecase.CreateEntry(r.Context(), usecase.CreateEntryParams{
		UserID: identity.ID,
		Entry:  req.Entry,
		Mood:   req.Mood,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyJournalEntry):
			respondError(w, http.StatusBadRequest, "Journal entry is required")
		default:
			h.logger.Error().Err(err).Msg("failed to create journal entry")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) RecentEntries(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	entries, err := h.journalUsecase.RecentEntries(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list recent journal entries")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *JournalHandler) AISupport(w http.ResponseWriter, r *http.Request) {
	var req payload.AISupportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Journal entry is required")
		return
	}

	feedback, err := h.journalUsecase.AISupport(r.Context(), req.JournalEntry)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyJournalEntry):
			respondError(w, http.StatusBadRequest, "Journal entry is required")
		default:
			h.logger.Error().Err(err).Msg("failed to get ai support")
			respondError(w, http.StatusInternalServerError, "Failed to get AI support")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.AISupportResponse{SupportiveFeedback: feedback})
}

func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	err := h.journalUsecase.DeleteEntry(r.Context(), chi.URLParam(r, "id"), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEntryNotFound):
			respondError(w, http.StatusNotFound, "Journal entry not found")
		case errors.Is(err, usecase.ErrNotEntryOwner):
			respondError(w, http.StatusUnauthorized, "User not authorized")
		default:
			h.logger.Error().Err(err).Msg("failed to delete journal entry")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Journal entry removed"})
}
