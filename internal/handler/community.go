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

// CommunityHandler serves the community feed endpoints.
type CommunityHandler struct {
	communityUsecase usecase.CommunityUsecase
	validator        *validate.Validator
	logger           *zerolog.Logger
}

// NewCommunityHandler creates a new CommunityHandler instance.
func NewCommunityHandler(
	communityUsecase usecase.CommunityUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *CommunityHandler {
	return &CommunityHandler{
		communityUsecase: communityUsecase,
		validator:        validator,
		logger:           logger,
	}
}

func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.communityUsecase.ListPosts(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list posts")
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req payload.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.communityUsecase.CreatePost(r.Context(), usecase.CreatePostParams{
		UserID:      identity.ID,
		DisplayName: identity.Name,
		Text:        req.Text,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyPostText):
			respondError(w, http.StatusBadRequest, "Post text is required")
		default:
			h.logger.Error().Err(err).Msg("failed to create post")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	post, err := h.communityUsecase.ToggleLike(r.Context(), chi.URLParam(r, "id"), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPostNotFound):
			respondError(w, http.StatusNotFound, "Post not found")
		default:
			h.logger.Error().Err(err).Msg("failed to toggle like")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, post)
}

func (h *CommunityHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req payload.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.communityUsecase.AddComment(r.Context(), usecase.AddCommentParams{
		PostID:      chi.URLParam(r, "id"),
		UserID:      identity.ID,
		DisplayName: identity.Name,
		Text:        req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyCommentText):
			respondError(w, http.StatusBadRequest, "Comment text is required")
		case errors.Is(err, usecase.ErrPostNotFound):
			respondError(w, http.StatusNotFound, "Post not found")
		default:
			h.logger.Error().Err(err).Msg("failed to add comment")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, post)
}

func (h *CommunityHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	err := h.communityUsecase.DeletePost(r.Context(), chi.URLParam(r, "id"), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPostNotFound):
			respondError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, usecase.ErrNotPostOwner):
			respondError(w, http.StatusUnauthorized, "User not authorized")
		default:
			h.logger.Error().Err(err).Msg("failed to delete post")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Post removed"})
}

func (h *CommunityHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	comments, err := h.communityUsecase.DeleteComment(
		r.Context(),
		chi.URLParam(r, "postId"),
		chi.URLParam(r, "commentId"),
		identity.ID,
	)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPostNotFound):
			respondError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, usecase.ErrCommentNotFound):
			respondError(w, http.StatusNotFound, "Comment not found")
		case errors.Is(err, usecase.ErrNotCommentOwner):
			respondError(w, http.StatusUnauthorized, "User not authorized")
		default:
			h.logger.Error().Err(err).Msg("failed to delete comment")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, comments)
}
