package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/payload"
	"github.com/mindaid-app/mindaid-api/internal/usecase"
	"github.com/mindaid-app/mindaid-api/shared/validate"
)

// AuthHandler serves the registration, verification, login, profile, and
// password reset endpoints.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validate.Validator
	logger      *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	validator *validate.Validator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserAlreadyExists):
			respondError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, usecase.ErrEmailSendFailed):
			respondError(w, http.StatusInternalServerError, "Email could not be sent. Please try again.")
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, payload.RegisterResponse{
		Success: true,
		Message: fmt.Sprintf("Verification code sent to %s", req.Email),
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authUsecase.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOTP):
			respondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		default:
			h.logger.Error().Err(err).Msg("failed to verify email")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusCreated, authResponse(user, token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
		case errors.Is(err, usecase.ErrEmailNotVerified):
			respondError(w, http.StatusUnauthorized, "Please verify your email first.")
		default:
			h.logger.Error().Err(err).Msg("failed to log in user")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, authResponse(user, token))
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req payload.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authUsecase.UpdateProfile(r.Context(), identity.ID.Hex(), usecase.UpdateProfileParams{
		Name:        req.Name,
		Email:       req.Email,
		NewPassword: req.Password,
		OldPassword: req.OldPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingOldPassword):
			respondError(w, http.StatusBadRequest, "Please enter your current password to change it.")
		case errors.Is(err, usecase.ErrWrongOldPassword):
			respondError(w, http.StatusUnauthorized, "Invalid current password")
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error().Err(err).Msg("failed to update profile")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, authResponse(user, token))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User with that email does not exist")
		case errors.Is(err, usecase.ErrEmailSendFailed):
			respondError(w, http.StatusInternalServerError, "Email could not be sent")
		default:
			h.logger.Error().Err(err).Msg("failed to start password reset")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": "Email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := chi.URLParam(r, "resettoken")

	var req payload.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidResetToken):
			respondError(w, http.StatusBadRequest, "Invalid or expired token")
		default:
			h.logger.Error().Err(err).Msg("failed to reset password")
			respondError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "data": "Password updated successfully"})
}

func authResponse(user *model.User, token string) payload.AuthResponse {
	return payload.AuthResponse{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}
}
