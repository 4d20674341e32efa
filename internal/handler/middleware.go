package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
	"github.com/mindaid-app/mindaid-api/shared/auth"
)

type contextKey struct{}

// identityKey holds the authenticated *model.User in the request context.
var identityKey = contextKey{}

// AuthMiddleware resolves bearer credentials into a requester identity.
type AuthMiddleware struct {
	jwtAuth  auth.JWTAuthenticator
	userRepo repository.UserRepository
	logger   *zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(
	jwtAuth auth.JWTAuthenticator,
	userRepo repository.UserRepository,
	logger *zerolog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtAuth:  jwtAuth,
		userRepo: userRepo,
		logger:   logger,
	}
}

// RequireAuth validates the Authorization bearer token and loads the user
// behind it. The user is re-read per request so handlers always see the
// current display name.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtAuth.ValidateToken(parts[1])
		if err != nil {
			m.logger.Debug().Err(err).Msg("token validation failed")
			respondError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		user, err := m.userRepo.GetUser(r.Context(), claims.UserID)
		if err != nil {
			m.logger.Debug().Err(err).Str("user_id", claims.UserID).Msg("token user lookup failed")
			respondError(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFrom returns the authenticated user attached by RequireAuth.
func identityFrom(r *http.Request) (*model.User, bool) {
	user, ok := r.Context().Value(identityKey).(*model.User)
	return user, ok
}

// CORS allows the frontend dev server to call the API from another origin.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
