package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/mindaid-app/mindaid-api/internal/model"
)

func requireAuthProbe(t *testing.T, user *model.User) http.Handler {
	t.Helper()

	middleware := NewAuthMiddleware(testJWTAuth, &stubUserRepo{user: user}, nopLogger())
	return middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		require.True(t, ok)
		w.Header().Set("X-User-Name", identity.Name)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	user := testUser()
	probe := requireAuthProbe(t, user)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearerToken(t, user.ID))

	recorder := httptest.NewRecorder()
	probe.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Dana", recorder.Header().Get("X-User-Name"))
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	probe := requireAuthProbe(t, testUser())

	recorder := httptest.NewRecorder()
	probe.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	probe := requireAuthProbe(t, testUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")

	recorder := httptest.NewRecorder()
	probe.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuthRejectsTokenForDeletedUser(t *testing.T) {
	// Token is valid but the user behind it no longer exists.
	probe := requireAuthProbe(t, testUser())

	token, err := testJWTAuth.GenerateToken(bson.NewObjectID().Hex(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	recorder := httptest.NewRecorder()
	probe.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/mood/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}
