package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
	"github.com/mindaid-app/mindaid-api/internal/usecase"
	"github.com/mindaid-app/mindaid-api/shared/auth"
	"github.com/mindaid-app/mindaid-api/shared/validate"
)

// Stub usecases return canned values through function fields so each test
// controls exactly one behavior.

type stubMoodUsecase struct {
	saveMood  func(ctx context.Context, userID bson.ObjectID, value int) (*model.Mood, bool, error)
	dashboard func(ctx context.Context, userID bson.ObjectID, displayName string) (*usecase.DashboardData, error)
	tracker   func(ctx context.Context, userID bson.ObjectID) (*usecase.TrackerData, error)
}

func (s *stubMoodUsecase) SaveMood(ctx context.Context, userID bson.ObjectID, value int) (*model.Mood, bool, error) {
	return s.saveMood(ctx, userID, value)
}

func (s *stubMoodUsecase) Dashboard(ctx context.Context, userID bson.ObjectID, displayName string) (*usecase.DashboardData, error) {
	return s.dashboard(ctx, userID, displayName)
}

func (s *stubMoodUsecase) Tracker(ctx context.Context, userID bson.ObjectID) (*usecase.TrackerData, error) {
	return s.tracker(ctx, userID)
}

type stubCommunityUsecase struct {
	listPosts     func(ctx context.Context) ([]*model.Post, error)
	createPost    func(ctx context.Context, params usecase.CreatePostParams) (*model.Post, error)
	toggleLike    func(ctx context.Context, postID string, userID bson.ObjectID) (*model.Post, error)
	addComment    func(ctx context.Context, params usecase.AddCommentParams) (*model.Post, error)
	deletePost    func(ctx context.Context, postID string, requesterID bson.ObjectID) error
	deleteComment func(ctx context.Context, postID, commentID string, requesterID bson.ObjectID) ([]model.Comment, error)
}

func (s *stubCommunityUsecase) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return s.listPosts(ctx)
}

func (s *stubCommunityUsecase) CreatePost(ctx context.Context, params usecase.CreatePostParams) (*model.Post, error) {
	return s.createPost(ctx, params)
}

func (s *stubCommunityUsecase) ToggleLike(ctx context.Context, postID string, userID bson.ObjectID) (*model.Post, error) {
	return s.toggleLike(ctx, postID, userID)
}

func (s *stubCommunityUsecase) AddComment(ctx context.Context, params usecase.AddCommentParams) (*model.Post, error) {
	return s.addComment(ctx, params)
}

func (s *stubCommunityUsecase) DeletePost(ctx context.Context, postID string, requesterID bson.ObjectID) error {
	return s.deletePost(ctx, postID, requesterID)
}

func (s *stubCommunityUsecase) DeleteComment(ctx context.Context, postID, commentID string, requesterID bson.ObjectID) ([]model.Comment, error) {
	return s.deleteComment(ctx, postID, commentID, requesterID)
}

type stubJournalUsecase struct {
	createEntry   func(ctx context.Context, params usecase.CreateEntryParams) (*model.Journal, error)
	recentEntries func(ctx context.Context, userID bson.ObjectID) ([]*model.Journal, error)
	deleteEntry   func(ctx context.Context, entryID string, requesterID bson.ObjectID) error
	aiSupport     func(ctx context.Context, entryText string) (string, error)
}

func (s *stubJournalUsecase) CreateEntry(ctx context.Context, params usecase.CreateEntryParams) (*model.Journal, error) {
	return s.createEntry(ctx, params)
}

func (s *stubJournalUsecase) RecentEntries(ctx context.Context, userID bson.ObjectID) ([]*model.Journal, error) {
	return s.recentEntries(ctx, userID)
}

func (s *stubJournalUsecase) DeleteEntry(ctx context.Context, entryID string, requesterID bson.ObjectID) error {
	return s.deleteEntry(ctx, entryID, requesterID)
}

func (s *stubJournalUsecase) AISupport(ctx context.Context, entryText string) (string, error) {
	return s.aiSupport(ctx, entryText)
}

type stubAuthUsecase struct {
	register       func(ctx context.Context, params usecase.RegisterParams) error
	verifyEmail    func(ctx context.Context, email, otp string) (*model.User, string, error)
	login          func(ctx context.Context, params usecase.LoginParams) (*model.User, string, error)
	updateProfile  func(ctx context.Context, userID string, params usecase.UpdateProfileParams) (*model.User, string, error)
	forgotPassword func(ctx context.Context, email string) error
	resetPassword  func(ctx context.Context, token, newPassword string) error
}

func (s *stubAuthUsecase) Register(ctx context.Context, params usecase.RegisterParams) error {
	return s.register(ctx, params)
}

func (s *stubAuthUsecase) VerifyEmail(ctx context.Context, email, otp string) (*model.User, string, error) {
	return s.verifyEmail(ctx, email, otp)
}

func (s *stubAuthUsecase) Login(ctx context.Context, params usecase.LoginParams) (*model.User, string, error) {
	return s.login(ctx, params)
}

func (s *stubAuthUsecase) UpdateProfile(ctx context.Context, userID string, params usecase.UpdateProfileParams) (*model.User, string, error) {
	return s.updateProfile(ctx, userID, params)
}

func (s *stubAuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotPassword(ctx, email)
}

func (s *stubAuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetPassword(ctx, token, newPassword)
}

// stubUserRepo backs the auth middleware with a single known user.
type stubUserRepo struct {
	user *model.User
}

func (r *stubUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	if r.user != nil && r.user.ID.Hex() == id {
		return r.user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) CreateUser(context.Context, *model.User) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) GetUserByEmail(context.Context, string) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) GetUserByEmailAndOTP(context.Context, string, string, time.Time) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) GetUserByResetTokenHash(context.Context, string, time.Time) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) UpdateUser(context.Context, string, repository.UpdateUserParams) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubUserRepo) DeleteUser(context.Context, string) (*model.User, error) {
	return nil, mongo.ErrNoDocuments
}

var testJWTAuth = auth.NewJWTAuthenticator("test-secret", "mindaid", "mindaid")

func newTestValidator(t *testing.T) *validate.Validator {
	t.Helper()

	v, err := validate.New()
	require.NoError(t, err)
	return v
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// testRouter wires the full chi router around stub usecases and a real JWT
// middleware backed by the given user.
func testRouter(
	t *testing.T,
	user *model.User,
	mood usecase.MoodUsecase,
	community usecase.CommunityUsecase,
	journal usecase.JournalUsecase,
	authUC usecase.AuthUsecase,
) http.Handler {
	t.Helper()

	validator := newTestValidator(t)
	logger := nopLogger()

	if mood == nil {
		mood = &stubMoodUsecase{}
	}
	if community == nil {
		community = &stubCommunityUsecase{}
	}
	if journal == nil {
		journal = &stubJournalUsecase{}
	}
	if authUC == nil {
		authUC = &stubAuthUsecase{}
	}

	middleware := NewAuthMiddleware(testJWTAuth, &stubUserRepo{user: user}, logger)

	return NewRouter(
		middleware,
		NewAuthHandler(authUC, validator, logger),
		NewMoodHandler(mood, validator, logger),
		NewCommunityHandler(community, validator, logger),
		NewJournalHandler(journal, validator, logger),
	)
}

func testUser() *model.User {
	return &model.User{
		ID:       bson.NewObjectID(),
		Name:     "Dana",
		Email:    "dana@example.com",
		Verified: true,
	}
}

func bearerToken(t *testing.T, userID bson.ObjectID) string {
	t.Helper()

	token, err := testJWTAuth.GenerateToken(userID.Hex(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(
	t *testing.T,
	router http.Handler,
	method, target, authorization string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), v))
}
