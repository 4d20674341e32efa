package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
)

// In-memory stand-ins for the Mongo repositories. They reproduce the
// behavior the usecases rely on: mongo.ErrNoDocuments on misses, natural-key
// upserts, and set semantics for likes.

type fakeMoodRepo struct {
	mu    sync.Mutex
	moods map[string]*model.Mood
}

func newFakeMoodRepo() *fakeMoodRepo {
	return &fakeMoodRepo{moods: make(map[string]*model.Mood)}
}

func moodKey(userID bson.ObjectID, day time.Time) string {
	return userID.Hex() + "/" + day.Format("2006-01-02")
}

func (r *fakeMoodRepo) UpsertMood(
	_ context.Context,
	userID bson.ObjectID,
	day time.Time,
	value int,
) (*model.Mood, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := moodKey(userID, day)
	if existing, ok := r.moods[key]; ok {
		existing.Value = value
		existing.UpdatedAt = time.Now()
		copied := *existing
		return &copied, false, nil
	}

	mood := &model.Mood{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Value:     value,
		Date:      day,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.moods[key] = mood

	copied := *mood
	return &copied, true, nil
}

func (r *fakeMoodRepo) ListMoodsSince(
	_ context.Context,
	userID bson.ObjectID,
	since time.Time,
) ([]*model.Mood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var moods []*model.Mood
	for _, mood := range r.moods {
		if mood.UserID == userID && !mood.Date.Before(since) {
			copied := *mood
			moods = append(moods, &copied)
		}
	}

	sort.Slice(moods, func(i, j int) bool { return moods[i].Date.Before(moods[j].Date) })

	return moods, nil
}

func (r *fakeMoodRepo) AggregateStats(_ context.Context, userID bson.ObjectID) (*model.MoodStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &model.MoodStats{}
	sum := 0
	for _, mood := range r.moods {
		if mood.UserID != userID {
			continue
		}
		sum += mood.Value
		if mood.Value > stats.BestDay {
			stats.BestDay = mood.Value
		}
		stats.DaysTracked++
	}

	if stats.DaysTracked > 0 {
		stats.Average = float64(sum) / float64(stats.DaysTracked)
	}

	return stats, nil
}

type fakeJournalRepo struct {
	mu      sync.Mutex
	entries []*model.Journal
}

func newFakeJournalRepo() *fakeJournalRepo {
	return &fakeJournalRepo{}
}

func (r *fakeJournalRepo) CreateEntry(_ context.Context, entry *model.Journal) (*model.Journal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = bson.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt

	copied := *entry
	r.entries = append(r.entries, &copied)

	return entry, nil
}

func (r *fakeJournalRepo) GetEntry(_ context.Context, id string) (*model.Journal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry.ID.Hex() == id {
			copied := *entry
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeJournalRepo) ListRecentEntries(
	_ context.Context,
	userID bson.ObjectID,
	limit int64,
) ([]*model.Journal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Entries are appended in creation order; newest first means walking
	// backwards.
	var entries []*model.Journal
	for i := len(r.entries) - 1; i >= 0 && int64(len(entries)) < limit; i-- {
		if r.entries[i].UserID == userID {
			copied := *r.entries[i]
			entries = append(entries, &copied)
		}
	}

	return entries, nil
}

func (r *fakeJournalRepo) DeleteEntry(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.entries {
		if entry.ID.Hex() == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}

	return mongo.ErrNoDocuments
}

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]*model.DailyQuote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]*model.DailyQuote)}
}

func (r *fakeQuoteRepo) GetQuoteByDate(_ context.Context, day time.Time) (*model.DailyQuote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quote, ok := r.quotes[day.Format("2006-01-02")]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *quote
	return &copied, nil
}

func (r *fakeQuoteRepo) CreateQuote(_ context.Context, quote *model.DailyQuote) (*model.DailyQuote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	quote.ID = bson.NewObjectID()
	copied := *quote
	r.quotes[quote.Date.Format("2006-01-02")] = &copied

	return quote, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	order []string
	posts map[string]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*model.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = bson.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []bson.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	copied := clonePost(post)
	r.posts[post.ID.Hex()] = copied
	r.order = append(r.order, post.ID.Hex())

	return post, nil
}

func (r *fakePostRepo) GetPost(_ context.Context, id string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return clonePost(post), nil
}

func (r *fakePostRepo) ListPosts(_ context.Context) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*model.Post
	for i := len(r.order) - 1; i >= 0; i-- {
		if post, ok := r.posts[r.order[i]]; ok {
			posts = append(posts, clonePost(post))
		}
	}

	return posts, nil
}

func (r *fakePostRepo) ToggleLike(_ context.Context, id string, userID bson.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	for i, like := range post.Likes {
		if like == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return clonePost(post), nil
		}
	}

	post.Likes = append(post.Likes, userID)
	return clonePost(post), nil
}

func (r *fakePostRepo) PushComment(_ context.Context, id string, comment model.Comment) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	post.Comments = append(post.Comments, comment)
	return clonePost(post), nil
}

func (r *fakePostRepo) PullComment(_ context.Context, id string, commentID bson.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	for i, comment := range post.Comments {
		if comment.ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			break
		}
	}

	return clonePost(post), nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}

	delete(r.posts, id)
	return nil
}

func clonePost(post *model.Post) *model.Post {
	copied := *post
	copied.Likes = append([]bson.ObjectID(nil), post.Likes...)
	copied.Comments = append([]model.Comment(nil), post.Comments...)
	return &copied
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	r.users[user.ID.Hex()] = &copied

	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserByEmailAndOTP(
	_ context.Context,
	email, otp string,
	now time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email && user.OTP == otp && user.OTP != "" && user.OTPExpiresAt.After(now) {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) GetUserByResetTokenHash(
	_ context.Context,
	tokenHash string,
	now time.Time,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ResetTokenHash == tokenHash && tokenHash != "" && user.ResetExpiresAt.After(now) {
			copied := *user
			return &copied, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Verified != nil {
		user.Verified = *params.Verified
	}
	if params.OTP != nil {
		user.OTP = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		user.OTPExpiresAt = *params.OTPExpiresAt
	}
	if params.ResetTokenHash != nil {
		user.ResetTokenHash = *params.ResetTokenHash
	}
	if params.ResetExpiresAt != nil {
		user.ResetExpiresAt = *params.ResetExpiresAt
	}
	if params.ClearOTP {
		user.OTP = ""
		user.OTPExpiresAt = time.Time{}
	}
	if params.ClearResetToken {
		user.ResetTokenHash = ""
		user.ResetExpiresAt = time.Time{}
	}
	user.UpdatedAt = time.Now()

	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	delete(r.users, id)
	copied := *user
	return &copied, nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (g *fakeGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.err != nil {
		return "", g.err
	}

	return g.reply, nil
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendSimple(to []string, subject, body string) error {
	return m.record(to, subject, body)
}

func (m *fakeMailer) SendHTML(to []string, subject, body, _ string) error {
	return m.record(to, subject, body)
}

func (m *fakeMailer) record(to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}
