package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
)

// MoodUsecase defines the business logic for mood tracking and the
// dashboard/tracker aggregates.
type MoodUsecase interface {
	// SaveMood records the user's mood for the current day, overwriting any
	// value already saved today. It reports whether a new entry was created.
	SaveMood(ctx context.Context, userID bson.ObjectID, value int) (*model.Mood, bool, error)

	Dashboard(ctx context.Context, userID bson.ObjectID, displayName string) (*DashboardData, error)
	Tracker(ctx context.Context, userID bson.ObjectID) (*TrackerData, error)
}

// Suggestion is a wellness tool recommendation surfaced on the dashboard.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Quote is the quote of the day.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// DashboardData is the aggregate served to the dashboard page.
type DashboardData struct {
	UserName    string        `json:"userName"`
	WeekHistory []*model.Mood `json:"weekHistory"`
	Suggestion  Suggestion    `json:"suggestion"`
	Quote       Quote         `json:"quote"`
}

// TrackerData is the aggregate served to the mood tracker page.
type TrackerData struct {
	MoodTrend     []*model.Mood    `json:"moodTrend"`
	RecentEntries []*model.Journal `json:"recentEntries"`
	Stats         *model.MoodStats `json:"stats"`
	Insights      []string         `json:"insights"`
}

var (
	ErrInvalidMoodValue = errors.New("mood value must be between 1 and 5")
)

// suggestions rotate by day of month, so every user sees the same tool on a
// given date and a different one the next day. Order matters.
var suggestions = []Suggestion{
	{
		Title:       "4-7-8 Breathing",
		Description: "Feeling overwhelmed? Take 5 minutes to practice deep breathing and center yourself.",
		Link:        "/coping-tools/breathing",
	},
	{
		Title:       "Guided Meditation",
		Description: "Take a short mental break. Reset your mind with a 5-minute guided meditation session.",
		Link:        "/coping-tools/meditation",
	},
	{
		Title:       "Grounding Exercise",
		Description: "Feeling anxious? Use the 5-4-3-2-1 technique to reconnect with the present moment.",
		Link:        "/coping-tools/grounding",
	},
	{
		Title:       "Progressive Relaxation",
		Description: "Release physical tension and stress by slowly relaxing each muscle group in your body.",
		Link:        "/coping-tools/relaxation",
	},
	{
		Title:       "Positive Affirmations",
		Description: "Boost your self-esteem today. Take a moment to read and repeat some positive affirmations.",
		Link:        "/coping-tools/affirmations",
	},
	{
		Title:       "Mood Music",
		Description: "Shift your energy with some calming or uplifting tunes from our curated playlist.",
		Link:        "/coping-tools/music",
	},
}

// insights is a static placeholder until per-user insight generation lands.
var insights = []string{
	"Your mood tends to improve on weekends.",
	"Consider journaling on lower mood days.",
}

// fallbackQuote is served (and cached) whenever the quote generator fails.
var fallbackQuote = Quote{
	Text:   "The greatest revolution of our generation is the discovery that human beings can alter their lives by altering their attitudes.",
	Author: "William James",
}

const quotePrompt = `Generate one short, inspiring quote for a mental wellness app. The quote should be about resilience, mindfulness, hope, or self-compassion.
Provide it in JSON format with "text" and "author" keys.

Example:
{
  "text": "The best way out is always through.",
  "author": "Robert Frost"
}`

type moodUsecase struct {
	moodRepo    repository.MoodRepository
	journalRepo repository.JournalRepository
	quoteRepo   repository.DailyQuoteRepository
	generator   TextGenerator
	logger      *zerolog.Logger
	now         func() time.Time
}

// NewMoodUsecase creates a new instance of MoodUsecase.
func NewMoodUsecase(
	moodRepo repository.MoodRepository,
	journalRepo repository.JournalRepository,
	quoteRepo repository.DailyQuoteRepository,
	generator TextGenerator,
	logger *zerolog.Logger,
) MoodUsecase {
	return &moodUsecase{
		moodRepo:    moodRepo,
		journalRepo: journalRepo,
		quoteRepo:   quoteRepo,
		generator:   generator,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *moodUsecase) SaveMood(
	ctx context.Context,
	userID bson.ObjectID,
	value int,
) (*model.Mood, bool, error) {
	if value < 1 || value > 5 {
		return nil, false, ErrInvalidMoodValue
	}

	today := midnightUTC(u.now())

	return u.moodRepo.UpsertMood(ctx, userID, today, value)
}

func (u *moodUsecase) Dashboard(
	ctx context.Context,
	userID bson.ObjectID,
	displayName string,
) (*DashboardData, error) {
	today := midnightUTC(u.now())

	quote, err := u.resolveDailyQuote(ctx, today)
	if err != nil {
		return nil, err
	}

	weekHistory, err := u.moodRepo.ListMoodsSince(ctx, userID, today.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	if weekHistory == nil {
		weekHistory = []*model.Mood{}
	}

	return &DashboardData{
		UserName:    displayName,
		WeekHistory: weekHistory,
		Suggestion:  suggestionForDay(today),
		Quote:       quote,
	}, nil
}

func (u *moodUsecase) Tracker(ctx context.Context, userID bson.ObjectID) (*TrackerData, error) {
	sevenDaysAgo := midnightUTC(u.now()).AddDate(0, 0, -7)

	moodTrend, err := u.moodRepo.ListMoodsSince(ctx, userID, sevenDaysAgo)
	if err != nil {
		return nil, err
	}
	if moodTrend == nil {
		moodTrend = []*model.Mood{}
	}

	recentEntries, err := u.journalRepo.ListRecentEntries(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	if recentEntries == nil {
		recentEntries = []*model.Journal{}
	}

	stats, err := u.moodRepo.AggregateStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TrackerData{
		MoodTrend:     moodTrend,
		RecentEntries: recentEntries,
		Stats:         stats,
		Insights:      insights,
	}, nil
}

// resolveDailyQuote is a read-through cache keyed by calendar day. On a miss
// it asks the generator for a fresh quote and persists it; any generator or
// parse failure downgrades to the fallback quote. Only persistence failures
// propagate.
func (u *moodUsecase) resolveDailyQuote(ctx context.Context, today time.Time) (Quote, error) {
	cached, err := u.quoteRepo.GetQuoteByDate(ctx, today)
	if err == nil {
		return Quote{Text: cached.Text, Author: cached.Author}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return Quote{}, err
	}

	quote := u.generateQuote(ctx)

	if _, err := u.quoteRepo.CreateQuote(ctx, &model.DailyQuote{
		Text:   quote.Text,
		Author: quote.Author,
		Date:   today,
	}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Another request cached today's quote first; use theirs.
			winner, err := u.quoteRepo.GetQuoteByDate(ctx, today)
			if err != nil {
				return Quote{}, err
			}
			return Quote{Text: winner.Text, Author: winner.Author}, nil
		}
		return Quote{}, err
	}

	return quote, nil
}

func (u *moodUsecase) generateQuote(ctx context.Context) Quote {
	raw, err := u.generator.GenerateText(ctx, quotePrompt)
	if err != nil {
		u.logger.Warn().Err(err).Msg("quote generation failed, using fallback quote")
		return fallbackQuote
	}

	var quote Quote
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &quote); err != nil {
		u.logger.Warn().Err(err).Msg("quote generation returned unparsable JSON, using fallback quote")
		return fallbackQuote
	}

	if quote.Text == "" {
		return fallbackQuote
	}

	return quote
}

func suggestionForDay(day time.Time) Suggestion {
	return suggestions[day.Day()%len(suggestions)]
}

// stripCodeFences removes the markdown code fences Gemini tends to wrap JSON
// answers in.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// midnightUTC normalizes t to the start of its UTC calendar day. Using a
// fixed zone keeps the one-entry-per-day natural key unambiguous.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
