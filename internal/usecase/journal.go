package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mindaid-app/mindaid-api/internal/model"
	"github.com/mindaid-app/mindaid-api/internal/repository"
)

// JournalUsecase defines the business logic for journal entries and the
// AI support feature.
type JournalUsecase interface {
	CreateEntry(ctx context.Context, params CreateEntryParams) (*model.Journal, error)

	// RecentEntries returns the user's last five entries, newest first.
	RecentEntries(ctx context.Context, userID bson.ObjectID) ([]*model.Journal, error)

	DeleteEntry(ctx context.Context, entryID string, requesterID bson.ObjectID) error

	// AISupport asks the text generator for a short empathetic reply to the
	// entry. Generator failures degrade to a fixed fallback sentence; they
	// never break the journal flow.
	AISupport(ctx context.Context, entryText string) (string, error)
}

// CreateEntryParams defines the parameters for creating a journal entry.
type CreateEntryParams struct {
	UserID bson.ObjectID
	Entry  string
	Mood   string
}

var (
	ErrEmptyJournalEntry = errors.New("journal entry is required")
	ErrEntryNotFound     = errors.New("journal entry not found")
	ErrNotEntryOwner     = errors.New("requester does not own the journal entry")
)

const recentEntriesLimit = 5

// aiSupportFallback is returned whenever the generator is unavailable.
const aiSupportFallback = "I'm having a little trouble responding right now, but your feelings are completely valid."

const aiSupportPromptFormat = `You are MindAid, a supportive and empathetic AI companion.
A user has shared their journal entry with you.
Your goal is to provide a short, compassionate, and non-judgmental response.
Acknowledge their feelings and offer gentle encouragement.
Do not give medical advice. Keep the response to 2-3 sentences.

User's Entry: %q

Your Response:`

type journalUsecase struct {
	journalRepo repository.JournalRepository
	generator   TextGenerator
	logger      *zerolog.Logger
}

// NewJournalUsecase creates a new instance of JournalUsecase.
func NewJournalUsecase(
	journalRepo repository.JournalRepository,
	generator TextGenerator,
	logger *zerolog.Logger,
) JournalUsecase {
	return &journalUsecase{
		journalRepo: journalRepo,
		generator:   generator,
		logger:      logger,
	}
}

func (u *journalUsecase) CreateEntry(ctx context.Context, params CreateEntryParams) (*model.Journal, error) {
	if strings.TrimSpace(params.Entry) == "" {
		return nil, ErrEmptyJournalEntry
	}

	return u.journalRepo.CreateEntry(ctx, &model.Journal{
		UserID: params.UserID,
		Entry:  params.Entry,
		Mood:   params.Mood,
	})
}

func (u *journalUsecase) RecentEntries(ctx context.Context, userID bson.ObjectID) ([]*model.Journal, error) {
	entries, err := u.journalRepo.ListRecentEntries(ctx, userID, recentEntriesLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*model.Journal{}
	}

	return entries, nil
}

func (u *journalUsecase) DeleteEntry(
	ctx context.Context,
	entryID string,
	requesterID bson.ObjectID,
) error {
	entry, err := u.journalRepo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntryNotFound
		}
		return err
	}

	if entry.UserID != requesterID {
		return ErrNotEntryOwner
	}

	if err := u.journalRepo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEntryNotFound
		}
		return err
	}

	return nil
}

func (u *journalUsecase) AISupport(ctx context.Context, entryText string) (string, error) {
	if strings.TrimSpace(entryText) == "" {
		return "", ErrEmptyJournalEntry
	}

	reply, err := u.generator.GenerateText(ctx, fmt.Sprintf(aiSupportPromptFormat, entryText))
	if err != nil {
		u.logger.Warn().Err(err).Msg("ai support generation failed, using fallback reply")
		return aiSupportFallback, nil
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return aiSupportFallback, nil
	}

	return reply, nil
}
