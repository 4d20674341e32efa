package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mindaid-app/mindaid-api/internal/config"
	"github.com/mindaid-app/mindaid-api/internal/handler"
	"github.com/mindaid-app/mindaid-api/internal/repository"
	"github.com/mindaid-app/mindaid-api/internal/usecase"
	"github.com/mindaid-app/mindaid-api/shared/auth"
	"github.com/mindaid-app/mindaid-api/shared/genai"
	"github.com/mindaid-app/mindaid-api/shared/mailer"
	"github.com/mindaid-app/mindaid-api/shared/validate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	moodRepo := repository.NewMoodMongoRepository(ctx, &logger, db)
	journalRepo := repository.NewJournalMongoRepository(db)
	postRepo := repository.NewPostMongoRepository(db)
	quoteRepo := repository.NewDailyQuoteMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.Issuer)
	smtpMailer := mailer.NewMailer(&logger)
	generator := genai.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)

	validator, err := validate.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build validator")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth, smtpMailer, cfg.Token.ExpiresIn, cfg.AppResetPasswordURL)
	moodUsecase := usecase.NewMoodUsecase(moodRepo, journalRepo, quoteRepo, generator, &logger)
	communityUsecase := usecase.NewCommunityUsecase(postRepo)
	journalUsecase := usecase.NewJournalUsecase(journalRepo, generator, &logger)

	authMiddleware := handler.NewAuthMiddleware(jwtAuth, userRepo, &logger)
	router := handler.NewRouter(
		authMiddleware,
		handler.NewAuthHandler(authUsecase, validator, &logger),
		handler.NewMoodHandler(moodUsecase, validator, &logger),
		handler.NewCommunityHandler(communityUsecase, validator, &logger),
		handler.NewJournalHandler(journalUsecase, validator, &logger),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
