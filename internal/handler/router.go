package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the REST API. Everything except registration, login,
// verification, and password reset sits behind RequireAuth.
func NewRouter(
	authMiddleware *AuthMiddleware,
	authHandler *AuthHandler,
	moodHandler *MoodHandler,
	communityHandler *CommunityHandler,
	journalHandler *JournalHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.VerifyEmail)
		r.Post("/forgotpassword", authHandler.ForgotPassword)
		r.Put("/resetpassword/{resettoken}", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)
			r.Put("/profile", authHandler.UpdateProfile)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Route("/api/mood", func(r chi.Router) {
			r.Post("/", moodHandler.SaveMood)
			r.Get("/dashboard", moodHandler.Dashboard)
			r.Get("/tracker", moodHandler.Tracker)
		})

		r.Route("/api/community", func(r chi.Router) {
			r.Get("/posts", communityHandler.ListPosts)
			r.Post("/posts", communityHandler.CreatePost)
			r.Put("/posts/{id}/like", communityHandler.ToggleLike)
			r.Post("/posts/{id}/comment", communityHandler.AddComment)
			r.Delete("/posts/{id}", communityHandler.DeletePost)
			r.Delete("/posts/{postId}/comments/{commentId}", communityHandler.DeleteComment)
		})

		r.Route("/api/journal", func(r chi.Router) {
			r.Post("/", journalHandler.CreateEntry)
			r.Get("/recent", journalHandler.RecentEntries)
			r.Post("/ai-support", journalHandler.AISupport)
			r.Delete("/{id}", journalHandler.DeleteEntry)
		})
	})

	return r
}
