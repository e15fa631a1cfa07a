package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashdeck/internal/api/middleware"
)

// RegisterRoutes mounts the user and deck endpoints on r.
func RegisterRoutes(r chi.Router, users *UserHandler, decks *DeckHandler, authMiddleware *middleware.AuthMiddleware) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", users.Register)
		r.Post("/login", users.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me", users.Me)
			r.Post("/logout", users.Logout)
		})
	})

	r.Route("/decks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/", decks.CreateDeck)
		r.Get("/", decks.ListDecks)

		// Static segments win over {id} in chi, so these never reach the deck routes.
		r.Put("/cards/{cardId}", decks.UpdateCard)
		r.Delete("/cards/{cardId}", decks.DeleteCard)

		r.Get("/{id}", decks.GetDeck)
		r.Put("/{id}", decks.UpdateDeck)
		r.Delete("/{id}", decks.DeleteDeck)
		r.Post("/{id}/cards", decks.CreateCard)
		r.Get("/{id}/cards", decks.ListCards)
	})
}
