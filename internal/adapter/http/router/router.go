package router

import (
	"github.com/ZeyadW/Apartment-Finder/internal/adapter/http/handler"
	"github.com/ZeyadW/Apartment-Finder/internal/adapter/http/middleware"
	"github.com/ZeyadW/Apartment-Finder/internal/apartment/domain"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Apartments *handler.ApartmentHandler
	Developers *handler.DeveloperHandler
	Compounds  *handler.CompoundHandler
	Amenities  *handler.AmenityHandler
	Auth       *handler.AuthHandler
}

// New assembles the full route surface. Search stays public with an optional
// token; mutation routes require the agent or admin role, reference-entity
// mutations and user administration require admin.
func New(h Handlers, jwtSecret string, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.RequestLogger(logger))

	mux.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.HandleRegister)
		r.Post("/login", h.Auth.HandleLogin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Get("/me", h.Auth.HandleMe)
		})
	})

	mux.Route("/api/apartments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalJWTAuth(jwtSecret))
			r.Get("/", h.Apartments.HandleSearch)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Get("/admin", h.Apartments.HandleSearchAdmin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Get("/favorites", h.Apartments.HandleListFavorites)
			// Any authenticated caller may list their own listings; plain
			// users simply own none.
			r.Get("/my-listings", h.Apartments.HandleMyListings)
			r.Post("/{id}/favorite", h.Apartments.HandleAddFavorite)
			r.Delete("/{id}/favorite", h.Apartments.HandleRemoveFavorite)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Use(middleware.RequireRole(domain.RoleAgent, domain.RoleAdmin))
			r.Post("/", h.Apartments.HandleCreate)
			r.Put("/{id}", h.Apartments.HandleUpdate)
			r.Delete("/{id}", h.Apartments.HandleDelete)
			r.Put("/{id}/toggle-availability", h.Apartments.HandleToggleAvailability)
		})

		r.Get("/{id}", h.Apartments.HandleGetByID)
	})

	mux.Route("/api/developers", func(r chi.Router) {
		r.Get("/", h.Developers.HandleGetAll)
		r.Get("/{id}", h.Developers.HandleGetByID)
		r.Get("/{id}/apartments", h.Apartments.HandleByDeveloper)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/", h.Developers.HandleCreate)
			r.Put("/{id}", h.Developers.HandleUpdate)
			r.Delete("/{id}", h.Developers.HandleDelete)
		})
	})

	mux.Route("/api/compounds", func(r chi.Router) {
		r.Get("/", h.Compounds.HandleGetAll)
		r.Get("/{id}", h.Compounds.HandleGetByID)
		r.Get("/{id}/apartments", h.Apartments.HandleByCompound)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/", h.Compounds.HandleCreate)
			r.Put("/{id}", h.Compounds.HandleUpdate)
			r.Delete("/{id}", h.Compounds.HandleDelete)
		})
	})

	mux.Route("/api/amenities", func(r chi.Router) {
		r.Get("/", h.Amenities.HandleGetAll)
		r.Get("/{id}", h.Amenities.HandleGetByID)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Post("/", h.Amenities.HandleCreate)
			r.Put("/{id}", h.Amenities.HandleUpdate)
			r.Delete("/{id}", h.Amenities.HandleDelete)
		})
	})

	mux.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret))
		r.Use(middleware.RequireRole(domain.RoleAdmin))
		r.Get("/", h.Auth.HandleListUsers)
		r.Patch("/{id}/role", h.Auth.HandleUpdateRole)
		r.Patch("/{id}/status", h.Auth.HandleToggleStatus)
	})

	return mux
}
