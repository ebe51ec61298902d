package handlers

import (
	"net/http"

	"staymypg/internal/middleware"
	"staymypg/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions holds the routing decisions taken from configuration
type RouterOptions struct {
	CookieName       string
	RequireOwnerAuth bool
	RequireAdminAuth bool
	// UploadsDir is served under /uploads when set
	UploadsDir string
}

// Router groups the handlers mounted by NewRouter
type Router struct {
	Listings  *ListingHandler
	Inquiries *InquiryHandler
	Users     *UserHandler
	WebSocket *WebSocketHandler
	Sessions  *services.SessionService
}

// NewRouter builds the HTTP routes
func NewRouter(h Router, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(middleware.SessionMiddleware(h.Sessions, opts.CookieName))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/pgs", h.Listings.SearchListings)
		r.Get("/pgs/{id}", h.Listings.GetListing)
		r.Get("/areas", h.Listings.Areas)
		r.Post("/inquiries", h.Inquiries.CreateInquiry)
		r.Post("/users", h.Users.Register)
		r.Post("/sessions", h.Users.Login)
		r.Delete("/sessions", h.Users.Logout)
		r.Get("/sessions/me", h.Users.Me)

		r.Group(func(r chi.Router) {
			if opts.RequireOwnerAuth {
				r.Use(middleware.RequireSession)
			}
			r.Post("/owner/pgs", h.Listings.SubmitListing)
			r.Get("/owner/pgs/{id}", h.Listings.GetOwnerListing)
		})

		r.Group(func(r chi.Router) {
			if opts.RequireAdminAuth {
				r.Use(middleware.RequireSession)
			}
			r.Get("/admin/pending", h.Listings.ListPending)
			r.Post("/admin/pgs/{id}/approve", h.Listings.ApproveListing)
			r.Get("/admin/inquiries", h.Inquiries.ListInquiries)
		})
	})

	r.Group(func(r chi.Router) {
		if opts.RequireAdminAuth {
			r.Use(middleware.RequireSession)
		}
		r.Get("/ws/moderation", h.WebSocket.HandleModerationFeed)
	})

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir)))
		r.Handle("/uploads/*", fs)
	}

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
