package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, withLogging, withGZip)
	if h.options.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.options.RequestTimeout))
	}
	router.Use(h.withSession)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version", h.getServerVersion)

		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
		r.Get("/api/auth/session", h.session)
		r.Post("/api/auth/forgot-password", h.forgotPassword)
		r.Post("/api/auth/reset-password", h.resetPassword)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get("/api/certificates", h.listCertificates)
		r.Post("/api/certificates", h.submitCertificate)
		r.Post("/api/certificates/approve", h.decideCertificate)
		r.Get("/api/certificates/download/{id}", h.downloadCertificate)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
