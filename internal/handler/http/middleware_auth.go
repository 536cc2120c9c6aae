package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
)

// sessionCookieName is the cookie that carries the session token for
// browser clients.
const sessionCookieName = "auth-token"

// withSession establishes the caller's session, if any.
//
// The token is taken from the "Authorization: Bearer <token>" header or,
// when the header is absent, from the [sessionCookieName] cookie. A valid
// token is verified via [service.AuthService.ParseToken] and the resulting
// session is stored in the request context with [utils.WithSession].
//
// A missing, malformed, expired or forged token never fails the request
// here: the request simply proceeds without a session. Routes that need a
// caller are wrapped in [Handler.requireSession].
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := tokenFromRequest(r)
		if err != nil {
			if !errors.Is(err, ErrNoSessionToken) {
				log.Debug().Err(err).Msg("session token ignored")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		session, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("session token rejected")
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithSession(ctx, session)))
	})
}

// requireSession answers 401 Unauthorized unless withSession attached a
// session to the request.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetSessionFromContext(r.Context()); !ok {
			logger.FromRequest(r).Debug().Str("uri", r.RequestURI).Msg("no session")
			h.writeError(w, r, "*Handler.requireSession", service.ErrNoSession)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tokenFromRequest returns the raw session token carried by r.
//
// It returns:
//   - [ErrNoSessionToken] if there is neither a header nor a cookie.
//   - [ErrInvalidAuthorizationHeader] if the header is not a bearer token.
func tokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			return "", ErrInvalidAuthorizationHeader
		}
		return tokenString, nil
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSessionToken
	}

	return cookie.Value, nil
}
