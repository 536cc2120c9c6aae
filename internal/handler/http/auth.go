package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-cert-flow/internal/app"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
)

// defaultSessionTTL is the cookie lifetime used when Options.SessionTTL is
// not set.
const defaultSessionTTL = 7 * 24 * time.Hour

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		h.writeError(w, r, "*Handler.signup", err)
		return
	}

	h.setSessionToken(w, token)
	utils.WriteJSON(w, models.AuthResponse{Message: "Account created successfully", Role: token.Session.Role}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.Authenticate(ctx, request)
	if err != nil {
		h.writeError(w, r, "*Handler.login", err)
		return
	}

	log.Debug().Int64("account_id", token.Session.AccountID).Msg("account successfully logged in")

	h.setSessionToken(w, token)
	utils.WriteJSON(w, models.AuthResponse{Message: "Login successful", Role: token.Session.Role}, http.StatusOK)
}

// logout expires the session cookie. Bearer tokens are stateless and stay
// valid until they expire.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.sessionCookie("", -1))
	utils.WriteJSON(w, models.MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// session reports the caller's identity, or a null user when there is no
// valid session.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	var response models.SessionResponse
	if session, ok := utils.GetSessionFromContext(r.Context()); ok {
		response.User = &session
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	ack, err := h.services.AuthService.RequestPasswordReset(ctx, request.Email)
	if err != nil {
		h.writeError(w, r, "*Handler.forgotPassword", err)
		return
	}

	utils.WriteJSON(w, ack, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ConsumePasswordReset(ctx, request.Token, request.Password); err != nil {
		h.writeError(w, r, "*Handler.resetPassword", err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: "Password reset successfully"}, http.StatusOK)
}

// setSessionToken hands token to the client both as a bearer header for API
// clients and as an HttpOnly cookie for browsers.
func (h *Handler) setSessionToken(w http.ResponseWriter, token models.Token) {
	maxAge := h.options.SessionTTL
	if maxAge <= 0 {
		maxAge = defaultSessionTTL
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	http.SetCookie(w, h.sessionCookie(token.SignedString, int(maxAge.Seconds())))
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.options.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
