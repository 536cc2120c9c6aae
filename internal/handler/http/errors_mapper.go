package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-cert-flow/internal/app"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/store"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is matched top to bottom, so wrapping sentinels come
// before the ones they wrap.
var errorResponses = []errorResponse{
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgAllFieldsRequired},
	{service.ErrPasswordTooShort, http.StatusBadRequest, app.MsgPasswordTooShort},
	{service.ErrInvalidCertificateType, http.StatusBadRequest, app.MsgInvalidCertificateType},
	{service.ErrInvalidDecisionAction, http.StatusBadRequest, app.MsgInvalidDecision},
	{service.ErrResetTokenInvalidOrExpired, http.StatusBadRequest, app.MsgInvalidResetToken},
	{service.ErrCertificateNotApproved, http.StatusBadRequest, app.MsgNotYetApproved},

	{service.ErrInvalidCredentials, http.StatusUnauthorized, app.MsgInvalidCredentials},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized, app.MsgUnauthorized},
	{service.ErrNoSession, http.StatusUnauthorized, app.MsgUnauthorized},

	{service.ErrForbidden, http.StatusForbidden, app.MsgForbidden},

	{ErrInvalidCertificateID, http.StatusNotFound, app.MsgCertificateNotFound},
	{store.ErrApplicationNotFound, http.StatusNotFound, app.MsgCertificateNotFound},
	{store.ErrAccountNotFound, http.StatusNotFound, app.MsgAccountNotFound},

	{service.ErrAlreadyReviewed, http.StatusConflict, app.MsgAlreadyProcessed},
	{service.ErrLevel1ApprovalRequired, http.StatusConflict, app.MsgHODApprovalRequired},
	{store.ErrEmailAlreadyExists, http.StatusConflict, app.MsgEmailAlreadyRegistered},
	{store.ErrRegNoAlreadyExists, http.StatusConflict, app.MsgRegisterNumberDuplicate},
	{store.ErrVersionConflict, http.StatusConflict, app.MsgAlreadyProcessed},
}

// responseFromError picks the status code and client-facing message for
// err. Unknown errors are internal.
func responseFromError(err error) (int, string) {
	for _, e := range errorResponses {
		if errors.Is(err, e.target) {
			return e.status, e.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

// writeError logs err and writes the mapped {"error": ...} response. The
// error text itself never reaches the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	log := logger.FromRequest(r)

	status, message := responseFromError(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}

	utils.WriteError(w, message, status)
}
