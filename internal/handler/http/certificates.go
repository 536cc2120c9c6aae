package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-cert-flow/internal/app"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/service"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/go-chi/chi/v5"
)

// listCertificates returns the caller's view of the applications. Reviewers
// pass ?filter=all to see every record instead of their work queue.
func (h *Handler) listCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		h.writeError(w, r, "*Handler.listCertificates", service.ErrNoSession)
		return
	}

	scope := models.ScopeDefault
	if r.URL.Query().Get("filter") == string(models.ScopeAll) {
		scope = models.ScopeAll
	}

	applications, err := h.services.WorkflowService.ListFor(ctx, session, scope)
	if err != nil {
		h.writeError(w, r, "*Handler.listCertificates", err)
		return
	}
	if applications == nil {
		applications = []models.Application{}
	}

	utils.WriteJSON(w, models.ApplicationListResponse{Certificates: applications}, http.StatusOK)
}

func (h *Handler) submitCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		h.writeError(w, r, "*Handler.submitCertificate", service.ErrNoSession)
		return
	}

	var request models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	application, err := h.services.WorkflowService.Submit(ctx, session, request)
	if err != nil {
		h.writeError(w, r, "*Handler.submitCertificate", err)
		return
	}

	utils.WriteJSON(w, models.ApplicationResponse{
		Message:     "Application submitted successfully",
		Certificate: application,
	}, http.StatusCreated)
}

func (h *Handler) decideCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		h.writeError(w, r, "*Handler.decideCertificate", service.ErrNoSession)
		return
	}

	var request models.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg(app.MsgInvalidJSON)
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	application, err := h.services.WorkflowService.Decide(ctx, session, request)
	if err != nil {
		h.writeError(w, r, "*Handler.decideCertificate", err)
		return
	}

	outcome, _ := request.Action.Outcome()
	utils.WriteJSON(w, models.ApplicationResponse{
		Message:     "Certificate " + decisionVerb(outcome) + " successfully",
		Certificate: application,
	}, http.StatusOK)
}

func (h *Handler) downloadCertificate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := utils.GetSessionFromContext(ctx)
	if !ok {
		h.writeError(w, r, "*Handler.downloadCertificate", service.ErrNoSession)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, r, "*Handler.downloadCertificate", ErrInvalidCertificateID)
		return
	}

	snapshot, err := h.services.WorkflowService.FetchForRender(ctx, session, id)
	if err != nil {
		h.writeError(w, r, "*Handler.downloadCertificate", err)
		return
	}

	utils.WriteJSON(w, models.SnapshotResponse{Certificate: snapshot}, http.StatusOK)
}

func decisionVerb(status models.ReviewStatus) string {
	if status == models.StatusApproved {
		return "approved"
	}
	return "rejected"
}
