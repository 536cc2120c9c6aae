package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-cert-flow/internal/config"
	"github.com/MKhiriev/go-cert-flow/internal/logger"
	"github.com/MKhiriev/go-cert-flow/internal/utils"
	"github.com/MKhiriev/go-cert-flow/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress and
// configures the underlying HTTP client with the resolved base URL and
// request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpServerAdapter) Version(ctx context.Context) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.String()), nil
}

// Signup implements [ServerAdapter]. It POSTs the registration payload to
// POST /api/auth/signup and keeps the bearer token from the Authorization
// response header.
func (h *httpServerAdapter) Signup(ctx context.Context, request models.RegisterRequest) (models.AuthResponse, error) {
	var response models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post("/api/auth/signup")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("signup request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}
	if err = h.keepToken(resp); err != nil {
		return models.AuthResponse{}, fmt.Errorf("signup: %w", err)
	}

	return response, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login and keeps the bearer token from the Authorization
// response header.
func (h *httpServerAdapter) Login(ctx context.Context, request models.LoginRequest) (models.AuthResponse, error) {
	var response models.AuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post("/api/auth/login")
	if err != nil {
		return models.AuthResponse{}, fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.AuthResponse{}, err
	}
	if err = h.keepToken(resp); err != nil {
		return models.AuthResponse{}, fmt.Errorf("login: %w", err)
	}

	return response, nil
}

// Logout implements [ServerAdapter]. The local token is dropped even when
// the request fails, since session tokens are not revocable server-side.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	defer h.SetToken("")

	resp, err := h.authedRequest(ctx).Post("/api/auth/logout")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) Session(ctx context.Context) (*models.Session, error) {
	var response models.SessionResponse

	resp, err := h.authedRequest(ctx).
		SetResult(&response).
		Get("/api/auth/session")
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return response.User, nil
}

func (h *httpServerAdapter) ForgotPassword(ctx context.Context, email string) (models.PasswordResetAck, error) {
	var ack models.PasswordResetAck

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ForgotPasswordRequest{Email: email}).
		SetResult(&ack).
		Post("/api/auth/forgot-password")
	if err != nil {
		return models.PasswordResetAck{}, fmt.Errorf("forgot password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PasswordResetAck{}, err
	}

	return ack, nil
}

func (h *httpServerAdapter) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post("/api/auth/reset-password")
	if err != nil {
		return fmt.Errorf("reset password request: %w", err)
	}

	return mapHTTPError(resp)
}

// ListCertificates implements [ServerAdapter]. [models.ScopeAll] is sent as
// ?filter=all; the default scope sends no query.
func (h *httpServerAdapter) ListCertificates(ctx context.Context, scope models.ListScope) ([]models.Application, error) {
	var response models.ApplicationListResponse

	req := h.authedRequest(ctx).SetResult(&response)
	if scope == models.ScopeAll {
		req.SetQueryParam("filter", string(models.ScopeAll))
	}

	resp, err := req.Get("/api/certificates")
	if err != nil {
		return nil, fmt.Errorf("list certificates request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return response.Certificates, nil
}

func (h *httpServerAdapter) SubmitCertificate(ctx context.Context, request models.SubmitRequest) (models.ApplicationResponse, error) {
	var response models.ApplicationResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post("/api/certificates")
	if err != nil {
		return models.ApplicationResponse{}, fmt.Errorf("submit certificate request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ApplicationResponse{}, err
	}

	return response, nil
}

// DecideCertificate implements [ServerAdapter]. Returns [ErrConflict]
// (wrapped) when the application was already reviewed at the caller's level.
func (h *httpServerAdapter) DecideCertificate(ctx context.Context, request models.DecisionRequest) (models.ApplicationResponse, error) {
	var response models.ApplicationResponse

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&response).
		Post("/api/certificates/approve")
	if err != nil {
		return models.ApplicationResponse{}, fmt.Errorf("decide certificate request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ApplicationResponse{}, err
	}

	return response, nil
}

func (h *httpServerAdapter) DownloadCertificate(ctx context.Context, applicationID int64) (models.CertificateSnapshot, error) {
	var response models.SnapshotResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("id", strconv.FormatInt(applicationID, 10)).
		SetResult(&response).
		Get("/api/certificates/download/{id}")
	if err != nil {
		return models.CertificateSnapshot{}, fmt.Errorf("download certificate request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CertificateSnapshot{}, err
	}

	return response.Certificate, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (h *httpServerAdapter) keepToken(resp *resty.Response) error {
	header := resp.Header().Get("Authorization")
	if header == "" {
		return ErrNoTokenInResponse
	}

	token, err := utils.ParseBearerToken(header)
	if err != nil {
		return fmt.Errorf("parse bearer token: %w", err)
	}

	h.SetToken(token)
	h.logger.Debug().Msg("session token stored")
	return nil
}
