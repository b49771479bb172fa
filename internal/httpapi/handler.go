// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/internal/observability"
	"github.com/usercenter/usercenter/pkg/errutil"
)

// AuthService is the subset of auth.Service the API calls.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (int64, error)
	Login(ctx context.Context, accountName, password, sessionID string) (*auth.SafeUser, error)
	Logout(ctx context.Context, sessionID string) (bool, error)
	Current(ctx context.Context, sessionID string) (*auth.SafeUser, error)
	Search(ctx context.Context, sessionID, fragment string) ([]*auth.SafeUser, error)
	Delete(ctx context.Context, sessionID string, id int64) (bool, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	// MaxAge of zero makes it a browser-session cookie.
	MaxAge time.Duration
}

// Metric status labels that are not error codes.
const (
	statusOK         = "ok"
	statusRejected   = "rejected"
	statusBadRequest = "bad_request"
	statusUnknown    = "unknown"
)

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	AccountName      string `json:"userAccount"`
	Password         string `json:"userPassword"`
	ConfirmPassword  string `json:"checkPassword"`
	RegistrationCode string `json:"planetCode"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	AccountName string `json:"userAccount"`
	Password    string `json:"userPassword"`
}

// DeleteRequest is the admin delete payload.
type DeleteRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// Handler serves the user endpoints.
type Handler struct {
	service AuthService
	cookie  CookieConfig
	metrics *observability.Metrics
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(service AuthService, cookie CookieConfig, metrics *observability.Metrics) *Handler {
	return &Handler{service: service, cookie: cookie, metrics: metrics}
}

// Register creates an account and returns its ID.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuth("register", statusBadRequest)
		respondParamsError(c, "malformed request body")
		return
	}

	id, err := h.service.Register(c.Request.Context(), auth.RegisterRequest{
		AccountName:      req.AccountName,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		RegistrationCode: req.RegistrationCode,
	})
	if err != nil {
		h.record("register", err)
		respondError(c, err)
		return
	}
	if id == auth.InvalidUserID {
		h.metrics.RecordAuth("register", statusRejected)
	} else {
		h.metrics.RecordAuth("register", statusOK)
	}
	respondOK(c, id)
}

// Login authenticates and binds the user to a freshly issued session ID.
// Any session the caller already held is ended, so a cookie value planted by
// someone else never becomes authenticated.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuth("login", statusBadRequest)
		respondParamsError(c, "malformed request body")
		return
	}

	sessionID, err := auth.NewSessionID()
	if err != nil {
		h.record("login", err)
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.service.Login(ctx, req.AccountName, req.Password, sessionID)
	if err != nil {
		h.record("login", err)
		respondError(c, err)
		return
	}
	if user == nil {
		h.metrics.RecordAuth("login", statusRejected)
		respondOK(c, nil)
		return
	}

	if previous := h.sessionID(c); previous != "" {
		if _, err := h.service.Logout(ctx, previous); err != nil {
			loggerFrom(c).WarnContext(ctx, "failed to end previous session", "error", err)
		}
	}

	h.setSessionCookie(c, sessionID)
	h.metrics.RecordAuth("login", statusOK)
	respondOK(c, user)
}

// Logout ends the caller's session. The cookie is cleared either way.
func (h *Handler) Logout(c *gin.Context) {
	existed, err := h.service.Logout(c.Request.Context(), h.sessionID(c))
	if err != nil {
		h.record("logout", err)
		respondError(c, err)
		return
	}
	h.setCookie(c, "", -1)
	h.metrics.RecordAuth("logout", statusOK)
	respondOK(c, existed)
}

// Current returns the user bound to the caller's session.
func (h *Handler) Current(c *gin.Context) {
	user, err := h.service.Current(c.Request.Context(), h.sessionID(c))
	h.record("current", err)
	if err != nil {
		respondError(c, err)
		return
	}
	// The server-side TTL slides on every lookup; keep the cookie in step.
	h.setSessionCookie(c, h.sessionID(c))
	respondOK(c, user)
}

// Search lists users whose account name contains the userAccount query.
func (h *Handler) Search(c *gin.Context) {
	users, err := h.service.Search(c.Request.Context(), h.sessionID(c), c.Query("userAccount"))
	h.record("search", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if users == nil {
		users = []*auth.SafeUser{}
	}
	respondOK(c, users)
}

// Delete removes a user by ID.
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordAuth("delete", statusBadRequest)
		respondParamsError(c, "id is required")
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), h.sessionID(c), req.ID)
	h.record("delete", err)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, deleted)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Data: "ok", Message: "ok"})
}

func (h *Handler) sessionID(c *gin.Context) string {
	id, err := c.Cookie(h.cookie.Name)
	if err != nil {
		return ""
	}
	return id
}

func (h *Handler) setSessionCookie(c *gin.Context, sessionID string) {
	h.setCookie(c, sessionID, int(h.cookie.MaxAge.Seconds()))
}

func (h *Handler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// record counts an operation under its error code, or "ok" for a nil error.
func (h *Handler) record(operation string, err error) {
	status := statusOK
	if err != nil {
		status = errutil.Code(err)
		if status == "" {
			status = statusUnknown
		}
	}
	h.metrics.RecordAuth(operation, status)
}
