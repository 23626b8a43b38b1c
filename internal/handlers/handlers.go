package handlers

import (
	"context"
	"errors"
	"net/http"

	"finance-tracker/internal/auth"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/validation"

	"github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// Response messages.
const (
	MsgRegistered      = "User registered successfully"
	MsgLoggedIn        = "Login successful"
	MsgUserExists      = "User already exists"
	MsgUserNotFound    = "User not found"
	MsgBadCredentials  = "Invalid email or password"
	MsgDatabaseError   = "Database error"
	MsgRegisterFailed  = "Failed to register user"
	MsgInvalidBody     = "Invalid request body"
	MsgDatabaseDown    = "Database unavailable"
	MsgPasswordTooLong = "password must be at most 72 bytes"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	auth   *auth.Service
	db     Pinger
	logger *applog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *auth.Service, db Pinger, logger *applog.Logger) *Handlers {
	return &Handlers{auth: svc, db: db, logger: logger.WithComponent(applog.ComponentAuth)}
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=100"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is the body of a successful call.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of a failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Register handles account creation.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		var storeErr *auth.StoreError
		switch {
		case errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusConflict, MsgUserExists)
		case errors.Is(err, auth.ErrPasswordTooLong):
			writeError(w, http.StatusBadRequest, MsgPasswordTooLong)
		case errors.As(err, &storeErr) && storeErr.Op == auth.OpLookup:
			h.logger.LogError(r.Context(), "Error checking user existence", err, applog.OpRegister)
			writeError(w, http.StatusInternalServerError, MsgDatabaseError)
		case errors.As(err, &storeErr) && storeErr.Op == auth.OpHash:
			h.logger.LogError(r.Context(), "Error hashing password", err, applog.OpRegister)
			writeError(w, http.StatusInternalServerError, MsgRegisterFailed)
		default:
			h.logger.LogError(r.Context(), "Error inserting user into database", err, applog.OpRegister)
			writeError(w, http.StatusInternalServerError, MsgRegisterFailed)
		}
		return
	}

	h.logger.InfoContext(r.Context(), "User registered", applog.FieldUserID, user.ID)
	writeJSON(w, http.StatusCreated, MessageResponse{Message: MsgRegistered})
}

// Login checks credentials. It does not start a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	_, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, MessageResponse{Message: MsgLoggedIn})
	case errors.Is(err, auth.ErrUserNotFound):
		writeError(w, http.StatusNotFound, MsgUserNotFound)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, MsgBadCredentials)
	default:
		h.logger.LogError(r.Context(), "Error fetching user from database", err, applog.OpLogin, applog.FieldEmail, req.Email)
		writeError(w, http.StatusInternalServerError, MsgDatabaseError)
	}
}

// Health reports whether the database answers.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.LogError(r.Context(), "Health check failed", err, applog.OpHealth)
		writeError(w, http.StatusServiceUnavailable, MsgDatabaseDown)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return false
	}
	if err := validation.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
