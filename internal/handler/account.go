package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/marketplace/internal/model"
)

// AccountService is the slice of service.Marketplace the account routes use.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.Session, error)
}

// AccountHandler serves registration and login.
type AccountHandler struct {
	svc    AccountService
	logger *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(svc AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
}

// HandleRegister creates a user account.
//
// HTTP: POST /api/users
// REQUEST BODY: {"name": "Ana", "email": "ana@example.com", "password": "..."}
// RESPONSE: 201 with the user (no password hash)
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin opens a session and returns its bearer token.
//
// HTTP: POST /api/sessions
// REQUEST BODY: {"email": "ana@example.com", "password": "..."}
// RESPONSE: 201 {"token": "<32 hex chars>", "userId": 1}
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, loginResponse{Token: session.Token, UserID: session.UserID})
}
