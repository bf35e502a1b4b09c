package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/service"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	users     *service.UserService
	responder *Responder
	logger    zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, responder *Responder, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		responder: responder,
		logger:    logger.With().Str("handler", "auth").Logger(),
	}
}

// registerRequest is the JSON body for registration.
type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// loginRequest is the JSON body for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse pairs a user with a fresh access token.
type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.users.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusCreated, sessionResponse{User: out.User, Token: out.Token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.users.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, sessionResponse{User: out.User, Token: out.Token})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	out, err := h.users.Get(r.Context(), service.GetUserInput{ID: principal.ID})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.User)
}
