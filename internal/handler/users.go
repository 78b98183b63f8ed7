package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/security/audit"
	"github.com/scottkoskoski/gardening-app/internal/service"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// RegisterResponse is returned by POST /users/register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

// LoginResponse contains the JWT token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"user_id"`
}

// UserHandler serves the /users routes.
type UserHandler struct {
	auth         *service.AuthService
	profiles     *service.ProfileService
	audit        *audit.Logger
	inactiveDays int
	logger       *slog.Logger
}

// NewUserHandler creates a new user handler. inactiveDays is the default
// window for the inactive users report.
func NewUserHandler(authSvc *service.AuthService, profiles *service.ProfileService, auditLog *audit.Logger, inactiveDays int, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		auth:         authSvc,
		profiles:     profiles,
		audit:        auditLog,
		inactiveDays: inactiveDays,
		logger:       logger,
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, RegisterResponse{Message: "User registered successfully", UserID: user.ID})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Authenticate(r.Context(), req)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnauthorized {
			h.audit.LogLogin(r.Context(), req.Username, "failed")
		}
		writeError(w, r, h.logger, err)
		return
	}
	h.audit.LogLogin(r.Context(), req.Username, "success")
	writeJSON(w, http.StatusOK, LoginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, UserID: res.UserID})
}

// GetUser handles GET /users/get_user
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	user, err := h.auth.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserView(user))
}

// GetProfile handles GET /users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(profile))
}

// UpdateProfile handles POST /users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req validation.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	profile, err := h.profiles.Upsert(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newProfileView(profile))
}

// InactiveUsers handles GET /users/inactive_users?days=N (admin only)
func (h *UserHandler) InactiveUsers(w http.ResponseWriter, r *http.Request) {
	days := h.inactiveDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, h.logger, domain.BadRequest("days must be a positive integer"))
			return
		}
		days = n
	}

	users, err := h.auth.ListInactive(r.Context(), days)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]InactiveUserView, 0, len(users))
	for _, u := range users {
		out = append(out, InactiveUserView{ID: u.ID, Username: u.Username, Email: u.Email, LastLogin: u.LastLoginAt})
	}
	writeJSON(w, http.StatusOK, out)
}
