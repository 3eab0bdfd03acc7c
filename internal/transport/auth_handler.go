package transport

import (
	"errors"
	"net/http"

	"lexron-admin/internal/domain"
	"lexron-admin/internal/middleware"
	"lexron-admin/internal/repository"
	"lexron-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignUpRequest represents the registration request payload
type SignUpRequest struct {
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	Data     SignUpMetadata `json:"data"`
}

// SignUpMetadata is the user metadata submitted with a registration
type SignUpMetadata struct {
	Role string `json:"role"`
}

// PasswordGrantRequest represents the sign-in request payload
type PasswordGrantRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserProfile is the public view of an account
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionResponse is returned by every endpoint that starts a session
type SessionResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    int64       `json:"expires_at"`
	User         UserProfile `json:"user"`
}

// SignUpResponse holds the new user and, when signed in immediately, its session
type SignUpResponse struct {
	User    UserProfile      `json:"user"`
	Session *SessionResponse `json:"session"`
}

func toUserProfile(user domain.User) UserProfile {
	return UserProfile{
		ID:    user.ID.String(),
		Email: user.Email,
		Role:  user.Role,
	}
}

func toSessionResponse(session *domain.Session) *SessionResponse {
	return &SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt.Unix(),
		User:         toUserProfile(session.User),
	}
}

// AuthHandler handles HTTP requests for sign-up, sign-in and sessions
type AuthHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth routes. limit throttles the
// unauthenticated endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, limit func(http.Handler) http.Handler) {
	r.Route("/auth/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/signup", h.SignUp)
			r.Post("/token", h.Token)
			r.Post("/refresh", h.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.Session)
		})
	})
}

// decodeOrReject decodes and validates the body into v, answering 400 itself on failure
func decodeOrReject(w http.ResponseWriter, r *http.Request, v interface{}, logger *zap.Logger) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// SignUp handles user registration
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeOrReject(w, r, &req, h.logger) {
		return
	}

	session, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Data.Role)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "User already registered")
			return
		}

		h.logger.Error("Registration failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	h.logger.Info("User registered",
		zap.String("user_id", session.User.ID.String()),
		zap.String("role", session.User.Role),
	)
	middleware.RespondWithJSON(w, http.StatusOK, SignUpResponse{
		User:    toUserProfile(session.User),
		Session: toSessionResponse(session),
	})
}

// Token handles the password grant
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if grant := r.URL.Query().Get("grant_type"); grant != "" && grant != "password" {
		middleware.RespondWithError(w, http.StatusBadRequest, "unsupported grant type")
		return
	}

	var req PasswordGrantRequest
	if !decodeOrReject(w, r, &req, h.logger) {
		return
	}

	session, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Login rejected", zap.String("email", req.Email))
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid login credentials")
			return
		}

		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", session.User.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// Refresh exchanges a refresh token for a new session
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeOrReject(w, r, &req, h.logger) {
		return
	}

	session, err := h.userService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// Logout revokes the caller's sessions
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeOrReject(w, r, &req, h.logger) {
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("User logged out", zap.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the user behind the presented access token
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		h.logger.Error("Failed to load session user", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]UserProfile{"user": toUserProfile(*user)})
}
