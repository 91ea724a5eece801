package handlers

import (
	"net/http"

	"schoolfit/internal/security"
	"schoolfit/internal/service"
)

// AuthHandler handles registration, login and account endpoints
type AuthHandler struct {
	authService     *service.AuthService
	activityService *service.ActivityService
	csrf            *security.CSRFSigner
	oauth           *GoogleOAuth
}

// NewAuthHandler creates a new auth handler. oauth may be nil when Google
// sign-in is not configured.
func NewAuthHandler(authService *service.AuthService, activityService *service.ActivityService, csrf *security.CSRFSigner, oauth *GoogleOAuth) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		activityService: activityService,
		csrf:            csrf,
		oauth:           oauth,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	*service.LoginResult
	CSRFToken string `json:"csrf_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates an account and returns the generated username
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	username, err := h.authService.Register(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, "Registration failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"username": username})
}

// Login checks credentials, sets the session cookie and returns the token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}

	result, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respondWithServiceError(w, "Login failed", err)
		return
	}
	h.startSession(w, r, result)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, result *service.LoginResult) {
	http.SetCookie(w, security.CreateSessionCookie(r, result.Token, result.Expires))
	respondJSON(w, http.StatusOK, loginResponse{
		LoginResult: result,
		CSRFToken:   h.csrf.Token(result.Claims.SessionID()),
	})
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), GetClaimsFromContext(r.Context())); err != nil {
		respondWithServiceError(w, "Logout failed", err)
		return
	}
	http.SetCookie(w, security.CreateDeleteCookie(r))
	w.WriteHeader(http.StatusNoContent)
}

// CSRFToken returns the CSRF token for the current session
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"csrf_token": h.csrf.Token(claims.SessionID())})
}

// Me returns the profile summary of the current user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	summary, err := h.activityService.Summary(currentUser(r))
	if err != nil {
		respondWithServiceError(w, "Failed to load profile", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// UpdateProfile replaces the editable profile fields
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.authService.UpdateProfile(r.Context(), currentUser(r), in); err != nil {
		respondWithServiceError(w, "Failed to update profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ChangePassword replaces the password after checking the current one
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	err := h.authService.ChangePassword(r.Context(), currentUser(r), in.CurrentPassword, in.NewPassword, in.ConfirmPassword)
	if err != nil {
		respondWithServiceError(w, "Failed to change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
