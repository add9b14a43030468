package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"lookbook/internal/transport/http/shared"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// AuthService is the auth surface consumed by the transport layer.
type AuthService interface {
	SignIn(ctx context.Context, inst domain.InstallationID, email, password string) error
	SignUp(ctx context.Context, inst domain.InstallationID, email, password, fullName string) error
	SignOut(ctx context.Context, inst domain.InstallationID) error
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signOutRequest struct {
	// Confirm models the destructive-action confirmation prompt: sign-out is
	// refused until the client confirms.
	Confirm bool `json:"confirm"`
}

// HandleSignIn implements POST /v1/installations/{installation_id}/auth/signin.
// Provider failures have already queued their fixed toast; the envelope
// carries the provider code for the client's error handling.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "email and password are required"))
		return
	}

	if err := h.auth.SignIn(r.Context(), inst, req.Email, req.Password); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_in"})
}

// HandleSignUp implements POST /v1/installations/{installation_id}/auth/signup.
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "email, password and full_name are required"))
		return
	}

	if err := h.auth.SignUp(r.Context(), inst, req.Email, req.Password, req.FullName); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"status": "signed_up"})
}

// HandleSignOut implements POST /v1/installations/{installation_id}/auth/signout.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req signOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	if !req.Confirm {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "sign-out requires confirmation"))
		return
	}

	if err := h.auth.SignOut(r.Context(), inst); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
