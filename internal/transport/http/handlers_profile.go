package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"lookbook/internal/profile"
	"lookbook/internal/transport/http/shared"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// ProfileService is the profile surface consumed by the transport layer.
type ProfileService interface {
	Get(ctx context.Context, inst domain.InstallationID) (*profile.Profile, error)
	UpdateFullName(ctx context.Context, inst domain.InstallationID, fullName string) error
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

// HandleGetProfile implements GET /v1/installations/{installation_id}/profile.
// A document store failure here triggers the forced sign-out policy inside
// the profile service; the response still reports the failure.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	p, err := h.profile.Get(r.Context(), inst)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

// HandleUpdateProfile implements PATCH /v1/installations/{installation_id}/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "full_name is required"))
		return
	}

	if err := h.profile.UpdateFullName(r.Context(), inst, req.FullName); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
