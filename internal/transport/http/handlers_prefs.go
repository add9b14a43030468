package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	"lookbook/internal/prefs"
	"lookbook/internal/transport/http/shared"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// PrefsService is the preference surface consumed by the transport layer.
type PrefsService interface {
	All(ctx context.Context, inst domain.InstallationID) (prefs.Preferences, error)
	SetTheme(ctx context.Context, inst domain.InstallationID, theme prefs.Theme) error
}

type biometricToggleRequest struct {
	Enabled bool `json:"enabled"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// HandleGetPrefs implements GET /v1/installations/{installation_id}/prefs.
func (h *Handler) HandleGetPrefs(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	p, err := h.prefs.All(r.Context(), inst)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

// HandleBiometricToggle implements PUT /v1/installations/{installation_id}/prefs/biometric.
// Enabling runs the toggle's own biometric challenge first; disabling never does.
func (h *Handler) HandleBiometricToggle(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req biometricToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}

	var err error
	if req.Enabled {
		err = h.gate.EnableBiometric(r.Context(), inst)
	} else {
		err = h.gate.DisableBiometric(r.Context(), inst)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"biometric_enabled": req.Enabled})
}

// HandleSetTheme implements PUT /v1/installations/{installation_id}/prefs/theme.
func (h *Handler) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}

	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON in request body"))
		return
	}
	theme, err := prefs.ParseTheme(req.Theme)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.prefs.SetTheme(r.Context(), inst, theme); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"theme": string(theme)})
}
