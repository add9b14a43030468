package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lookbook/internal/gate"
	"lookbook/internal/installation"
	"lookbook/internal/notify"
	"lookbook/internal/transport/http/shared"
	"lookbook/pkg/domain"
	dErrors "lookbook/pkg/domain-errors"
)

// GateService is the gating surface consumed by the transport layer.
type GateService interface {
	Register(ctx context.Context, userAgent string) (*installation.Installation, error)
	Deregister(ctx context.Context, inst domain.InstallationID) error
	Screen(ctx context.Context, inst domain.InstallationID) (gate.Screen, error)
	CompleteOnboarding(ctx context.Context, inst domain.InstallationID) error
	Foreground(ctx context.Context, inst domain.InstallationID) error
	RunChallenge(ctx context.Context, inst domain.InstallationID) (bool, error)
	EnableBiometric(ctx context.Context, inst domain.InstallationID) error
	DisableBiometric(ctx context.Context, inst domain.InstallationID) error
}

// ToastQueue drains undelivered transient notifications.
type ToastQueue interface {
	Drain(inst domain.InstallationID) []notify.Toast
}

// HandleRegisterInstallation implements POST /v1/installations.
// The device name is derived from the request's User-Agent header.
func (h *Handler) HandleRegisterInstallation(w http.ResponseWriter, r *http.Request) {
	inst, err := h.gate.Register(r.Context(), r.UserAgent())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "installation registration failed", "error", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"installation_id": inst.ID.String(),
		"device_name":     inst.DeviceName,
	})
}

// HandleDeregisterInstallation implements DELETE /v1/installations/{installation_id}.
func (h *Handler) HandleDeregisterInstallation(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	if err := h.gate.Deregister(r.Context(), inst); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleScreen implements GET /v1/installations/{installation_id}/screen:
// the gating decision the client renders from.
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	screen, err := h.gate.Screen(r.Context(), inst)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"screen": string(screen)})
}

// HandleCompleteOnboarding implements POST /v1/installations/{installation_id}/onboarding/complete.
func (h *Handler) HandleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	if err := h.gate.CompleteOnboarding(r.Context(), inst); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleForeground implements POST /v1/installations/{installation_id}/foreground.
// Re-arms the biometric gate for the new foreground session.
func (h *Handler) HandleForeground(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	if err := h.gate.Foreground(r.Context(), inst); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChallenge implements POST /v1/installations/{installation_id}/biometric/challenge.
// A failed challenge keeps the gate armed; the client retries by calling again.
func (h *Handler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	success, err := h.gate.RunChallenge(r.Context(), inst)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]bool{"success": success})
}

// HandleDrainToasts implements GET /v1/installations/{installation_id}/toasts.
func (h *Handler) HandleDrainToasts(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.installationID(w, r)
	if !ok {
		return
	}
	toasts := h.toasts.Drain(inst)
	shared.WriteJSON(w, http.StatusOK, map[string][]notify.Toast{"toasts": toasts})
}

// installationID parses the path parameter, writing the error response itself.
func (h *Handler) installationID(w http.ResponseWriter, r *http.Request) (domain.InstallationID, bool) {
	inst, err := domain.ParseInstallationID(chi.URLParam(r, "installation_id"))
	if err != nil {
		h.logger.WarnContext(r.Context(), "invalid installation id",
			"value", chi.URLParam(r, "installation_id"))
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid installation ID"))
		return domain.InstallationID{}, false
	}
	return inst, true
}
