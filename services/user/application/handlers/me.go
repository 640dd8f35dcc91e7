package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/auth"
	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/user/application/services"
)

// MeHandler handles GET /users/me requests.
type MeHandler struct {
	svc *appsvcs.Services
}

// NewMeHandler returns a MeHandler backed by the given services.
func NewMeHandler(svc *appsvcs.Services) *MeHandler {
	return &MeHandler{svc: svc}
}

// Execute returns the authenticated account.
func (h *MeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	user, err := h.svc.User.Get(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, user)
}

// SettingsRequest is the request body for PUT /users/me/settings.
// The blob is stored verbatim; the server does not interpret it.
type SettingsRequest struct {
	Settings string `json:"settings" validate:"required,max=65536"`
}

// SaveSettingsHandler handles PUT /users/me/settings requests.
type SaveSettingsHandler struct {
	svc *appsvcs.Services
}

// NewSaveSettingsHandler returns a SaveSettingsHandler backed by the given services.
func NewSaveSettingsHandler(svc *appsvcs.Services) *SaveSettingsHandler {
	return &SaveSettingsHandler{svc: svc}
}

// Execute replaces the authenticated account's settings blob.
func (h *SaveSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[SettingsRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.User.SaveSettings(r.Context(), userID, req.Settings); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
