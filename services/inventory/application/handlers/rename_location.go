package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// RenameLocationHandler handles PATCH /locations/{locationID} requests.
// The new name propagates to every item carrying the location.
type RenameLocationHandler struct {
	svc *appsvcs.Services
}

// NewRenameLocationHandler returns a RenameLocationHandler backed by the given services.
func NewRenameLocationHandler(svc *appsvcs.Services) *RenameLocationHandler {
	return &RenameLocationHandler{svc: svc}
}

// Execute renames a location. Returns 422 when the name is already taken.
func (h *RenameLocationHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	locationID, ok := urlID(w, r, "locationID")
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RenameRequest](w, r)
	if !ok {
		return
	}

	location, err := h.svc.Reference.RenameLocation(r.Context(), userID, locationID, req.Name)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, location)
}
