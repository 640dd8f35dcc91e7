package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// ListLocationsHandler handles GET /locations requests.
type ListLocationsHandler struct {
	svc *appsvcs.Services
}

// NewListLocationsHandler returns a ListLocationsHandler backed by the given services.
func NewListLocationsHandler(svc *appsvcs.Services) *ListLocationsHandler {
	return &ListLocationsHandler{svc: svc}
}

// Execute returns the user's location vocabulary sorted by name.
func (h *ListLocationsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	locations, err := h.svc.Reference.Locations(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, locations)
}
