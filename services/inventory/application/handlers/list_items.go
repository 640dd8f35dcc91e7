package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// ListItemsHandler handles GET /items requests.
// The full collection is returned; the client filters locally.
type ListItemsHandler struct {
	svc *appsvcs.Services
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services) *ListItemsHandler {
	return &ListItemsHandler{svc: svc}
}

// Execute returns the authenticated user's full item collection.
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.svc.Item.List(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, items)
}
