package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// DeleteItemHandler handles DELETE /items/{itemID} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute permanently removes an item.
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := urlID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.svc.Item.Delete(r.Context(), userID, itemID); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
