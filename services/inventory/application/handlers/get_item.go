package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// GetItemHandler handles GET /items/{itemID} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute returns one item by id.
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := urlID(w, r, "itemID")
	if !ok {
		return
	}

	item, err := h.svc.Item.Get(r.Context(), userID, itemID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, item)
}
