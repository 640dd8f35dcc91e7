package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// SaveItemHandler handles PATCH /items/{itemID} requests.
// The body is a sparse patch: absent fields stay untouched, tag and
// location lists replace the stored set when present.
type SaveItemHandler struct {
	svc *appsvcs.Services
}

// NewSaveItemHandler returns a SaveItemHandler backed by the given services.
func NewSaveItemHandler(svc *appsvcs.Services) *SaveItemHandler {
	return &SaveItemHandler{svc: svc}
}

// Execute applies a partial update and returns the stored item.
func (h *SaveItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := urlID(w, r, "itemID")
	if !ok {
		return
	}

	var patch models.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
		return
	}

	item, err := h.svc.Item.Save(r.Context(), userID, itemID, patch)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, item)
}
