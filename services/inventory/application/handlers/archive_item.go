package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// ArchiveItemRequest is the request body for POST /items/{itemID}/archive.
// Active false archives the item, true restores it.
type ArchiveItemRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ArchiveItemHandler handles POST /items/{itemID}/archive requests.
// Archiving stamps the removal date server-side; restoring clears it.
type ArchiveItemHandler struct {
	svc *appsvcs.Services
}

// NewArchiveItemHandler returns an ArchiveItemHandler backed by the given services.
func NewArchiveItemHandler(svc *appsvcs.Services) *ArchiveItemHandler {
	return &ArchiveItemHandler{svc: svc}
}

// Execute moves an item between the active and archived categories.
func (h *ArchiveItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := urlID(w, r, "itemID")
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[ArchiveItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Archive(r.Context(), userID, itemID, *req.Active)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, item)
}
