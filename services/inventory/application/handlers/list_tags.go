package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// ListTagsHandler handles GET /tags requests.
type ListTagsHandler struct {
	svc *appsvcs.Services
}

// NewListTagsHandler returns a ListTagsHandler backed by the given services.
func NewListTagsHandler(svc *appsvcs.Services) *ListTagsHandler {
	return &ListTagsHandler{svc: svc}
}

// Execute returns the user's tag vocabulary sorted by name.
func (h *ListTagsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tags, err := h.svc.Reference.Tags(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, tags)
}
