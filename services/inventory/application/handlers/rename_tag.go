package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// RenameRequest is the request body for tag and location renames.
type RenameRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// RenameTagHandler handles PATCH /tags/{tagID} requests.
// The new name propagates to every item carrying the tag.
type RenameTagHandler struct {
	svc *appsvcs.Services
}

// NewRenameTagHandler returns a RenameTagHandler backed by the given services.
func NewRenameTagHandler(svc *appsvcs.Services) *RenameTagHandler {
	return &RenameTagHandler{svc: svc}
}

// Execute renames a tag. Returns 422 when the name is already taken.
func (h *RenameTagHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	tagID, ok := urlID(w, r, "tagID")
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[RenameRequest](w, r)
	if !ok {
		return
	}

	tag, err := h.svc.Reference.RenameTag(r.Context(), userID, tagID, req.Name)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, tag)
}
