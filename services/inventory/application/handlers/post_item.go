package handlers

import (
	"net/http"
	"time"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name           string            `json:"name" validate:"required,min=1,max=255"`
	Description    string            `json:"description" validate:"max=4096"`
	Code           string            `json:"code" validate:"max=255"`
	Quantity       int               `json:"quantity" validate:"gte=0"`
	Cost           float64           `json:"cost" validate:"gte=0"`
	ExpirationDate *time.Time        `json:"expiration_date"`
	Tags           []string          `json:"tags" validate:"dive,min=1,max=255"`
	Locations      []string          `json:"locations" validate:"dive,min=1,max=255"`
	Photos         *models.PhotoSet  `json:"photos"`
}

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute creates a new item in the authenticated user's inventory.
// Tag and location names are resolved get-or-create.
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item := models.NewItem(req.Name)
	item.Description = req.Description
	item.Code = req.Code
	if req.Quantity > 0 {
		item.Quantity = req.Quantity
	}
	item.Cost = req.Cost
	item.ExpirationDate = req.ExpirationDate
	item.Tags = models.TagsFromNames(req.Tags)
	item.Locations = models.LocationsFromNames(req.Locations)
	item.Photos = req.Photos

	created, err := h.svc.Item.Create(r.Context(), userID, item)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, created)
}
