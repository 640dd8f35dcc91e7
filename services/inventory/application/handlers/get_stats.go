package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	appsvcs "github.com/lvoinea/stuffkeeper/services/inventory/application/services"
)

// GetStatsHandler handles GET /stats requests.
type GetStatsHandler struct {
	svc *appsvcs.Services
}

// NewGetStatsHandler returns a GetStatsHandler backed by the given services.
func NewGetStatsHandler(svc *appsvcs.Services) *GetStatsHandler {
	return &GetStatsHandler{svc: svc}
}

// Execute returns the whole-collection inventory report: active and
// archived counts and cost sums plus per-tag and per-location breakdowns.
func (h *GetStatsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Stats.Report(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, report)
}
