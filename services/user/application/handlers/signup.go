package handlers

import (
	"net/http"

	"github.com/lvoinea/stuffkeeper/pkg/errhttp"
	"github.com/lvoinea/stuffkeeper/pkg/httpx"
	pkgvalidator "github.com/lvoinea/stuffkeeper/pkg/validator"
	appsvcs "github.com/lvoinea/stuffkeeper/services/user/application/services"
)

// SignupRequest is the request body for POST /users.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SignupHandler handles POST /users requests.
type SignupHandler struct {
	svc *appsvcs.Services
}

// NewSignupHandler returns a SignupHandler backed by the given services.
func NewSignupHandler(svc *appsvcs.Services) *SignupHandler {
	return &SignupHandler{svc: svc}
}

// Execute registers a new account. Returns 409 when the email is taken.
func (h *SignupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SignupRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.User.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, user)
}
