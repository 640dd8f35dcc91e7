package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	invdomain "github.com/lvoinea/stuffkeeper/services/inventory/domain"
	userdomain "github.com/lvoinea/stuffkeeper/services/user/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrItemNotFound", invdomain.ErrItemNotFound, http.StatusNotFound},
		{"ErrTagNotFound", invdomain.ErrTagNotFound, http.StatusNotFound},
		{"ErrLocationNotFound", invdomain.ErrLocationNotFound, http.StatusNotFound},
		{"ErrUserNotFound", userdomain.ErrUserNotFound, http.StatusNotFound},
		{"ErrEmailTaken", userdomain.ErrEmailTaken, http.StatusConflict},
		{"ErrNameConflict", invdomain.ErrNameConflict, http.StatusUnprocessableEntity},
		{"ErrInvalidItem", invdomain.ErrInvalidItem, http.StatusUnprocessableEntity},
		{"ErrInvalidCredentials", userdomain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"wrapped ErrItemNotFound", fmt.Errorf("get item: %w", invdomain.ErrItemNotFound), http.StatusNotFound},
		{"wrapped ErrNameConflict", fmt.Errorf("rename tag: %w", invdomain.ErrNameConflict), http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, invdomain.ErrItemNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Fatal("response body missing 'error' key")
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, invdomain.ErrItemNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
