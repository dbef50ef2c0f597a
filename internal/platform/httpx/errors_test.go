package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"public message", fmt.Errorf("roles: create: %w", NewError(ErrDuplicate, "Role already exists")), http.StatusBadRequest, "Role already exists"},
		{"not found", NewError(ErrNotFound, "Product not found"), http.StatusNotFound, "Product not found"},
		{"bare sentinel", ErrValidation, http.StatusBadRequest, "validation failed"},
		{"store failure", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)

			var body MessageBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body.Message)
		})
	}
}
