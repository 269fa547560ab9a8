package routes

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"servicehub-server/services"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: title is required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: job 42", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: worker KYC is not verified", services.ErrNotEligible), http.StatusForbidden},
		{fmt.Errorf("%w: job is already assigned", services.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("%w: pending bid exists", services.ErrConflict), http.StatusConflict},
		{services.ErrDuplicateKey, http.StatusConflict},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondServiceError(c, tt.err)
		assert.Equal(t, tt.status, w.Code, "error %v", tt.err)
	}

	// Internal errors must not leak their message to the client.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, errors.New("password=hunter2"))
	assert.NotContains(t, w.Body.String(), "hunter2")
}
