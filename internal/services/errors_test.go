package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soltixdb/reportkit/internal/datasource"
	"github.com/soltixdb/reportkit/internal/session"
)

func TestServiceError_Error(t *testing.T) {
	err := &ServiceError{
		Code:    "TEST_ERROR",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}

func TestNewServiceError(t *testing.T) {
	err := NewServiceError("ERROR_CODE", "Error message")

	assert.Equal(t, "ERROR_CODE", err.Code)
	assert.Equal(t, "Error message", err.Message)
	assert.Nil(t, err.Details)
}

func TestNewServiceErrorWithDetails(t *testing.T) {
	details := map[string]interface{}{
		"field":  "test_field",
		"reason": "validation failed",
	}

	err := NewServiceErrorWithDetails("VALIDATION_ERROR", "Validation failed", details)

	assert.Equal(t, "VALIDATION_ERROR", err.Code)
	assert.Equal(t, "test_field", err.Details["field"])
	assert.Equal(t, "validation failed", err.Details["reason"])
}

func TestSetupError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{session.ErrMissingNamespace, CodeMissingNamespace},
		{session.ErrMissingDataSource, CodeMissingDataSource},
		{session.ErrUnresolvedContext, CodeUnresolvedContext},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			svcErr := setupError(tt.err)
			assert.Equal(t, tt.code, svcErr.Code)
			assert.Equal(t, tt.err.Error(), svcErr.Message)
		})
	}
}

func TestFetchError(t *testing.T) {
	apiErr := &datasource.APIError{DataSource: "sales", Operation: "exec", StatusCode: 500, Message: "boom"}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not found", datasource.ErrNotFound, CodeDataSourceNotFound},
		{"remote 404", &datasource.APIError{StatusCode: 404, Message: "missing"}, CodeDataSourceNotFound},
		{"timeout", fmt.Errorf("exec: %w", context.DeadlineExceeded), CodeQueryTimeout},
		{"upstream", apiErr, CodeUpstreamFailed},
		{"other", errors.New("boom"), CodeQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcErr := fetchError("sales", tt.err)
			assert.Equal(t, tt.code, svcErr.Code)
			assert.Equal(t, "sales", svcErr.Details["dataSource"])
		})
	}

	svcErr := fetchError("sales", apiErr)
	assert.Equal(t, "boom", svcErr.Message)
	assert.Equal(t, 500, svcErr.Details["status"])
	assert.Equal(t, "exec", svcErr.Details["operation"])
}
