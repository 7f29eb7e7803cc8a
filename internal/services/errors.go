// Package services provides the business logic layer between handlers and
// the query-filter model. Services resolve sessions, run element fetches and
// translate domain errors into ServiceError codes.
package services

import (
	"context"
	"errors"

	"github.com/soltixdb/reportkit/internal/datachart"
	"github.com/soltixdb/reportkit/internal/datasource"
	"github.com/soltixdb/reportkit/internal/session"
)

// Error codes returned by the service layer
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidColumnType  = "INVALID_COLUMN_TYPE"
	CodeInvalidFilter      = "INVALID_FILTER"
	CodeUnsupportedChart   = "UNSUPPORTED_CHART"
	CodeMissingNamespace   = "MISSING_NAMESPACE"
	CodeMissingDataSource  = "MISSING_DATASOURCE"
	CodeUnresolvedContext  = "UNRESOLVED_CONTEXT"
	CodeDataSourceNotFound = "DATASOURCE_NOT_FOUND"
	CodeUpstreamFailed     = "UPSTREAM_FAILED"
	CodeQueryTimeout       = "QUERY_TIMEOUT"
	CodeQueryFailed        = "QUERY_FAILED"
	CodePublishFailed      = "PUBLISH_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// setupError maps the element context errors to their codes
func setupError(err error) *ServiceError {
	switch {
	case errors.Is(err, session.ErrMissingNamespace):
		return NewServiceError(CodeMissingNamespace, err.Error())
	case errors.Is(err, session.ErrMissingDataSource):
		return NewServiceError(CodeMissingDataSource, err.Error())
	default:
		return NewServiceError(CodeUnresolvedContext, err.Error())
	}
}

// chartError maps an unsupported series variant, listing the supported ones
func chartError(err error) *ServiceError {
	var unsupported *datachart.UnsupportedSeriesError
	if !errors.As(err, &unsupported) {
		return NewServiceError(CodeQueryFailed, err.Error())
	}
	return NewServiceErrorWithDetails(CodeUnsupportedChart, err.Error(), map[string]interface{}{
		"type":      unsupported.Type,
		"supported": datachart.SupportedTypes,
	})
}

// fetchError maps a data source failure to a code
func fetchError(dataSource string, err error) *ServiceError {
	var apiErr *datasource.APIError
	switch {
	case errors.Is(err, datasource.ErrNotFound):
		return NewServiceErrorWithDetails(CodeDataSourceNotFound, err.Error(), map[string]interface{}{
			"dataSource": dataSource,
		})
	case errors.Is(err, context.DeadlineExceeded):
		return NewServiceErrorWithDetails(CodeQueryTimeout, err.Error(), map[string]interface{}{
			"dataSource": dataSource,
		})
	case errors.As(err, &apiErr):
		return NewServiceErrorWithDetails(CodeUpstreamFailed, apiErr.Message, map[string]interface{}{
			"dataSource": dataSource,
			"operation":  apiErr.Operation,
			"status":     apiErr.StatusCode,
		})
	default:
		return NewServiceErrorWithDetails(CodeQueryFailed, err.Error(), map[string]interface{}{
			"dataSource": dataSource,
		})
	}
}
