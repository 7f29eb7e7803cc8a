// Package datasource resolves named data sources to a local or remote
// implementation and memoizes the choice per registry.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/soltixdb/reportkit/internal/models"
)

var (
	ErrNotFound       = errors.New("data source not found")
	ErrEmptyName      = errors.New("data source name is required")
	ErrRegistryClosed = errors.New("data source registry is closed")
)

// Kind is the resolution strategy of a data source
type Kind string

const (
	KindLocal  Kind = "local"
	KindRemote Kind = "remote"
)

// DataSource executes wire queries for one named data source
type DataSource interface {
	Name() string
	Kind() Kind
	Exec(ctx context.Context, query models.DsQuery) (models.DsDataSource, error)
	Columns(ctx context.Context) (models.DsColumns, error)
	Count(ctx context.Context, query models.DsQuery) (models.DsCount, error)
}

// APIError is a non-2xx response from a remote data source
type APIError struct {
	DataSource string
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data source %s %s: status %d: %s", e.DataSource, e.Operation, e.StatusCode, e.Message)
}

// Is matches ErrNotFound for 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
