package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/utils"
)

var remoteLog = logging.Global().With("component", "datasource.remote")

// HTTPOptions configures the HTTP client of remote data sources
type HTTPOptions struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Remote calls ds/{name}/exec, ds/{name}/columns and ds/{name}/count on the
// upstream service.
type Remote struct {
	name    string
	client  *fiber.Client
	baseURL string
	timeout time.Duration
	headers map[string]string
}

// NewRemote creates a remote data source. A nil client uses a fresh
// fiber.Client.
func NewRemote(name string, client *fiber.Client, opts HTTPOptions) *Remote {
	if client == nil {
		client = &fiber.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = utils.DefaultUpstreamTimeout
	}
	return &Remote{
		name:    name,
		client:  client,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		headers: opts.Headers,
	}
}

func (r *Remote) Name() string { return r.name }

func (r *Remote) Kind() Kind { return KindRemote }

// Exec posts the query to ds/{name}/exec
func (r *Remote) Exec(ctx context.Context, query models.DsQuery) (models.DsDataSource, error) {
	var out models.DsDataSource
	if err := r.do(ctx, fiber.MethodPost, "exec", query, &out); err != nil {
		return models.DsDataSource{}, err
	}
	if out.Cols == nil {
		out.Cols = []models.DsColumn{}
	}
	if out.Rows == nil {
		out.Rows = [][]interface{}{}
	}
	return out, nil
}

// Columns gets ds/{name}/columns
func (r *Remote) Columns(ctx context.Context) (models.DsColumns, error) {
	var out models.DsColumns
	if err := r.do(ctx, fiber.MethodGet, "columns", nil, &out); err != nil {
		return models.DsColumns{}, err
	}
	if out.Columns == nil {
		out.Columns = []models.DsColumn{}
	}
	return out, nil
}

// Count posts the query to ds/{name}/count
func (r *Remote) Count(ctx context.Context, query models.DsQuery) (models.DsCount, error) {
	var out models.DsCount
	if err := r.do(ctx, fiber.MethodPost, "count", query, &out); err != nil {
		return models.DsCount{}, err
	}
	return out, nil
}

// URL returns the endpoint of an operation
func (r *Remote) URL(operation string) string {
	return fmt.Sprintf("%s/ds/%s/%s", r.baseURL, url.PathEscape(r.name), operation)
}

type response struct {
	status int
	body   []byte
	errs   []error
}

func (r *Remote) do(ctx context.Context, method, operation string, body interface{}, result interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	endpoint := r.URL(operation)
	var agent *fiber.Agent
	if method == fiber.MethodPost {
		agent = r.client.Post(endpoint)
	} else {
		agent = r.client.Get(endpoint)
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	for k, v := range r.headers {
		agent.Set(k, v)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(timeout)

	start := time.Now()
	done := make(chan response, 1)
	go func() {
		status, data, errs := agent.Bytes()
		done <- response{status: status, body: data, errs: errs}
	}()

	var resp response
	select {
	case <-ctx.Done():
		remoteLog.Warn("Data source request abandoned",
			"datasource", r.name,
			"operation", operation,
			"error", ctx.Err())
		return ctx.Err()
	case resp = <-done:
	}

	if len(resp.errs) > 0 {
		err := errors.Join(resp.errs...)
		remoteLog.Error("Data source request failed",
			"datasource", r.name,
			"operation", operation,
			"error", err)
		return fmt.Errorf("data source %s %s: %w", r.name, operation, err)
	}

	remoteLog.Debug("Data source request completed",
		"datasource", r.name,
		"operation", operation,
		"status", resp.status,
		"duration", time.Since(start))

	if resp.status >= fiber.StatusBadRequest {
		return &APIError{
			DataSource: r.name,
			Operation:  operation,
			StatusCode: resp.status,
			Message:    errorMessage(resp.body),
		}
	}

	if err := json.Unmarshal(resp.body, result); err != nil {
		return fmt.Errorf("data source %s %s: decoding response: %w", r.name, operation, err)
	}
	return nil
}

// errorMessage extracts the message of an ErrorResponse body, falling back
// to the raw body.
func errorMessage(body []byte) string {
	var errResp models.ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return flat.Error
	}
	return strings.TrimSpace(string(body))
}
