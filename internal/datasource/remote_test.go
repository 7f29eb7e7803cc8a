package datasource

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/models"
)

// upstream captures requests and replies with a canned body
type upstream struct {
	method string
	path   string
	body   string
	header http.Header

	status   int
	response string
	delay    time.Duration
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.method = r.Method
	u.path = r.URL.Path
	u.header = r.Header.Clone()
	data, _ := io.ReadAll(r.Body)
	u.body = string(data)

	if u.delay > 0 {
		time.Sleep(u.delay)
	}
	w.Header().Set("Content-Type", "application/json")
	if u.status != 0 {
		w.WriteHeader(u.status)
	}
	_, _ = w.Write([]byte(u.response))
}

func newRemote(t *testing.T, u *upstream) *Remote {
	t.Helper()
	srv := httptest.NewServer(u)
	t.Cleanup(srv.Close)
	return NewRemote("sales", nil, HTTPOptions{
		BaseURL: srv.URL + "/",
		Timeout: 2 * time.Second,
		Headers: map[string]string{"X-Tenant": "acme"},
	})
}

func TestRemote_Exec(t *testing.T) {
	u := &upstream{response: `{"cols":[{"label":"City","name":"city","type":"text","alias":"c"}],"rows":[["Hanoi"],["Hue"]]}`}
	r := newRemote(t, u)

	q := models.ToDsQuery(models.DefaultQuery(), models.NewFilter())
	out, err := r.Exec(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, u.method)
	assert.Equal(t, "/ds/sales/exec", u.path)
	assert.Equal(t, "acme", u.header.Get("X-Tenant"))
	assert.Contains(t, u.header.Get("Content-Type"), "application/json")

	var sent models.DsQuery
	require.NoError(t, json.Unmarshal([]byte(u.body), &sent))
	assert.Equal(t, models.Paging{Limit: 10, Current: 1}, sent.Query.Paging)

	require.Len(t, out.Cols, 1)
	assert.Equal(t, "c", out.Cols[0].Alias)
	assert.Equal(t, [][]interface{}{{"Hanoi"}, {"Hue"}}, out.Rows)
}

func TestRemote_ColumnsAndCount(t *testing.T) {
	u := &upstream{response: `{"columns":[{"label":"Total","name":"total","type":"number","alias":""}]}`}
	r := newRemote(t, u)

	cols, err := r.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, u.method)
	assert.Equal(t, "/ds/sales/columns", u.path)
	assert.Equal(t, "total", cols.Columns[0].Name)

	u.response = `{"count":1234}`
	count, err := r.Count(context.Background(), models.ToDsQuery(models.DefaultQuery(), models.NewFilter()))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, u.method)
	assert.Equal(t, "/ds/sales/count", u.path)
	assert.Equal(t, int64(1234), count.Count)
}

func TestRemote_EmptyBodyFieldsDefault(t *testing.T) {
	u := &upstream{response: `{}`}
	r := newRemote(t, u)

	out, err := r.Exec(context.Background(), models.DsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, out.Cols)
	assert.NotNil(t, out.Rows)
}

func TestRemote_ErrorStatus(t *testing.T) {
	u := &upstream{status: http.StatusNotFound, response: `{"error":{"code":"NOT_FOUND","message":"no such data source"}}`}
	r := newRemote(t, u)

	_, err := r.Columns(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no such data source", apiErr.Message)
	assert.Equal(t, "columns", apiErr.Operation)

	u.status = http.StatusInternalServerError
	u.response = `boom`
	_, err = r.Count(context.Background(), models.DsQuery{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "boom", apiErr.Message)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRemote_BadJSON(t *testing.T) {
	u := &upstream{response: `not json`}
	r := newRemote(t, u)

	_, err := r.Exec(context.Background(), models.DsQuery{})
	assert.Error(t, err)
}

func TestRemote_ContextCanceled(t *testing.T) {
	u := &upstream{response: `{"count":1}`, delay: 500 * time.Millisecond}
	r := newRemote(t, u)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := r.Count(ctx, models.DsQuery{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	_, err = r.Count(canceled, models.DsQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemote_URLEscapesName(t *testing.T) {
	r := NewRemote("a b", nil, HTTPOptions{BaseURL: "http://upstream/api/"})
	assert.Equal(t, "http://upstream/api/ds/a%20b/exec", r.URL("exec"))
	assert.Equal(t, KindRemote, r.Kind())
	assert.Equal(t, "a b", r.Name())
}
