package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/cache"
	"github.com/soltixdb/reportkit/internal/datasource"
	"github.com/soltixdb/reportkit/internal/element"
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/session"
)

// salesSource returns two product rows
type salesSource struct {
	execCalls    atomic.Int32
	countCalls   atomic.Int32
	columnsCalls atomic.Int32
	execErr    error
	countErr   error
}

func (s *salesSource) Name() string { return "sales" }

func (s *salesSource) Kind() datasource.Kind { return datasource.KindLocal }

func (s *salesSource) Exec(context.Context, models.DsQuery) (models.DsDataSource, error) {
	s.execCalls.Add(1)
	if s.execErr != nil {
		return models.DsDataSource{}, s.execErr
	}
	return models.DsDataSource{
		Cols: []models.DsColumn{
			{Name: "product", Type: "text"},
			{Name: "qty", Type: "number"},
		},
		Rows: [][]interface{}{
			{"apple", 1200.5},
			{"pear", nil},
		},
	}, nil
}

func (s *salesSource) Columns(context.Context) (models.DsColumns, error) {
	s.columnsCalls.Add(1)
	return models.DsColumns{Columns: []models.DsColumn{
		{Name: "product", Type: "text", Label: "Product"},
		{Name: "qty", Type: "number", Label: "Quantity"},
	}}, nil
}

func (s *salesSource) Count(context.Context, models.DsQuery) (models.DsCount, error) {
	s.countCalls.Add(1)
	if s.countErr != nil {
		return models.DsCount{}, s.countErr
	}
	return models.DsCount{Count: 42}, nil
}

func newNamespaces(t *testing.T, src *salesSource) *session.Namespaces {
	t.Helper()
	host := datasource.NewHost()
	host.Bind("sales", src)

	ns := session.NewNamespaces()
	ns.Provide("shop", session.New(session.Options{Host: host, Cache: cache.Options{TTL: time.Minute}}))
	t.Cleanup(func() { _ = ns.Close() })
	return ns
}

func newQueryService(t *testing.T, src *salesSource) *QueryService {
	t.Helper()
	return NewQueryService(logging.NewDevelopment(), newNamespaces(t, src), element.DefaultOptions())
}

func salesColumns() []models.ColumnConfig {
	product := models.DefaultColumn()
	product.Name = "product"
	product.Title = "Product"

	qty := models.DefaultColumn()
	qty.Name = "qty"
	qty.Type = models.ColumnNumber
	qty.Format = format.Default(format.Numeric)

	hidden := models.DefaultColumn()
	hidden.Name = "cost"
	hidden.Visible = false

	return []models.ColumnConfig{product, qty, hidden}
}

func TestQueryService_Execute(t *testing.T) {
	src := &salesSource{}
	svc := newQueryService(t, src)

	resp, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
		DataSource: "sales",
		Query:      models.DefaultQuery(),
		Columns:    salesColumns(),
	})
	require.NoError(t, err)

	assert.Equal(t, "sales", resp.DataSource)
	assert.Len(t, resp.Cols, 2)
	assert.Len(t, resp.Rows, 2)
	assert.Equal(t, int64(42), resp.Count)
	assert.False(t, resp.Loading)
	assert.False(t, resp.Stale)

	require.Len(t, resp.Columns, 2)
	assert.Equal(t, "product", resp.Columns[0].Key)
	require.Len(t, resp.Table, 2)
	assert.Equal(t, "apple", resp.Table[0]["product"].FormatValue)
	assert.Equal(t, "1,200.50", resp.Table[0]["qty"].FormatValue)
	assert.Equal(t, "Null", resp.Table[1]["qty"].FormatValue)
}

func TestQueryService_ExecuteUsesCache(t *testing.T) {
	src := &salesSource{}
	svc := newQueryService(t, src)
	req := &models.ElementQueryRequest{DataSource: "sales", Query: models.DefaultQuery()}

	_, err := svc.Execute(context.Background(), "shop", req)
	require.NoError(t, err)
	_, err = svc.Execute(context.Background(), "shop", req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), src.execCalls.Load())
	assert.Equal(t, int32(1), src.countCalls.Load())
}

func TestQueryService_ExecuteAfterRefetch(t *testing.T) {
	src := &salesSource{}
	svc := newQueryService(t, src)
	req := &models.ElementQueryRequest{DataSource: "sales", Query: models.DefaultQuery()}

	_, err := svc.Execute(context.Background(), "shop", req)
	require.NoError(t, err)

	sess, ok := svc.namespaces.Lookup("shop")
	require.True(t, ok)
	sess.BumpRefetch()

	_, err = svc.Execute(context.Background(), "shop", req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.execCalls.Load())
}

func TestQueryService_ExecuteWithoutCount(t *testing.T) {
	src := &salesSource{}
	svc := newQueryService(t, src)
	useCount := false

	resp, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
		DataSource: "sales",
		Query:      models.DefaultQuery(),
		UseCount:   &useCount,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Count)
	assert.Equal(t, int32(0), src.countCalls.Load())
	assert.Nil(t, resp.Table)
}

func TestQueryService_SetupErrors(t *testing.T) {
	svc := newQueryService(t, &salesSource{})

	tests := []struct {
		name      string
		namespace string
		ds        string
		code      string
	}{
		{"missing namespace", "", "sales", CodeMissingNamespace},
		{"missing datasource", "shop", "", CodeMissingDataSource},
		{"unknown namespace", "other", "sales", CodeUnresolvedContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), tt.namespace, &models.ElementQueryRequest{
				DataSource: tt.ds,
				Query:      models.DefaultQuery(),
			})
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.code, svcErr.Code)
		})
	}
}

func TestQueryService_ExecErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"failure", errors.New("disk on fire"), CodeQueryFailed},
		{"upstream", &datasource.APIError{DataSource: "sales", Operation: "exec", StatusCode: 502, Message: "bad gateway"}, CodeUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newQueryService(t, &salesSource{execErr: tt.err})

			_, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
				DataSource: "sales",
				Query:      models.DefaultQuery(),
			})
			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.code, svcErr.Code)
		})
	}
}

func TestQueryService_CountErrorMarksStale(t *testing.T) {
	svc := newQueryService(t, &salesSource{countErr: errors.New("count unavailable")})

	resp, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
		DataSource: "sales",
		Query:      models.DefaultQuery(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Stale)
	assert.Len(t, resp.Rows, 2)
}

func TestQueryService_Columns(t *testing.T) {
	svc := newQueryService(t, &salesSource{})

	cols, err := svc.Columns(context.Background(), "shop", "sales")
	require.NoError(t, err)
	require.Len(t, cols.Columns, 2)
	assert.Equal(t, "Quantity", cols.Columns[1].Label)

	_, err = svc.Columns(context.Background(), "nowhere", "sales")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnresolvedContext, svcErr.Code)
}

func TestQueryService_ColumnsCachedPerEpoch(t *testing.T) {
	src := &salesSource{}
	namespaces := newNamespaces(t, src)
	svc := NewQueryService(logging.NewDevelopment(), namespaces, element.DefaultOptions())

	for i := 0; i < 2; i++ {
		cols, err := svc.Columns(context.Background(), "shop", "sales")
		require.NoError(t, err)
		require.Len(t, cols.Columns, 2)
	}
	assert.Equal(t, int32(1), src.columnsCalls.Load())

	sess, ok := namespaces.Lookup("shop")
	require.True(t, ok)
	sess.BumpRefetch()

	_, err := svc.Columns(context.Background(), "shop", "sales")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.columnsCalls.Load())
}

func TestQueryService_ExecuteChart(t *testing.T) {
	svc := newQueryService(t, &salesSource{})

	resp, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
		DataSource: "sales",
		Query:      models.DefaultQuery(),
		Chart: &models.ChartOptions{Series: []models.ChartSeries{
			{Type: models.ChartBar, Data: models.ChartAxis{X: "product", Y: "qty"}},
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Series, 1)
	assert.Equal(t, []interface{}{"apple", "pear"}, resp.Series[0].XData)
	assert.Equal(t, []interface{}{1200.5, nil}, resp.Series[0].YData)
}

func TestQueryService_ExecuteUnsupportedChart(t *testing.T) {
	svc := newQueryService(t, &salesSource{})

	_, err := svc.Execute(context.Background(), "shop", &models.ElementQueryRequest{
		DataSource: "sales",
		Query:      models.DefaultQuery(),
		Chart: &models.ChartOptions{Series: []models.ChartSeries{
			{Type: "radar"},
		}},
	})
	require.Error(t, err)

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnsupportedChart, svcErr.Code)
	assert.Contains(t, svcErr.Message, "radar")
	assert.Equal(t, models.ChartSeriesType("radar"), svcErr.Details["type"])
}
