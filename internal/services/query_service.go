package services

import (
	"context"
	"time"

	"github.com/soltixdb/reportkit/internal/cache"
	"github.com/soltixdb/reportkit/internal/datachart"
	"github.com/soltixdb/reportkit/internal/datatable"
	"github.com/soltixdb/reportkit/internal/element"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/session"
)

// QueryService runs element fetches against the data sources of a namespace
type QueryService struct {
	logger     *logging.Logger
	namespaces *session.Namespaces
	defaults   element.Options
}

// NewQueryService creates a new QueryService. defaults applies to requests
// that leave useCount or removeFilterOnEmpty unset.
func NewQueryService(logger *logging.Logger, namespaces *session.Namespaces, defaults element.Options) *QueryService {
	return &QueryService{
		logger:     logger,
		namespaces: namespaces,
		defaults:   defaults,
	}
}

// Execute loads one element and shapes its rows for a data table
func (s *QueryService) Execute(ctx context.Context, namespace string, input *models.ElementQueryRequest) (*models.ElementQueryResponse, error) {
	startTime := time.Now()
	log := s.logger.WithContext(ctx)

	sess, err := session.ElementContext(s.namespaces, namespace, input.DataSource)
	if err != nil {
		return nil, setupError(err)
	}

	opts := s.defaults
	if input.UseCount != nil {
		opts.UseCount = *input.UseCount
	}
	if input.RemoveFilterOnEmpty != nil {
		opts.RemoveFilterOnEmpty = *input.RemoveFilterOnEmpty
	}

	el, err := element.New(sess, input.DataSource, opts)
	if err != nil {
		return nil, setupError(err)
	}
	defer el.Close()

	st, err := el.Load(ctx, input.Query)
	if err != nil {
		log.Warn("Element load interrupted",
			"namespace", namespace,
			"data_source", input.DataSource,
			"error", err)
		return nil, fetchError(input.DataSource, err)
	}
	if st.ExecErr != nil {
		log.Error("Element exec failed",
			"namespace", namespace,
			"data_source", input.DataSource,
			"error", st.ExecErr,
			"latency_ms", time.Since(startTime).Milliseconds())
		return nil, fetchError(input.DataSource, st.ExecErr)
	}
	if st.CountErr != nil {
		log.Warn("Element count failed",
			"namespace", namespace,
			"data_source", input.DataSource,
			"error", st.CountErr)
	}

	resp := &models.ElementQueryResponse{
		DataSource: input.DataSource,
		Cols:       st.Data.Cols,
		Rows:       st.Data.Rows,
		Count:      st.Data.Count,
		Loading:    st.Loading,
		Stale:      st.CountErr != nil,
	}
	if len(input.Columns) > 0 {
		resp.Columns = datatable.DataColumns(input.Columns, input.Query)
		resp.Table = datatable.FormatRows(
			models.DsDataSource{Cols: st.Data.Cols, Rows: st.Data.Rows},
			resp.Columns,
			sess.Formatter(),
		)
	}
	if input.Chart != nil {
		series, err := datachart.SeriesData(*input.Chart, models.DsDataSource{Cols: st.Data.Cols, Rows: st.Data.Rows})
		if err != nil {
			return nil, chartError(err)
		}
		resp.Series = series
	}

	log.Debug("Element query completed",
		"namespace", namespace,
		"data_source", input.DataSource,
		"rows", len(resp.Rows),
		"count", resp.Count,
		"latency_ms", time.Since(startTime).Milliseconds())

	return resp, nil
}

// Columns returns the columns of a data source in a namespace
func (s *QueryService) Columns(ctx context.Context, namespace, dataSource string) (*models.DsColumns, error) {
	sess, err := session.ElementContext(s.namespaces, namespace, dataSource)
	if err != nil {
		return nil, setupError(err)
	}

	key := cache.Key{DataSource: dataSource, Kind: cache.KindColumns, Epoch: sess.Refetch()}.String()
	var cols models.DsColumns
	if sess.Cache().GetJSON(key, &cols) {
		return &cols, nil
	}

	ds, err := sess.Registry().Resolve(dataSource)
	if err != nil {
		return nil, fetchError(dataSource, err)
	}

	cols, err = ds.Columns(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("Failed to load columns",
			"namespace", namespace,
			"data_source", dataSource,
			"error", err)
		return nil, fetchError(dataSource, err)
	}
	if cols.Columns == nil {
		cols.Columns = []models.DsColumn{}
	}
	if err := sess.Cache().SetJSON(key, cols); err != nil {
		s.logger.Warn("Failed to cache columns", "data_source", dataSource, "error", err)
	}
	return &cols, nil
}
