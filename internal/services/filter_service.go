package services

import (
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/filtertree"
	"github.com/soltixdb/reportkit/internal/format"
	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
)

// FilterService converts and validates filters and formats values outside of
// any namespace
type FilterService struct {
	logger    *logging.Logger
	resolver  *expression.Resolver
	formatter *format.Dispatcher
	treeOpts  []filtertree.Option
}

// NewFilterService creates a FilterService. Presets are resolved with
// resolver and dates are rendered in the formatter's location.
func NewFilterService(logger *logging.Logger, resolver *expression.Resolver, formatter *format.Dispatcher, opts ...filtertree.Option) *FilterService {
	if resolver == nil {
		resolver = expression.NewResolver(nil, nil)
	}
	if formatter == nil {
		formatter = format.NewDispatcher(resolver.Location())
	}
	return &FilterService{
		logger:    logger,
		resolver:  resolver,
		formatter: formatter,
		treeOpts:  opts,
	}
}

// Tree builds the editable tree of a persisted filter
func (s *FilterService) Tree(req *models.FilterTreeRequest) (*models.FilterTreeResponse, error) {
	t, err := filtertree.Build(req.Filter, s.treeOpts...)
	if err != nil {
		s.logger.Error("Failed to build filter tree", "error", err)
		return nil, NewServiceError(CodeInvalidFilter, err.Error())
	}
	view := t.View()
	return &view, nil
}

// Wire converts a filter to its transport form
func (s *FilterService) Wire(req *models.WireFilterRequest) *models.WireFilterResponse {
	return &models.WireFilterResponse{
		Filter: filtertree.ToWireFilter(req.Filter, req.Prune, s.resolver),
	}
}

// Validate checks every leaf value against its operator rules
func (s *FilterService) Validate(req *models.ValidateFilterRequest) (*models.ValidateFilterResponse, error) {
	violations, err := filtertree.Validate(req.Filter, req.Columns, s.treeOpts...)
	if err != nil {
		return nil, NewServiceError(CodeInvalidFilter, err.Error())
	}
	return &models.ValidateFilterResponse{
		Valid:      len(violations) == 0,
		Violations: violations,
	}, nil
}

// Format renders values with one format config
func (s *FilterService) Format(req *models.FormatRequest) *models.FormatResponse {
	return &models.FormatResponse{
		Config: req.Config,
		Values: s.formatter.Values(req.Config, req.Values),
	}
}
