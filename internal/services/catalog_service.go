package services

import (
	"fmt"

	"github.com/soltixdb/reportkit/internal/aggregation"
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/operators"
)

// CatalogService serves the static catalogs: operators, aggregations and
// date presets
type CatalogService struct {
	resolver *expression.Resolver
}

// NewCatalogService creates a CatalogService. Presets are resolved with
// resolver's clock and location.
func NewCatalogService(resolver *expression.Resolver) *CatalogService {
	if resolver == nil {
		resolver = expression.NewResolver(nil, nil)
	}
	return &CatalogService{resolver: resolver}
}

// Operators lists the operators legal for a column type
func (s *CatalogService) Operators(columnType string) (*models.OperatorListResponse, error) {
	t, err := parseColumnType(columnType)
	if err != nil {
		return nil, err
	}

	list := operators.ForColumnType(t)
	resp := &models.OperatorListResponse{
		Type:      t,
		Operators: make([]models.OperatorOptionResponse, 0, len(list)),
	}
	for _, o := range list {
		resp.Operators = append(resp.Operators, models.OperatorOptionResponse{
			Label:        o.Label,
			Value:        o.Value,
			RequireValue: operators.RequireValue(o.Value),
			HasValidator: o.HasValidator(),
		})
	}
	return resp, nil
}

// Aggregations lists the aggregations legal for a column type. Default is
// requested when it is legal, otherwise the first entry.
func (s *CatalogService) Aggregations(columnType, requested string) (*models.AggregationListResponse, error) {
	t, err := parseColumnType(columnType)
	if err != nil {
		return nil, err
	}

	list := aggregation.ForColumnType(t)
	resp := &models.AggregationListResponse{
		Type:         t,
		Aggregations: make([]models.AggregationOption, 0, len(list)),
		Default:      aggregation.Default(t, models.AggregationType(requested)),
	}
	for _, o := range list {
		resp.Aggregations = append(resp.Aggregations, models.AggregationOption{Label: o.Label, Value: o.Value})
	}
	return resp, nil
}

// Presets lists every preset with its range at the current instant
func (s *CatalogService) Presets() *models.PresetListResponse {
	now := s.resolver.Now()
	list := expression.Presets()

	resp := &models.PresetListResponse{
		Now:     expression.FormatISO(now),
		Presets: make([]models.PresetResponse, 0, len(list)),
	}
	for _, p := range list {
		resp.Presets = append(resp.Presets, models.PresetResponse{
			Label:  p.Label,
			Tokens: p.Tokens,
			Range:  p.Resolve(now),
		})
	}
	return resp
}

func parseColumnType(value string) (models.ColumnType, error) {
	for _, t := range models.ColumnTypes {
		if string(t) == value {
			return t, nil
		}
	}
	return "", NewServiceErrorWithDetails(CodeInvalidColumnType,
		fmt.Sprintf("unknown column type: %s", value),
		map[string]interface{}{"supported": models.ColumnTypes})
}
