package models

import (
	"context"
	"errors"
	"fmt"
)

// SelectTypeSelect is the only supported filter input config type
const SelectTypeSelect = "select"

// ErrFilterConfigType is returned when a filter input config has no type
var ErrFilterConfigType = errors.New("filter config required a type")

// SelectOption is one entry of a select input
type SelectOption struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
}

// SelectParams pages and searches select options. Index is 1-based.
type SelectParams struct {
	Index  int    `json:"index"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
}

// OptionsFunc loads a page of options
type OptionsFunc func(ctx context.Context, params SelectParams) ([]SelectOption, error)

// CurrentFunc resolves the option of an already selected value. A nil option
// means the value is unknown.
type CurrentFunc func(ctx context.Context, selected interface{}) (*SelectOption, error)

// FilterSelectConfig drives a select input for one column's filter value
type FilterSelectConfig struct {
	Type    string
	Remote  *bool
	Current CurrentFunc
	Options OptionsFunc
}

// IsRemote reports whether options are searched remotely
func (c *FilterSelectConfig) IsRemote() bool {
	return c.Remote == nil || *c.Remote
}

// FilterBuilderConfig maps column names to their select input config
type FilterBuilderConfig map[string]*FilterSelectConfig

// DefaultFilterBuilderConfig fills defaults in place. Remote defaults to true
// and a missing Options loader yields no options.
func DefaultFilterBuilderConfig(cfg FilterBuilderConfig) (FilterBuilderConfig, error) {
	for column, sub := range cfg {
		if sub == nil || sub.Type == "" {
			return nil, fmt.Errorf("column %q: %w", column, ErrFilterConfigType)
		}
		if sub.Type != SelectTypeSelect {
			continue
		}
		if sub.Remote == nil {
			remote := true
			sub.Remote = &remote
		}
		if sub.Options == nil {
			sub.Options = func(context.Context, SelectParams) ([]SelectOption, error) {
				return []SelectOption{}, nil
			}
		}
	}
	return cfg, nil
}

// Select returns the select config for a column, if any
func (c FilterBuilderConfig) Select(column string) (*FilterSelectConfig, bool) {
	sub, ok := c[column]
	if !ok || sub == nil || sub.Type != SelectTypeSelect {
		return nil, false
	}
	return sub, true
}

// SafeOptions loads options and degrades any failure to an empty list. The
// error is returned only for logging.
func SafeOptions(ctx context.Context, c *FilterSelectConfig, params SelectParams) ([]SelectOption, error) {
	if c == nil || c.Options == nil {
		return []SelectOption{}, nil
	}
	opts, err := c.Options(ctx, params)
	if err != nil {
		return []SelectOption{}, err
	}
	if opts == nil {
		opts = []SelectOption{}
	}
	return opts, nil
}

// SafeCurrent resolves the selected option and degrades any failure to nil.
// The error is returned only for logging.
func SafeCurrent(ctx context.Context, c *FilterSelectConfig, selected interface{}) (*SelectOption, error) {
	if c == nil || c.Current == nil {
		return nil, nil
	}
	opt, err := c.Current(ctx, selected)
	if err != nil {
		return nil, err
	}
	return opt, nil
}
