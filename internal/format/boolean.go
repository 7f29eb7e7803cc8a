package format

import "strings"

type booleanFormatter struct{}

func (booleanFormatter) check(_ Config, v interface{}) invalidKind {
	return checkCommon(v)
}

func (booleanFormatter) render(_ *Dispatcher, cfg Config, v interface{}) string {
	label := cfg.Boolean.FalsyLabel
	if strings.ToLower(Stringify(v)) == "true" {
		label = cfg.Boolean.TruthyLabel
	}
	return cfg.Common.Prefix + label + cfg.Common.Suffix
}
