package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/soltixdb/reportkit/internal/format"
)

// readDocument reads a YAML, TOML or JSON file, chosen by extension, and
// decodes it into v through its JSON form so the models' JSON rules apply
func readDocument(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read from %s", path)
	}
	return decodeDocument(filepath.Ext(path), data, v)
}

func decodeDocument(ext string, data []byte, v interface{}) error {
	var raw interface{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return errors.Wrapf(err, "failed to unmarshal yaml")
		}
	case ".toml":
		var doc map[string]interface{}
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return errors.Wrapf(err, "failed to unmarshal toml")
		}
		raw = doc
	case ".json", "":
		return errors.Wrapf(json.Unmarshal(data, v), "failed to unmarshal json")
	default:
		return errors.Errorf("unsupported file type %q (supported: .yaml, .yml, .toml, .json)", ext)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal")
	}
	return errors.Wrapf(json.Unmarshal(normalized, v), "failed to unmarshal")
}

// parseValue reads a command line value as JSON, falling back to the raw
// string. The bare word undefined stands for an absent value.
func parseValue(arg string) interface{} {
	if arg == "undefined" {
		return format.Undefined
	}
	var v interface{}
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal")
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
