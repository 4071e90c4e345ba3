package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/loonghao/auroraview-sub000/mapsafe"
)

//go:embed auroraview.v1.schema.json
var schemaJSON string

const schemaName = "auroraview.v1.schema.json"

// LoadAndValidate loads and validates the configuration.
func LoadAndValidate(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("dispatcher: config validation failed: %w", err)
	}

	if doc, ok := raw.(map[string]any); ok {
		slog.Debug("Config schema accepted",
			"version", mapsafe.Get(doc, "version", ""),
			"backend", mapsafe.Get(mapsafe.Section(doc, "dispatch"), "backend", "auto"))
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("dispatcher: failed to unmarshal into Config struct: %w", err)
	}

	return &config, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("dispatcher: failed to load schema: %w", err)
	}

	schema, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("dispatcher: failed to compile schema: %w", err)
	}

	return schema, nil
}
