package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Load loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .patchrc will try both YAML and HCL formats
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var cfg *Config

	// For .patchrc files, try both YAML and HCL
	if ext == ".patchrc" || filepath.Base(path) == ".patchrc" {
		cfg, err = loadYAML(data)
		if err != nil {
			var hclErr error
			cfg, hclErr = loadHCL(data, path)
			if hclErr != nil {
				return nil, errors.Errorf("failed to parse .patchrc as YAML or HCL: %w", hclErr)
			}
		}
	} else {
		switch ext {
		case ".json":
			cfg, err = loadJSON(data)
		case ".yaml", ".yml":
			cfg, err = loadYAML(data)
		case ".hcl":
			cfg, err = loadHCL(data, path)
		default:
			return nil, errors.Errorf("unsupported file extension %q", ext)
		}
		if err != nil {
			return nil, err
		}
	}

	cfg.location = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*Config, error) {
	var cfg Config
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &cfg, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var cfg Config
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &cfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &cfg, nil
}
