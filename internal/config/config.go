package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

// Config is the session configuration read from a YAML or JSON file.
type Config struct {
	Prompt  string         `mapstructure:"prompt"`
	Debug   bool           `mapstructure:"debug"`
	Color   *bool          `mapstructure:"color"`
	Globals map[string]any `mapstructure:"globals"`
}

const DefaultPrompt = "> "

func Default() *Config {
	return &Config{Prompt: DefaultPrompt}
}

// Load reads the file at path, choosing the format by its extension.
func Load(path string) (*Config, error) {
	var parse func(io.Reader) (*Config, error)
	switch filepath.Ext(path) {
	case ".json":
		parse = ParseJSON
	case ".yaml", ".yml":
		parse = ParseYAML
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open(%q): %w", path, err)
	}
	defer f.Close()

	cfg, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func ParseYAML(r io.Reader) (*Config, error) {
	yamlBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	jsonBytes, err := yaml.YAMLToJSON(yamlBytes)
	if err != nil {
		return nil, fmt.Errorf("yaml.YAMLToJSON: %w", err)
	}

	return ParseJSON(bytes.NewReader(jsonBytes))
}

func ParseJSON(r io.Reader) (*Config, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	cfg := Default()
	md, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err := md.Decode(raw); err != nil {
		return nil, fmt.Errorf("mapstructure.Decode: %w", err)
	}

	for name, value := range cfg.Globals {
		v, err := decodeJSONNumber(value)
		if err != nil {
			return nil, fmt.Errorf("globals.%s: %w", name, err)
		}
		cfg.Globals[name] = v
	}
	return cfg, nil
}

// decodeJSONNumber turns json.Number into float64, the only numeric type of
// the language, and rejects anything that is not a scalar.
func decodeJSONNumber(v any) (any, error) {
	switch vv := v.(type) {
	case json.Number:
		f, err := vv.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %s: %w", vv, err)
		}
		return f, nil
	case nil, bool, string:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
