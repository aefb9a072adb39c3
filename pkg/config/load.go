package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/citylayout/pkg/city"
	"github.com/ChicagoDave/citylayout/pkg/validation"
)

const schemaURL = "https://citylayout.local/schemas/config.schema.json"

//go:embed config.schema.json
var schemaSource string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, schemaSource)
	})
	return compiledSchema, schemaErr
}

// Load reads a configuration file. Values present in the file override
// Default(); the result is validated before it is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration document the same way Load does.
func Parse(data []byte) (*Config, error) {
	cfg, report, err := Check(data)
	if err != nil {
		return nil, err
	}
	if err := report.Err(city.ErrInvalidConfig); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check decodes a YAML configuration document and collects every schema and
// semantic problem in the report. The config is nil when the document does
// not match the schema.
func Check(data []byte) (*Config, *validation.Report, error) {
	report, err := CheckSchema(data)
	if err != nil {
		return nil, nil, err
	}
	if !report.Valid {
		return nil, report, nil
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	report.Merge(Validate(cfg))
	return cfg, report, nil
}

// CheckSchema validates a raw YAML document against the embedded JSON schema.
// Schema violations are returned in the report; the error is reserved for
// documents that cannot be decoded at all.
func CheckSchema(data []byte) (*validation.Report, error) {
	report := validation.NewReport()

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if doc == nil {
		return report, nil
	}

	// The schema validator expects JSON-shaped values with json.Number leaves.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting config to JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, fmt.Errorf("decoding config JSON: %w", err)
	}

	schema, err := configSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return nil, fmt.Errorf("validating config: %w", err)
		}
		for _, leaf := range leafErrors(ve) {
			report.AddError(validation.Result{
				Level:      validation.LevelSchema,
				Message:    leaf.Message,
				ConfigPath: pointerToPath(leaf.InstanceLocation),
			})
		}
	}
	return report, nil
}

func leafErrors(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafErrors(c)...)
	}
	return out
}

// pointerToPath turns a JSON pointer such as "/rings/size_bands/0" into
// "rings.size_bands.0".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return "(root)"
	}
	return strings.ReplaceAll(ptr, "/", ".")
}
