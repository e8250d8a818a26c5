package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/schema"
	"gopkg.in/yaml.v3"
)

// Format is a supported dataset file encoding.
type Format string

// Supported dataset formats.
const (
	YAMLFormat Format = "yaml"
	TOMLFormat Format = "toml"
	JSONFormat Format = "json"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".toml":
		return TOMLFormat, nil
	case ".json":
		return JSONFormat, nil
	default:
		return "", fmt.Errorf("unsupported dataset file extension %q", filepath.Ext(path))
	}
}

// LoadFile reads and validates a dataset from path.
func LoadFile(path string) (*schema.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-provided dataset path
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	ds, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return ds, nil
}

// Decode parses and validates a dataset.
func Decode(data []byte, format Format) (*schema.Dataset, error) {
	var ds schema.Dataset
	var err error
	switch format {
	case YAMLFormat:
		err = yaml.Unmarshal(data, &ds)
	case TOMLFormat:
		err = toml.Unmarshal(data, &ds)
	case JSONFormat:
		err = json.Unmarshal(data, &ds)
	default:
		err = fmt.Errorf("unsupported dataset format %q", format)
	}
	if err != nil {
		return nil, err
	}
	ds.ID = schema.NormalizeDatasetID(string(ds.ID))
	if ds.ID == "" {
		return nil, fmt.Errorf("%w: missing id", core.ErrInvalidDataset)
	}
	if err := core.ValidateDataset(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Encode writes ds in the given format; used to produce templates for custom datasets.
func Encode(w io.Writer, ds *schema.Dataset, format Format) error {
	switch format {
	case YAMLFormat:
		enc := yaml.NewEncoder(w)
		defer enc.Close() //nolint:errcheck // best-effort close
		enc.SetIndent(2)
		return enc.Encode(ds)
	case TOMLFormat:
		return toml.NewEncoder(w).Encode(ds)
	case JSONFormat:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	default:
		return fmt.Errorf("unsupported dataset format %q", format)
	}
}
