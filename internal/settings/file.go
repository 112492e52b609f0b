package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported settings file extension %q", ErrInvalidInput, filepath.Ext(path))
	}
}

// Decode overlays the fields present in data onto base. Fields absent from
// data keep their base values; unknown keys are rejected.
func Decode(format Format, data []byte, base Settings) (Settings, error) {
	s := base.Clone()
	var err error
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&s); errors.Is(err, io.EOF) {
			err = nil
		}
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return Settings{}, fmt.Errorf("%w: unsupported settings format %q", ErrInvalidInput, format)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("%w: decode %s settings: %v", ErrInvalidInput, format, err)
	}
	return s, nil
}

// LoadFile reads a YAML, TOML or JSON settings file on top of Default.
func LoadFile(path string) (Settings, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	return Decode(format, data, Default())
}

// Encode writes s in the given format.
func Encode(format Format, s Settings) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	default:
		return nil, fmt.Errorf("%w: unsupported settings format %q", ErrInvalidInput, format)
	}
}
