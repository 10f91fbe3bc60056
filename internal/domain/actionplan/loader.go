package actionplan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Tables []Table `toml:"tables" yaml:"tables"`
}

// LoadFile reads override tables from a .toml, .yaml or .yml file.
func LoadFile(path string) ([]Table, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnsupportedFormat)
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, err
	}
	return Decode(raw, strings.TrimPrefix(strings.ToLower(filepath.Ext(trimmed)), "."))
}

func Decode(raw []byte, format string) ([]Table, error) {
	var file tableFile
	switch format {
	case "toml":
		if err := toml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode toml tables: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("decode yaml tables: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	for i := range file.Tables {
		file.Tables[i].Family = Family(strings.ToLower(strings.TrimSpace(string(file.Tables[i].Family))))
		if err := file.Tables[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Tables, nil
}
