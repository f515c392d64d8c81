// Package yamlfile reads and writes scene collections as YAML files,
// the human-editable interchange format for backup and migration.
package yamlfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scenecast/scenecast/internal/domain/resource"
)

// WriteCollection writes a collection snapshot to path.
func WriteCollection(path string, col resource.Collection) error {
	data, err := yaml.Marshal(col)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write collection file: %w", err)
	}
	return nil
}

// ReadCollection reads a collection snapshot from path.
func ReadCollection(path string) (resource.Collection, error) {
	var col resource.Collection

	data, err := os.ReadFile(path)
	if err != nil {
		return col, fmt.Errorf("read collection file: %w", err)
	}
	if err := yaml.Unmarshal(data, &col); err != nil {
		return col, fmt.Errorf("decode collection: %w", err)
	}
	return col, nil
}
