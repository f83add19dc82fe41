package config

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/lionelmichaud/patrimoine/internal/fiscal"
)

// LoadFiscalModel loads the fiscal parameter document. An empty filename
// falls back to the built-in model. The model is initialized before being
// returned; it is unusable otherwise.
func LoadFiscalModel(filename string) (*fiscal.Model, error) {
	if filename == "" {
		model := fiscal.DefaultModel()
		if err := model.Initialize(); err != nil {
			return nil, fmt.Errorf("built-in fiscal model: %w", err)
		}
		return model, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var model fiscal.Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse fiscal model: %w", err)
	}
	if err := model.Initialize(); err != nil {
		return nil, fmt.Errorf("fiscal model validation failed: %w", err)
	}
	return &model, nil
}

// SaveFiscalModel writes the model as an indented JSON document, the same
// format LoadFiscalModel reads.
func SaveFiscalModel(model *fiscal.Model, filename string) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fiscal model: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
