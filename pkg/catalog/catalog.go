// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// New returns an empty catalog stamped with the given version.
func New(version string) *IntentCatalog {
	return &IntentCatalog{
		Version:     version,
		LastUpdated: time.Now().Format(time.RFC3339),
		Intents:     []Entry{},
	}
}

// Load reads a catalog file from disk.
func Load(path string) (*IntentCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat IntentCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// Save writes the catalog as indented JSON, creating the directory if
// needed.
func Save(cat *IntentCatalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// Add appends an entry and refreshes the timestamp. Duplicate categories
// are rejected.
func (c *IntentCatalog) Add(entry Entry) error {
	for _, existing := range c.Intents {
		if existing.Category == entry.Category {
			return fmt.Errorf("intent with category %s already exists", entry.Category)
		}
	}
	c.Intents = append(c.Intents, entry)
	c.LastUpdated = time.Now().Format(time.RFC3339)
	return nil
}

// Validate checks structural integrity: no duplicates, no missing
// required fields.
func (c *IntentCatalog) Validate() error {
	if len(c.Intents) == 0 {
		return fmt.Errorf("catalog contains no intents")
	}

	seen := make(map[string]bool)
	for _, entry := range c.Intents {
		if entry.Category == "" {
			return fmt.Errorf("intent missing required field: Category")
		}
		if seen[entry.Category] {
			return fmt.Errorf("duplicate intent category: %s", entry.Category)
		}
		seen[entry.Category] = true

		if entry.DisplayName == "" {
			return fmt.Errorf("intent %s missing required field: DisplayName", entry.Category)
		}
		if entry.Description == "" {
			return fmt.Errorf("intent %s missing required field: Description", entry.Category)
		}
		switch entry.Status {
		case "available", "planned", "disabled":
		default:
			return fmt.Errorf("intent %s has unknown status: %s", entry.Category, entry.Status)
		}
	}
	return nil
}
