package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/sales-dashboard/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// LoadCatalog reads the funnel and salesperson catalog from path, or the
// built-in catalog when path is empty.
func LoadCatalog(path string) (*models.Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog. Unknown keys are rejected.
func ParseCatalog(data []byte) (*models.Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c models.Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateCatalog(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func validateCatalog(c *models.Catalog) error {
	var errList []error
	if len(c.Funnels) == 0 {
		errList = append(errList, errors.New("catalog has no funnels"))
	}
	if len(c.Salespeople) == 0 {
		errList = append(errList, errors.New("catalog has no salespeople"))
	}

	categories := make(map[string]bool)
	stages := make(map[string]bool)
	for i, f := range c.Funnels {
		if f.ID == "" || f.StageID == "" {
			errList = append(errList, fmt.Errorf("funnel %d: id and stageId are required", i))
			continue
		}
		if categories[f.ID] {
			errList = append(errList, fmt.Errorf("funnel %d: duplicate id %q", i, f.ID))
		}
		if stages[f.StageID] {
			errList = append(errList, fmt.Errorf("funnel %d: duplicate stageId %q", i, f.StageID))
		}
		categories[f.ID] = true
		stages[f.StageID] = true
	}

	people := make(map[int64]bool)
	for i, s := range c.Salespeople {
		if s.ID <= 0 {
			errList = append(errList, fmt.Errorf("salesperson %d: id must be positive", i))
			continue
		}
		if people[s.ID] {
			errList = append(errList, fmt.Errorf("salesperson %d: duplicate id %d", i, s.ID))
		}
		people[s.ID] = true
	}
	return errors.Join(errList...)
}
