package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jjenkins/legreview/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrUnknownDataset is returned for a selector the catalog does not list
var ErrUnknownDataset = errors.New("unknown dataset")

// Catalog lists the datasets a reviewer can select, in display order
type Catalog struct {
	datasets []model.Dataset
}

type catalogFile struct {
	Datasets []model.Dataset `yaml:"datasets"`
}

// DefaultCatalog returns the two built-in bylaw datasets under dataDir
func DefaultCatalog(dataDir string) *Catalog {
	return &Catalog{datasets: []model.Dataset{
		{Label: "نظام ج2", Path: filepath.Join(dataDir, "Bylaws2.json"), Variant: model.VariantSplit},
		{Label: "نظام ج1", Path: filepath.Join(dataDir, "Bylaws1.json"), Variant: model.VariantComposite},
	}}
}

// LoadCatalog reads a YAML catalog. Relative dataset paths are resolved
// against dataDir.
func LoadCatalog(path, dataDir string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset catalog %s: %w", path, err)
	}

	return NewCatalog(file.Datasets, dataDir)
}

// NewCatalog validates datasets and builds a Catalog
func NewCatalog(datasets []model.Dataset, dataDir string) (*Catalog, error) {
	if len(datasets) == 0 {
		return nil, fmt.Errorf("dataset catalog is empty")
	}

	seen := make(map[string]bool, len(datasets))
	out := make([]model.Dataset, 0, len(datasets))
	for i, d := range datasets {
		d.Label = strings.TrimSpace(d.Label)
		switch {
		case d.Label == "":
			return nil, fmt.Errorf("dataset %d: label is required", i)
		case seen[d.Label]:
			return nil, fmt.Errorf("dataset %q: duplicate label", d.Label)
		case d.Path == "":
			return nil, fmt.Errorf("dataset %q: path is required", d.Label)
		}
		if d.Variant == "" {
			d.Variant = model.VariantComposite
		}
		if d.Variant != model.VariantComposite && d.Variant != model.VariantSplit {
			return nil, fmt.Errorf("dataset %q: unknown variant %q", d.Label, d.Variant)
		}
		if !filepath.IsAbs(d.Path) && dataDir != "" {
			d.Path = filepath.Join(dataDir, d.Path)
		}

		seen[d.Label] = true
		out = append(out, d)
	}

	return &Catalog{datasets: out}, nil
}

// Datasets returns the catalog entries in display order
func (c *Catalog) Datasets() []model.Dataset {
	return append([]model.Dataset(nil), c.datasets...)
}

// Default returns the first dataset, which is preselected for new sessions
func (c *Catalog) Default() model.Dataset {
	return c.datasets[0]
}

// Lookup finds a dataset by label
func (c *Catalog) Lookup(label string) (model.Dataset, error) {
	label = strings.TrimSpace(label)
	for _, d := range c.datasets {
		if d.Label == label {
			return d, nil
		}
	}
	return model.Dataset{}, fmt.Errorf("%q: %w", label, ErrUnknownDataset)
}
