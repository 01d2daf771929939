package store

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/ashureev/orderbot/internal/domain"
	"gopkg.in/yaml.v3"
)

// menuFile is the on-disk menu format:
//
//	items:
//	  - name: pav bhaji
//	    price: 6.00
type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

// ParseMenu decodes a YAML menu document.
func ParseMenu(data []byte) ([]domain.MenuItem, error) {
	var f menuFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	seen := make(map[string]bool, len(f.Items))
	items := make([]domain.MenuItem, 0, len(f.Items))
	for i, e := range f.Items {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("menu item %d: name is empty", i)
		}
		if e.Price < 0 || math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
			return nil, fmt.Errorf("menu item %q: invalid price %v", name, e.Price)
		}
		if seen[name] {
			return nil, fmt.Errorf("menu item %q: duplicate entry", name)
		}
		seen[name] = true
		items = append(items, domain.MenuItem{
			Name:  name,
			Price: domain.Cents(math.Round(e.Price * 100)),
		})
	}
	return items, nil
}

// LoadMenuFile reads a YAML menu and upserts every entry. It returns the
// number of items written.
func LoadMenuFile(ctx context.Context, repo Repository, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read menu file: %w", err)
	}

	items, err := ParseMenu(data)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		if err := repo.UpsertMenuItem(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
