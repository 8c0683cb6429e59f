package memory

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Cyclists []seedCyclist `yaml:"cyclists"`
}

type seedCyclist struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Team     string `yaml:"team"`
	MinPrice string `yaml:"min_price"`
}

// LoadSeedCyclists reads the catalog from path, or the embedded default when path is empty.
func LoadSeedCyclists(path string) ([]cyclist.Cyclist, error) {
	raw := defaultSeed
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = content
	}

	return ParseSeedCyclists(raw)
}

func ParseSeedCyclists(raw []byte) ([]cyclist.Cyclist, error) {
	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}

	now := time.Now().UTC()
	out := make([]cyclist.Cyclist, 0, len(doc.Cyclists))
	for i, row := range doc.Cyclists {
		price, err := decimal.NewFromString(strings.TrimSpace(row.MinPrice))
		if err != nil {
			return nil, fmt.Errorf("seed cyclist %d: parse min_price %q: %w", i+1, row.MinPrice, err)
		}
		item := cyclist.Cyclist{
			ID:        strings.TrimSpace(row.ID),
			Name:      strings.TrimSpace(row.Name),
			Team:      strings.TrimSpace(row.Team),
			MinPrice:  price,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("seed cyclist %d: %w", i+1, err)
		}
		out = append(out, item)
	}

	return out, nil
}
