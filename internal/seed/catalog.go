package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset sizes one seeding run.
type Preset struct {
	Users              int     `yaml:"users"`
	Posts              int     `yaml:"posts"`
	MaxCommentsPerPost int     `yaml:"maxCommentsPerPost"`
	LikeChance         float64 `yaml:"likeChance"`
}

// Catalog is the fixed vocabulary seeded before generated content.
type Catalog struct {
	Categories []string          `yaml:"categories"`
	Tags       []string          `yaml:"tags"`
	Presets    map[string]Preset `yaml:"presets"`
}

// LoadCatalog parses the embedded presets file.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(presetsYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse seed presets: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("seed presets: no categories defined")
	}
	for name, p := range c.Presets {
		if p.Users <= 0 || p.Posts < 0 {
			return nil, fmt.Errorf("seed preset %q: users must be positive and posts non-negative", name)
		}
		if p.LikeChance < 0 || p.LikeChance > 1 {
			return nil, fmt.Errorf("seed preset %q: likeChance must be between 0 and 1", name)
		}
	}
	return &c, nil
}

// Preset looks up a named preset.
func (c *Catalog) Preset(name string) (Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown seed preset %q", name)
	}
	return p, nil
}
