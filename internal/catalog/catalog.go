// Package catalog loads the static Technology and GameAsset lookup tables.
// Catalogs are configuration data, not services: the engine only reads
// effect values from them during action execution.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var defaultData embed.FS

// EffectKind enumerates passive bonuses granted by techs and assets.
type EffectKind string

const (
	EffectMovementSpeed  EffectKind = "movement_speed"
	EffectCombatAttack   EffectKind = "combat_attack"
	EffectCombatDefense  EffectKind = "combat_defense"
	EffectScavengeYield  EffectKind = "scavenge_yield"
	EffectFoodProduction EffectKind = "food_production"
	EffectResearchSpeed  EffectKind = "research_speed"
	EffectSabotage       EffectKind = "sabotage"
)

// Effect is a single passive bonus. Value is a fraction: 0.25 = +25%.
type Effect struct {
	Kind  EffectKind `yaml:"kind" json:"kind"`
	Value float64    `yaml:"value" json:"value"`
}

// Technology is a researchable tech.
type Technology struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	ResearchPoints int    `yaml:"research_points" json:"research_points"`
	RequiredTroops int    `yaml:"required_troops" json:"required_troops"`
	ScrapCost      int    `yaml:"scrap_cost" json:"scrap_cost"`
	Effect         Effect `yaml:"effect" json:"effect"`
	Prerequisite   string `yaml:"prerequisite,omitempty" json:"prerequisite,omitempty"`
}

// GameAsset is a granted item carrying a passive effect (vault loot,
// event rewards).
type GameAsset struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Effect Effect `yaml:"effect" json:"effect"`
}

// Catalogs bundles the static lookup tables.
type Catalogs struct {
	Techs  map[string]Technology
	Assets map[string]GameAsset

	// TechOrder lists tech ids in a stable order for deterministic iteration.
	TechOrder []string
}

type techFile struct {
	Technologies []Technology `yaml:"technologies"`
}

type assetFile struct {
	Assets []GameAsset `yaml:"assets"`
}

// Default loads the embedded catalogs. Panics only on a broken build (the
// embedded data is validated by tests).
func Default() *Catalogs {
	c, err := loadFS(defaultData, "data")
	if err != nil {
		panic(fmt.Sprintf("embedded catalogs: %v", err))
	}
	return c
}

// Load reads technologies.yaml and assets.yaml from a directory on disk.
func Load(dir string) (*Catalogs, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (*Catalogs, error) {
	var tf techFile
	if err := readYAML(fsys, path.Join(dir, "technologies.yaml"), &tf); err != nil {
		return nil, err
	}
	var af assetFile
	if err := readYAML(fsys, path.Join(dir, "assets.yaml"), &af); err != nil {
		return nil, err
	}

	c := &Catalogs{
		Techs:  make(map[string]Technology, len(tf.Technologies)),
		Assets: make(map[string]GameAsset, len(af.Assets)),
	}
	for _, tech := range tf.Technologies {
		if tech.ID == "" {
			return nil, fmt.Errorf("technology with empty id in catalog")
		}
		if _, dup := c.Techs[tech.ID]; dup {
			return nil, fmt.Errorf("duplicate technology id %q", tech.ID)
		}
		c.Techs[tech.ID] = tech
		c.TechOrder = append(c.TechOrder, tech.ID)
	}
	for _, a := range af.Assets {
		if a.ID == "" {
			return nil, fmt.Errorf("asset with empty id in catalog")
		}
		c.Assets[a.ID] = a
	}
	sort.Strings(c.TechOrder)

	// Prerequisites must resolve.
	for _, tech := range c.Techs {
		if tech.Prerequisite != "" {
			if _, ok := c.Techs[tech.Prerequisite]; !ok {
				return nil, fmt.Errorf("technology %q: unknown prerequisite %q", tech.ID, tech.Prerequisite)
			}
		}
	}
	return c, nil
}

func readYAML(fsys fs.FS, path string, out any) error {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
