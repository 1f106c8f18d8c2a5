// Package catalog holds the fixture template reference data. Lookups fail
// loudly: a gene referencing an unknown template is a checked error, never a
// silent default, since substituted photometrics would corrupt fitness
// comparisons between runs.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"luxgen/internal/model"
)

var ErrUnknownTemplate = errors.New("unknown fixture template")

// Catalog is an immutable id-indexed set of fixture templates.
type Catalog struct {
	byID  map[string]model.FixtureTemplate
	order []string
}

// New builds a catalog from templates. Duplicate or empty ids are rejected.
func New(templates []model.FixtureTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, errors.New("fixture catalog is empty")
	}
	byID := make(map[string]model.FixtureTemplate, len(templates))
	order := make([]string, 0, len(templates))
	for i, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template at index %d has empty id", i)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id: %s", t.ID)
		}
		if t.Lumens <= 0 || t.Wattage <= 0 {
			return nil, fmt.Errorf("template %s must have positive lumens and wattage", t.ID)
		}
		if t.BeamAngle <= 0 || t.BeamAngle > 180 {
			return nil, fmt.Errorf("template %s beam angle out of range: %g", t.ID, t.BeamAngle)
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}
	return &Catalog{byID: byID, order: order}, nil
}

// Lookup returns the template for id or ErrUnknownTemplate.
func (c *Catalog) Lookup(id string) (model.FixtureTemplate, error) {
	t, ok := c.byID[id]
	if !ok {
		return model.FixtureTemplate{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	return t, nil
}

// IDs returns template ids in registration order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// Templates returns all templates sorted by id.
func (c *Catalog) Templates() []model.FixtureTemplate {
	out := make([]model.FixtureTemplate, 0, len(c.byID))
	for _, t := range c.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadFile reads a JSON array of templates from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var templates []model.FixtureTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse fixture catalog %s: %w", path, err)
	}
	return New(templates)
}

// Default returns a small built-in catalog of common horticultural fixtures.
func Default() *Catalog {
	c, err := New([]model.FixtureTemplate{
		{ID: "led-320", Name: "LED Bar 320W", Lumens: 48000, Wattage: 320, BeamAngle: 120, Cost: 520, Width: 1.1, Length: 0.11, Height: 0.08},
		{ID: "led-480", Name: "LED Bar 480W", Lumens: 74000, Wattage: 480, BeamAngle: 120, Cost: 780, Width: 1.1, Length: 0.21, Height: 0.08},
		{ID: "led-650", Name: "LED Panel 650W", Lumens: 101000, Wattage: 650, BeamAngle: 110, Cost: 1150, Width: 1.2, Length: 1.1, Height: 0.1},
		{ID: "cmh-315", Name: "CMH 315W", Lumens: 33000, Wattage: 315, BeamAngle: 100, Cost: 340, Width: 0.5, Length: 0.45, Height: 0.2},
		{ID: "hps-600", Name: "HPS 600W", Lumens: 90000, Wattage: 600, BeamAngle: 130, Cost: 280, Width: 0.55, Length: 0.5, Height: 0.25},
	})
	if err != nil {
		panic(err)
	}
	return c
}
