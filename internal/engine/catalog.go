package engine

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/daryltucker/tree-trial/internal/assets"
	"github.com/daryltucker/tree-trial/internal/config"
	"github.com/daryltucker/tree-trial/internal/tree"
)

// Catalog resolves dataset IDs to trees. Configured files override
// built-ins with the same ID.
type Catalog struct {
	files    map[string]string
	builtins map[string]bool
	maxDepth int
}

// NewCatalog builds the catalogue from the embedded datasets plus cfg.Datasets.
func NewCatalog(cfg *config.Config) (*Catalog, error) {
	names, err := assets.Names()
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in datasets: %w", err)
	}
	c := &Catalog{
		files:    make(map[string]string),
		builtins: make(map[string]bool),
		maxDepth: cfg.MaxDepth,
	}
	for _, n := range names {
		c.builtins[n] = true
	}
	for _, d := range cfg.Datasets {
		c.files[d.ID] = d.Path
	}
	return c, nil
}

// IDs returns every known dataset ID, sorted.
func (c *Catalog) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for id := range c.builtins {
		seen[id] = true
		ids = append(ids, id)
	}
	for id := range c.files {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Source describes where a dataset comes from.
func (c *Catalog) Source(id string) (string, bool) {
	if p, ok := c.files[id]; ok {
		return p, true
	}
	if c.builtins[id] {
		return "built-in", true
	}
	return "", false
}

// Random returns a dataset ID chosen uniformly. A nil rng uses the global source.
func (c *Catalog) Random(rng tree.IntN) (string, error) {
	ids := c.IDs()
	if len(ids) == 0 {
		return "", fmt.Errorf("no datasets configured")
	}
	if rng == nil {
		return ids[rand.IntN(len(ids))], nil
	}
	return ids[rng.IntN(len(ids))], nil
}

// Value decodes the raw dataset for id.
func (c *Catalog) Value(id string) (tree.Value, error) {
	if p, ok := c.files[id]; ok {
		return tree.LoadFile(p, c.maxDepth)
	}
	if !c.builtins[id] {
		return nil, fmt.Errorf("unknown dataset %q", id)
	}
	data, err := assets.Read(id)
	if err != nil {
		return nil, err
	}
	v, err := tree.DecodeLimit(data, c.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", id, err)
	}
	return v, nil
}

// Tree decodes and builds the dataset for id.
func (c *Catalog) Tree(id string) (*tree.Node, error) {
	v, err := c.Value(id)
	if err != nil {
		return nil, err
	}
	root, err := tree.Builder{MaxDepth: c.maxDepth}.Build(v)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", id, err)
	}
	return root, nil
}
