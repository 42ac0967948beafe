// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package region indexes named bounding boxes in an R-tree so a resolved
// coordinate can be tested against many regions at once.
package region

import (
	"fmt"
	"os"
	"sort"

	"github.com/dhconnelly/rtreego"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geo-extract/pkg/types"
)

const (
	dimensions  = 2
	minChildren = 4
	maxChildren = 16

	// tolerance gives query points and degenerate boxes a non-zero extent.
	tolerance = 1e-9
)

type regionItem struct {
	region types.Region
	rect   *rtreego.Rect
}

func (r *regionItem) Bounds() *rtreego.Rect { return r.rect }

// Index answers point-in-region queries.
type Index struct {
	tree  *rtreego.Rtree
	count int
}

// NewIndex builds an index over regions. Boxes must have min <= max on both
// axes.
func NewIndex(regions []types.Region) (*Index, error) {
	idx := &Index{tree: rtreego.NewTree(dimensions, minChildren, maxChildren)}
	for _, r := range regions {
		if r.MinLat > r.MaxLat || r.MinLng > r.MaxLng {
			return nil, fmt.Errorf("region %q: min corner exceeds max corner", r.Name)
		}
		rect, err := rtreego.NewRect(
			rtreego.Point{r.MinLat, r.MinLng},
			[]float64{extent(r.MaxLat - r.MinLat), extent(r.MaxLng - r.MinLng)},
		)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", r.Name, err)
		}
		idx.tree.Insert(&regionItem{region: r, rect: rect})
		idx.count++
	}
	return idx, nil
}

func extent(d float64) float64 {
	if d < tolerance {
		return tolerance
	}
	return d
}

// Match returns the names of all regions containing c, sorted.
func (x *Index) Match(c types.Coordinate) []string {
	if x == nil || x.count == 0 {
		return nil
	}
	hits := x.tree.SearchIntersect(rtreego.Point{c.Lat, c.Lng}.ToRect(tolerance))

	var names []string
	for _, h := range hits {
		item, ok := h.(*regionItem)
		if !ok || !item.region.Contains(c) {
			continue
		}
		names = append(names, item.region.Name)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether any region contains c.
func (x *Index) Contains(c types.Coordinate) bool {
	return len(x.Match(c)) > 0
}

// regionFile is the on-disk list of regions.
type regionFile struct {
	Regions []types.Region `yaml:"regions"`
}

// LoadFile reads regions from a YAML file with a top-level "regions" list.
func LoadFile(path string) ([]types.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading region file: %w", err)
	}
	var rf regionFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing region file: %w", err)
	}
	return rf.Regions, nil
}
