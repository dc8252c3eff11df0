// internal/domain/product/info.go
package product

import (
	"fmt"
	"sync"
)

// Info holds the facets shown on a product page
type Info struct {
	TotalStock      int      `json:"total_stock"`
	AvailableColors []string `json:"available_colors"`
	AvailableSizes  []string `json:"available_sizes"`
}

// DeriveInfo computes stock and the distinct colors and sizes of variants,
// in first-seen order. Missing or empty facet values are skipped.
func DeriveInfo(variants []ProductVariant) Info {
	info := Info{
		AvailableColors: []string{},
		AvailableSizes:  []string{},
	}
	seenColors := map[string]bool{}
	seenSizes := map[string]bool{}

	for _, v := range variants {
		info.TotalStock += v.Stock
		if v.Color != nil && *v.Color != "" && !seenColors[*v.Color] {
			seenColors[*v.Color] = true
			info.AvailableColors = append(info.AvailableColors, *v.Color)
		}
		if v.Size != nil && *v.Size != "" && !seenSizes[*v.Size] {
			seenSizes[*v.Size] = true
			info.AvailableSizes = append(info.AvailableSizes, *v.Size)
		}
	}
	return info
}

// InfoCache memoizes DeriveInfo per product and variant list version
type InfoCache struct {
	mu      sync.Mutex
	entries map[uint]infoEntry
}

type infoEntry struct {
	version string
	info    Info
}

// NewInfoCache creates an empty cache
func NewInfoCache() *InfoCache {
	return &InfoCache{entries: make(map[uint]infoEntry)}
}

// Get returns the cached info for productID, recomputing it when the
// variant list changed since it was stored.
func (c *InfoCache) Get(productID uint, variants []ProductVariant) Info {
	version := variantVersion(variants)

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[productID]; ok && entry.version == version {
		return entry.info
	}
	info := DeriveInfo(variants)
	c.entries[productID] = infoEntry{version: version, info: info}
	return info
}

// variantVersion changes whenever a variant is added, removed or updated
func variantVersion(variants []ProductVariant) string {
	var latest int64
	var idSum uint
	for _, v := range variants {
		if ts := v.UpdatedAt.UnixNano(); ts > latest {
			latest = ts
		}
		idSum += v.ID
	}
	return fmt.Sprintf("%d:%d:%d", len(variants), idSum, latest)
}
