package catalog

import (
	"context"
	"strings"

	"github.com/Bhupesh-S/SmartShop-AI/pkg/api"
	"github.com/shopspring/decimal"
)

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "All"

// Review is one shopper review attached to a catalog entry.
type Review struct {
	Author  string
	Rating  int
	Comment string
}

// Entry is static reference data for one product. Entries are immutable for
// the lifetime of the session; the client never mutates the catalog.
type Entry struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    string
	Subcategory string
	Reviews     []Review
}

// Criteria is the derived filter state for the browse view.
type Criteria struct {
	SearchTerm string
	Category   string
}

// Catalog is an immutable product snapshot with id lookup.
type Catalog struct {
	entries []Entry
	byID    map[string]Entry
}

// New builds a catalog snapshot from entries, preserving their order.
func New(entries []Entry) *Catalog {
	byID := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	return &Catalog{entries: entries, byID: byID}
}

// Load fetches the catalog snapshot from the storefront API.
func Load(ctx context.Context, client *api.Client) (*Catalog, error) {
	products, err := client.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	return New(fromProducts(products)), nil
}

// Entries returns the full snapshot in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Lookup resolves an entry by product id. A miss is an absent result, not an
// error; callers render a not-found state.
func (c *Catalog) Lookup(id string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	entry, ok := c.byID[id]
	return entry, ok
}

// Len reports the snapshot size.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

func fromProducts(products []api.Product) []Entry {
	entries := make([]Entry, 0, len(products))
	for _, p := range products {
		reviews := make([]Review, 0, len(p.Reviews))
		for _, r := range p.Reviews {
			reviews = append(reviews, Review{Author: r.Author, Rating: r.Rating, Comment: r.Comment})
		}
		entries = append(entries, Entry{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Image:       p.Image,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Reviews:     reviews,
		})
	}
	return entries
}

// ApplyFilter derives the displayed subset: category equality first (unless
// CategoryAll), then a case-insensitive substring match over name,
// description, category, and subcategory. Both filters AND together and the
// result keeps catalog order.
func ApplyFilter(catalog []Entry, criteria Criteria) []Entry {
	category := strings.TrimSpace(criteria.Category)
	term := strings.ToLower(strings.TrimSpace(criteria.SearchTerm))

	filtered := make([]Entry, 0, len(catalog))
	for _, entry := range catalog {
		if category != "" && category != CategoryAll && entry.Category != category {
			continue
		}
		if term != "" && !matchesTerm(entry, term) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func matchesTerm(entry Entry, lowerTerm string) bool {
	for _, field := range []string{entry.Name, entry.Description, entry.Category, entry.Subcategory} {
		if strings.Contains(strings.ToLower(field), lowerTerm) {
			return true
		}
	}
	return false
}

// CategoryGroup pairs a category with its entries, in catalog order.
type CategoryGroup struct {
	Category string
	Entries  []Entry
}

// GroupByCategory partitions entries for display, grouped by the first
// occurrence of each category. Grouping never drops or duplicates entries.
func GroupByCategory(entries []Entry) []CategoryGroup {
	index := make(map[string]int)
	groups := make([]CategoryGroup, 0)

	for _, entry := range entries {
		pos, seen := index[entry.Category]
		if !seen {
			pos = len(groups)
			index[entry.Category] = pos
			groups = append(groups, CategoryGroup{Category: entry.Category})
		}
		groups[pos].Entries = append(groups[pos].Entries, entry)
	}

	return groups
}
