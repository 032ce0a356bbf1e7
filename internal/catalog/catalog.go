// Package catalog enumerates installable items grouped into named categories.
//
// A Catalog is immutable once built. Selection never fails: unknown category
// names contribute nothing, and callers that need to reject them use Has.
package catalog

// Item is one installable unit.
type Item struct {
	// ID is the opaque identifier passed to the package manager.
	ID string `yaml:"id"`
	// Name is the human-readable display name.
	Name string `yaml:"name"`
}

// DisplayName returns Name, falling back to ID.
func (i Item) DisplayName() string {
	if i.Name == "" {
		return i.ID
	}
	return i.Name
}

// Category is a named, ordered group of items.
type Category struct {
	Name  string `yaml:"name"`
	Items []Item `yaml:"items"`
}

// Catalog is an ordered set of categories.
type Catalog struct {
	categories []Category
	index      map[string]int
}

// New builds a catalog from categories in declaration order. A later category
// with a name already seen replaces nothing; the first declaration wins.
func New(categories ...Category) *Catalog {
	c := &Catalog{index: make(map[string]int, len(categories))}
	for _, cat := range categories {
		if _, dup := c.index[cat.Name]; dup {
			continue
		}
		items := make([]Item, len(cat.Items))
		copy(items, cat.Items)
		c.index[cat.Name] = len(c.categories)
		c.categories = append(c.categories, Category{Name: cat.Name, Items: items})
	}
	return c
}

// Categories returns category names in declaration order.
func (c *Catalog) Categories() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// Has reports whether a category with the given name exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Category returns a copy of the named category.
func (c *Catalog) Category(name string) (Category, bool) {
	i, ok := c.index[name]
	if !ok {
		return Category{}, false
	}
	cat := c.categories[i]
	items := make([]Item, len(cat.Items))
	copy(items, cat.Items)
	return Category{Name: cat.Name, Items: items}, true
}

// Select returns the union of the named categories. Items keep their
// declaration order within a category, categories are concatenated in the
// order given, and an item ID already selected is not repeated.
func (c *Catalog) Select(names ...string) []Item {
	seen := make(map[string]struct{})
	var items []Item
	for _, name := range names {
		i, ok := c.index[name]
		if !ok {
			continue
		}
		for _, item := range c.categories[i].Items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
	}
	return items
}

// All returns every item of every category in declaration order.
func (c *Catalog) All() []Item {
	return c.Select(c.Categories()...)
}
