package domain

import "sort"

// Catalog owns the set of sellable products, keyed by unique name.
// It is exclusively owned by one Machine and is not safe for concurrent use.
type Catalog struct {
	products map[string]*Product
}

// defaultCatalog returns the built-in fixed product set.
func defaultCatalog() *Catalog {
	return NewCatalog([]*Product{
		newFixedProduct("Tomato", "A red something", "throw it at some annoying person", 5),
		newFixedProduct("Banana", "A yellow fruit", "feed a monkey", 2),
		newFixedProduct("Cucumber", "A green vegetable", "store it in some dark place", 19),
	})
}

// NewCatalog creates a catalog holding the given products.
func NewCatalog(products []*Product) *Catalog {
	m := make(map[string]*Product, len(products))
	for _, p := range products {
		m[p.Name()] = p
	}
	return &Catalog{products: m}
}

// Get resolves a product by name.
func (c *Catalog) Get(name string) (*Product, bool) {
	p, ok := c.products[name]
	return p, ok
}

// All returns every product, fixed and custom. The slice is sorted by name
// for stable display; callers must not rely on the order.
func (c *Catalog) All() []*Product {
	out := make([]*Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// CustomOnly returns only the administrator-created products.
func (c *Catalog) CustomOnly() []*Product {
	out := make([]*Product, 0)
	for _, p := range c.All() {
		if p.Mutable() {
			out = append(out, p)
		}
	}
	return out
}

// LowestPrice returns the minimum price across all products.
func (c *Catalog) LowestPrice() (int64, error) {
	if len(c.products) == 0 {
		return 0, ErrEmptyCatalog
	}
	var min int64
	first := true
	for _, p := range c.products {
		if first || p.Price() < min {
			min = p.Price()
			first = false
		}
	}
	return min, nil
}

// TryAdd creates a new custom product. It returns false without mutating the
// catalog when the name is already taken; field validation failures are
// reported as errors, distinct from the collision outcome.
func (c *Catalog) TryAdd(name, description, usage string, price int64) (bool, error) {
	if _, exists := c.products[name]; exists {
		return false, nil
	}
	p, err := NewCustomProduct(name, description, usage, price)
	if err != nil {
		return false, err
	}
	c.products[name] = p
	return true, nil
}

// TryChange edits a custom product in place. Absent (nil or blank) fields
// keep their current value. It returns false when the name is unknown or the
// product is not mutable.
func (c *Catalog) TryChange(name string, description, usage *string, price *int64) (bool, error) {
	p, ok := c.products[name]
	if !ok {
		return false, nil
	}
	return p.change(description, usage, price)
}

// TryRemove deletes a custom product. It returns false when the name is
// unknown or the product is not mutable.
func (c *Catalog) TryRemove(name string) bool {
	p, ok := c.products[name]
	if !ok || !p.Mutable() {
		return false
	}
	delete(c.products, name)
	return true
}
