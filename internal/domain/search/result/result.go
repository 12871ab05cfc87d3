package result

import "github.com/betahouse/listings/internal/domain/property"

// Meta describes the position of a page within the full match set.
type Meta struct {
	Total    int64
	Page     int
	PageSize int
	Pages    int
}

// Page is one page of search hits plus its metadata.
type Page struct {
	items []property.Property
	meta  Meta
}

// New creates a page. A nil item list is stored as empty.
func New(items []property.Property, meta Meta) Page {
	if items == nil {
		items = []property.Property{}
	}
	return Page{items: items, meta: meta}
}

// Items returns the hits in sort order. Never nil.
func (p *Page) Items() []property.Property { return p.items }

// Meta returns the pagination metadata.
func (p *Page) Meta() Meta { return p.meta }
