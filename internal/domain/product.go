package domain

// Product is a catalog item. Price is in minor currency units.
type Product struct {
	ID          int64  `json:"id"`
	Category    int64  `json:"category"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

// CatalogPage is one page of the catalog as served by the storefront API.
type CatalogPage struct {
	Products   []Product `json:"data"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
	HasNext    bool      `json:"has_next"`
	HasPrev    bool      `json:"has_prev"`
}
