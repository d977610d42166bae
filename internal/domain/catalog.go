package domain

import "strings"

// Product is a catalog entry owned by a seller
type Product struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	MrpPrice           float64   `json:"mrpPrice"`
	SellingPrice       float64   `json:"sellingPrice"`
	DiscountPercentage int       `json:"discountPercentage"`
	Quantity           int       `json:"quantity"`
	Color              string    `json:"color,omitempty"`
	Stock              int       `json:"stock"`
	Images             []string  `json:"images"`
	NumRatings         int       `json:"numRatings"`
	Category           *Category `json:"category,omitempty"`
	Seller             *Seller   `json:"seller,omitempty"`
	CreatedAt          string    `json:"createdAt,omitempty"`
	Sizes              string    `json:"sizes,omitempty"`
}

// SizeList splits the comma-joined sizes field
func (p *Product) SizeList() []string {
	if p.Sizes == "" {
		return nil
	}
	parts := strings.Split(p.Sizes, ",")
	sizes := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// InStock reports whether the product can be ordered
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Category is a node of the three-level category hierarchy
type Category struct {
	ID              int64      `json:"id"`
	CategoryID      string     `json:"categoryId"`
	Name            string     `json:"name"`
	Image           string     `json:"image,omitempty"`
	Level           int        `json:"level"` // 1 = parent, 2 = child, 3 = sub-category
	ParentCategory  *Category  `json:"parentCategory,omitempty"`
	ChildCategories []Category `json:"childCategories,omitempty"`
}

// CategoryTree is the nested form returned by /categories/tree
type CategoryTree struct {
	ID           int64          `json:"id"`
	CategoryID   string         `json:"categoryId"`
	Name         string         `json:"name"`
	Image        string         `json:"image,omitempty"`
	Level        int            `json:"level"`
	CategoryPath string         `json:"categoryPath,omitempty"`
	Children     []CategoryTree `json:"children"`
}
