package mockbackend

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

const defaultPageSize = 10

func (s *Server) listProducts(c *gin.Context) {
	filter := parseFilter(c)

	s.mu.Lock()
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.matches(p) {
			matched = append(matched, *p)
		}
	}
	s.mu.Unlock()

	sortProducts(matched, filter.Sort)
	response.OK(c, paginate(matched, filter.PageNumber, filter.PageSize))
}

func (s *Server) searchProducts(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	s.mu.Lock()
	found := make([]domain.Product, 0)
	for _, p := range s.products {
		if query == "" || productMatches(p, query) {
			found = append(found, *p)
		}
	}
	s.mu.Unlock()

	sortProducts(found, "")
	response.OK(c, found)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	var out domain.Product
	if found {
		out = *p
	}
	s.mu.Unlock()

	if !found {
		response.NotFound(c, "Product not found")
		return
	}
	response.OK(c, out)
}

type productFilter struct {
	dto.ProductFilter
}

func parseFilter(c *gin.Context) productFilter {
	atoi := func(key string) int {
		n, _ := strconv.Atoi(c.Query(key))
		return n
	}
	split := func(key string) []string {
		if v := c.Query(key); v != "" {
			return strings.Split(v, ",")
		}
		return nil
	}
	f := productFilter{dto.ProductFilter{
		Category:    c.Query("category"),
		Brand:       c.Query("brand"),
		Colors:      split("colors"),
		Sizes:       split("sizes"),
		MinPrice:    atoi("minPrice"),
		MaxPrice:    atoi("maxPrice"),
		MinDiscount: atoi("minDiscount"),
		Sort:        c.Query("sort"),
		Stock:       c.Query("stock"),
		PageNumber:  atoi("pageNumber"),
		PageSize:    atoi("pageSize"),
	}}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageNumber < 0 {
		f.PageNumber = 0
	}
	return f
}

func (f productFilter) matches(p *domain.Product) bool {
	if f.Category != "" && (p.Category == nil || p.Category.CategoryID != f.Category) {
		return false
	}
	if len(f.Colors) > 0 && !containsFold(f.Colors, p.Color) {
		return false
	}
	if len(f.Sizes) > 0 {
		hit := false
		for _, size := range p.SizeList() {
			if containsFold(f.Sizes, size) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.MinPrice > 0 && p.SellingPrice < float64(f.MinPrice) {
		return false
	}
	if f.MaxPrice > 0 && p.SellingPrice > float64(f.MaxPrice) {
		return false
	}
	if f.MinDiscount > 0 && p.DiscountPercentage < f.MinDiscount {
		return false
	}
	switch f.Stock {
	case "in_stock":
		return p.InStock()
	case "out_of_stock":
		return !p.InStock()
	}
	return true
}

func productMatches(p *domain.Product, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}
	return p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), query)
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(strings.TrimSpace(candidate), v) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, order string) {
	sort.SliceStable(products, func(i, j int) bool {
		switch order {
		case "price_low":
			return products[i].SellingPrice < products[j].SellingPrice
		case "price_high":
			return products[i].SellingPrice > products[j].SellingPrice
		}
		return products[i].ID < products[j].ID
	})
}

// paginate slices a zero-based page out of products
func paginate(products []domain.Product, number, size int) dto.ProductPage {
	total := len(products)
	pages := (total + size - 1) / size
	start := number * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return dto.ProductPage{
		Content:       products[start:end],
		TotalElements: total,
		TotalPages:    pages,
		Number:        number,
		Size:          size,
		Last:          number >= pages-1,
	}
}

func (s *Server) listReviews(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}

	s.mu.Lock()
	reviews := append([]domain.Review{}, s.reviews[id]...)
	s.mu.Unlock()

	response.OK(c, reviews)
}

func (s *Server) createReview(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	acc := currentAccount(c)

	s.mu.Lock()
	p, found := s.products[id]
	if !found {
		s.mu.Unlock()
		response.NotFound(c, "Product not found")
		return
	}
	user := acc.user
	review := domain.Review{
		ID:            s.id(),
		ReviewText:    req.ReviewText,
		Rating:        req.ReviewRating,
		ProductImages: req.ProductImages,
		User:          &user,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	s.reviews[id] = append(s.reviews[id], review)
	p.NumRatings++
	s.mu.Unlock()

	response.Created(c, review)
}
