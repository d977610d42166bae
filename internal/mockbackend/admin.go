package mockbackend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/bazaar-client/internal/domain"
	"github.com/prohmpiriya/bazaar-client/internal/dto"
	"github.com/prohmpiriya/bazaar-client/pkg/response"
)

// pageQuery reads the admin listing parameters; page is zero-based
func pageQuery(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	size, _ = strconv.Atoi(c.Query("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	return page, size
}

func pageOf[T any](items []T, page, size int) ([]T, dto.PageInfo) {
	info := dto.PageInfo{
		CurrentPage: page,
		TotalItems:  len(items),
		TotalPages:  (len(items) + size - 1) / size,
	}
	start := min(page*size, len(items))
	end := min(start+size, len(items))
	return items[start:end], info
}

func (s *Server) adminUsers(c *gin.Context) {
	page, size := pageQuery(c)
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	users := make([]domain.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		u := acc.user
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.FullName), search) {
			continue
		}
		users = append(users, u)
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	content, info := pageOf(users, page, size)
	response.OK(c, dto.UserPage{Users: content, PageInfo: info})
}

func (s *Server) adminSellers(c *gin.Context) {
	page, size := pageQuery(c)
	search := strings.ToLower(c.Query("search"))
	status := domain.AccountStatus(c.Query("status"))

	s.mu.Lock()
	sellers := make([]domain.Seller, 0)
	for _, acc := range s.accounts {
		if acc.seller == nil {
			continue
		}
		sl := *acc.seller
		if status != "" && sl.AccountStatus != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(sl.Email), search) &&
			!strings.Contains(strings.ToLower(sl.SellerName), search) {
			continue
		}
		sellers = append(sellers, sl)
	}
	s.mu.Unlock()

	sort.Slice(sellers, func(i, j int) bool { return sellers[i].ID < sellers[j].ID })
	content, info := pageOf(sellers, page, size)
	response.OK(c, dto.SellerPage{Sellers: content, PageInfo: info})
}
