// internal/commerce/products.go
package commerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Product represents a catalog product as the platform exposes it
type Product struct {
	ID           int     `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	NameEn       string  `json:"nameEn"`
	BrandName    string  `json:"brandName"`
	Type         string  `json:"type"`
	UnitPrice    float64 `json:"unitPrice"`
	FinalPrice   float64 `json:"finalPrice"`
	Image        string  `json:"image"`
	Description  string  `json:"description"`
	Sold         int     `json:"sold"`
	Pending      int     `json:"pending"`
	TotalStar    float64 `json:"totalStar"`
	TotalRate    int     `json:"totalRate"`
	TotalLike    int     `json:"totalLike"`
	TotalView    int     `json:"totalView"`
	IsHighlight  bool    `json:"isHighlight"`
	IsActive     bool    `json:"isActive"`
	IsPromotion  bool    `json:"isPromotion"`
	IsFlashSale  bool    `json:"isFlashSale"`
	VideoURL     string  `json:"videoUrl"`
	DeliveryType string  `json:"deliveryType"`
}

// ListProductsRequest represents product listing parameters
type ListProductsRequest struct {
	Search     string
	CategoryID int
	Page       int
	Limit      int
}

// ProductList represents a paginated product listing
type ProductList struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// GetProduct retrieves a single product by id
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/product/%d", id)
	if err := c.do(ctx, http.MethodGet, path, "", nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts retrieves a paginated product listing, optionally filtered by
// search query or category
func (c *Client) ListProducts(ctx context.Context, req ListProductsRequest) (*ProductList, error) {
	query := url.Values{}
	if req.Search != "" {
		query.Set("search", req.Search)
	}
	if req.CategoryID > 0 {
		query.Set("productCategoryId", strconv.Itoa(req.CategoryID))
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var list ProductList
	if err := c.do(ctx, http.MethodGet, "/product", "", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
