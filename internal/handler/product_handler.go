package handler

import (
	"strconv"

	"catalog-web/internal/models"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the public, read-only catalog endpoints. Inactive
// products are never visible here.
type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	filter := productFilterFromQuery(c, false)

	products, total, err := h.productService.List(filter, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Products retrieved successfully", fiber.Map{
		"products":   products,
		"pagination": pagination,
	}, pagination)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Params("id"), false)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	}
	return utils.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.productService.GetCategories()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories", err)
	}
	return utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

func (h *ProductHandler) Brands(c *fiber.Ctx) error {
	brands, err := h.productService.GetBrands()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve brands", err)
	}
	return utils.SuccessResponse(c, "Brands retrieved successfully", brands)
}

// productFilterFromQuery maps the shared listing query parameters. Admin
// listings may additionally opt in to inactive items.
func productFilterFromQuery(c *fiber.Ctx, allowInactive bool) models.ProductFilter {
	filter := models.ProductFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Brand:     c.Query("brand"),
		SortBy:    c.Query("sort_by", "created_at"),
		SortOrder: c.Query("sort_order", "desc"),
	}

	if v := c.Query("min_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &price
		}
	}
	if v := c.Query("in_stock"); v != "" {
		inStock := v == "true" || v == "1"
		filter.InStock = &inStock
	}
	if allowInactive {
		filter.IncludeInactive = c.Query("include_inactive") == "true"
	}

	return filter
}
