package handler

import (
	"errors"

	"catalog-web/internal/models"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminProductHandler serves the write side of the catalog.
type AdminProductHandler struct {
	productService *service.ProductService
}

func NewAdminProductHandler(productService *service.ProductService) *AdminProductHandler {
	return &AdminProductHandler{productService: productService}
}

func (h *AdminProductHandler) List(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	filter := productFilterFromQuery(c, true)

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

func (h *AdminProductHandler) Get(c *fiber.Ctx) error {
	product, err := h.productService.GetByID(c.Params("id"), true)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	}
	return utils.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *AdminProductHandler) Create(c *fiber.Ctx) error {
	var req models.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Product name is required", nil)
	}
	if req.Price <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Price must be positive", nil)
	}
	if req.StockQuantity < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Stock quantity cannot be negative", nil)
	}

	product, err := h.productService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrSKUTaken) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "SKU already in use", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create product", err)
	}

	return utils.SuccessResponse(c, "Product created successfully", product)
}

func (h *AdminProductHandler) Update(c *fiber.Ctx) error {
	var req models.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.Price != nil && *req.Price <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Price must be positive", nil)
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Stock quantity cannot be negative", nil)
	}

	product, err := h.productService.Update(c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
		case errors.Is(err, service.ErrSKUTaken):
			return utils.ErrorResponse(c, fiber.StatusConflict, "SKU already in use", nil)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update product", err)
		}
	}

	return utils.SuccessResponse(c, "Product updated successfully", product)
}

func (h *AdminProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.Params("id")); err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	}
	return utils.SuccessResponse(c, "Product deactivated successfully", nil)
}

func (h *AdminProductHandler) UpdateStock(c *fiber.Ctx) error {
	var req models.StockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.StockQuantity < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Stock quantity cannot be negative", nil)
	}

	product, err := h.productService.UpdateStock(c.Params("id"), req.StockQuantity)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	}

	return utils.SuccessResponse(c, "Stock updated successfully", product)
}

func (h *AdminProductHandler) BulkUpdateStatus(c *fiber.Ctx) error {
	var req models.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if len(req.IDs) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "At least one product id is required", nil)
	}

	affected, err := h.productService.BulkUpdateStatus(req)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update product status", err)
	}

	return utils.SuccessResponse(c, "Product status updated successfully", fiber.Map{
		"affected": affected,
	})
}
