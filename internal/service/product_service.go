package service

import (
	"database/sql"
	"errors"
	"strings"

	"catalog-web/internal/models"
	"catalog-web/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUTaken        = errors.New("sku already in use")
)

type ProductService struct {
	productRepo *repository.ProductRepository
}

func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

func (s *ProductService) List(filter models.ProductFilter, limit, offset int) ([]models.Product, int, error) {
	return s.productRepo.FindAll(filter, limit, offset)
}

func (s *ProductService) GetByID(id string, includeInactive bool) (*models.Product, error) {
	product, err := s.productRepo.FindByID(id, includeInactive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Create(req models.ProductCreateRequest) (*models.Product, error) {
	product := &models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		Brand:         req.Brand,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
		Tags:          req.Tags,
		IsActive:      true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if req.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*req.SKU))
		if sku != "" {
			if existing, _ := s.productRepo.FindBySKU(sku); existing != nil {
				return nil, ErrSKUTaken
			}
			product.SKU = &sku
		}
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return s.GetByID(product.ID, true)
}

func (s *ProductService) Update(id string, req models.ProductUpdateRequest) (*models.Product, error) {
	product, err := s.GetByID(id, true)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*req.SKU))
		if sku == "" {
			product.SKU = nil
		} else {
			if existing, _ := s.productRepo.FindBySKU(sku); existing != nil && existing.ID != id {
				return nil, ErrSKUTaken
			}
			product.SKU = &sku
		}
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return s.GetByID(id, true)
}

func (s *ProductService) Delete(id string) error {
	return s.productRepo.SoftDelete(id)
}

func (s *ProductService) UpdateStock(id string, quantity int) (*models.Product, error) {
	if err := s.productRepo.UpdateStock(id, quantity); err != nil {
		return nil, err
	}
	return s.GetByID(id, true)
}

func (s *ProductService) BulkUpdateStatus(req models.BulkStatusRequest) (int64, error) {
	return s.productRepo.BulkUpdateStatus(req.IDs, req.IsActive)
}

func (s *ProductService) GetCategories() ([]models.CategoryCount, error) {
	return s.productRepo.GetCategories()
}

func (s *ProductService) GetBrands() ([]models.CategoryCount, error) {
	return s.productRepo.GetBrands()
}
