package repository

import (
	"fmt"
	"strings"

	"catalog-web/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Sortable columns exposed to list endpoints. Anything else falls back to
// created_at.
var productSortColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"stock_quantity": "stock_quantity",
	"created_at":     "created_at",
	"updated_at":     "updated_at",
}

const productColumns = `id, name, description, price, category, brand,
       sku, stock_quantity, image_url, tags, is_active, created_at, updated_at`

func (r *ProductRepository) FindAll(filter models.ProductFilter, limit, offset int) ([]models.Product, int, error) {
	var products []models.Product
	var total int

	conditions := []string{}
	args := []interface{}{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Query != "" {
		conditions = append(conditions, "(name LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category LIKE ?")
		args = append(args, "%"+filter.Category+"%")
	}
	if filter.Brand != "" {
		conditions = append(conditions, "brand LIKE ?")
		args = append(args, "%"+filter.Brand+"%")
	}
	if filter.MinPrice != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			conditions = append(conditions, "stock_quantity > 0")
		} else {
			conditions = append(conditions, "stock_quantity = 0")
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := productSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	orderClause := fmt.Sprintf("ORDER BY %s %s", sortColumn, sortOrder)
	if filter.Query != "" {
		// Name matches rank above description-only matches
		orderClause = "ORDER BY (name LIKE ?) DESC, created_at DESC"
		args = append(args, "%"+filter.Query+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM products %s %s LIMIT ? OFFSET ?",
		productColumns, whereClause, orderClause)
	args = append(args, limit, offset)

	if err := r.db.Select(&products, query, args...); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *ProductRepository) FindByID(id string, includeInactive bool) (*models.Product, error) {
	var product models.Product
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ?", productColumns)
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " LIMIT 1"
	if err := r.db.Get(&product, query, id); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindBySKU(sku string) (*models.Product, error) {
	var product models.Product
	query := fmt.Sprintf("SELECT %s FROM products WHERE sku = ? LIMIT 1", productColumns)
	if err := r.db.Get(&product, query, sku); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	query := `INSERT INTO products (id, name, description, price, category, brand, sku, stock_quantity, image_url, tags, is_active)
	          VALUES (:id, :name, :description, :price, :category, :brand, :sku, :stock_quantity, :image_url, :tags, :is_active)`
	_, err := r.db.NamedExec(query, product)
	return err
}

func (r *ProductRepository) Update(product *models.Product) error {
	query := `UPDATE products SET name = :name, description = :description, price = :price,
	          category = :category, brand = :brand, sku = :sku, stock_quantity = :stock_quantity,
	          image_url = :image_url, tags = :tags, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, product)
	return err
}

// SoftDelete marks a product inactive. Products are never hard-deleted.
func (r *ProductRepository) SoftDelete(id string) error {
	query := "UPDATE products SET is_active = FALSE WHERE id = ?"
	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func (r *ProductRepository) UpdateStock(id string, quantity int) error {
	query := "UPDATE products SET stock_quantity = ? WHERE id = ?"
	result, err := r.db.Exec(query, quantity, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}

func (r *ProductRepository) BulkUpdateStatus(ids []string, isActive bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("UPDATE products SET is_active = ? WHERE id IN (?)", isActive, ids)
	if err != nil {
		return 0, err
	}
	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ProductRepository) GetCategories() ([]models.CategoryCount, error) {
	var categories []models.CategoryCount
	query := `SELECT category AS name, COUNT(*) AS count
	          FROM products
	          WHERE is_active = TRUE AND category IS NOT NULL AND category != ''
	          GROUP BY category
	          ORDER BY category`
	err := r.db.Select(&categories, query)
	return categories, err
}

func (r *ProductRepository) GetBrands() ([]models.CategoryCount, error) {
	var brands []models.CategoryCount
	query := `SELECT brand AS name, COUNT(*) AS count
	          FROM products
	          WHERE is_active = TRUE AND brand IS NOT NULL AND brand != ''
	          GROUP BY brand
	          ORDER BY brand`
	err := r.db.Select(&brands, query)
	return brands, err
}

// FindSKUs snapshots sku -> id over the whole catalog, inactive items
// included, so imports reactivate soft-deleted products instead of
// colliding with their SKUs.
func (r *ProductRepository) FindSKUs() (map[string]string, error) {
	rows, err := r.db.Queryx("SELECT id, sku FROM products WHERE sku IS NOT NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skus := make(map[string]string)
	for rows.Next() {
		var id, sku string
		if err := rows.Scan(&id, &sku); err != nil {
			return nil, err
		}
		skus[sku] = id
	}
	return skus, rows.Err()
}

// ApplyBatch applies one import batch inside a single transaction. Any
// failure, including a SKU uniqueness violation raced in by a concurrent
// import, rolls back the whole batch. The unique key on sku is the final
// arbiter between concurrent imports.
func (r *ProductRepository) ApplyBatch(inserts, updates []*models.ImportCandidate) ([]string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertedIDs := make([]string, 0, len(inserts))
	insertQuery := `INSERT INTO products (id, name, description, price, category, brand, sku, stock_quantity, image_url, tags, is_active)
	                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, TRUE)`

	for _, cand := range inserts {
		id := uuid.New().String()
		if _, err := tx.Exec(insertQuery,
			id,
			cand.Name,
			cand.Description,
			cand.Price,
			cand.Category,
			cand.Brand,
			nullableSKU(cand.SKU),
			cand.StockQuantity,
			cand.ImageURL,
			models.Tags(cand.Tags),
		); err != nil {
			return nil, fmt.Errorf("insert for row %d failed: %w", cand.RowNum, err)
		}
		insertedIDs = append(insertedIDs, id)
	}

	for _, cand := range updates {
		query, args := buildImportUpdate(cand)
		if _, err := tx.Exec(query, args...); err != nil {
			return nil, fmt.Errorf("update for row %d failed: %w", cand.RowNum, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return insertedIDs, nil
}

// buildImportUpdate sets the fields the row actually carried; optional cells
// left blank keep their current catalog values. A matched item is always
// reactivated.
func buildImportUpdate(cand *models.ImportCandidate) (string, []interface{}) {
	set := []string{"name = ?", "price = ?", "stock_quantity = ?", "is_active = TRUE"}
	args := []interface{}{cand.Name, cand.Price, cand.StockQuantity}

	if cand.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *cand.Description)
	}
	if cand.Category != nil {
		set = append(set, "category = ?")
		args = append(args, *cand.Category)
	}
	if cand.Brand != nil {
		set = append(set, "brand = ?")
		args = append(args, *cand.Brand)
	}
	if cand.ImageURL != nil {
		set = append(set, "image_url = ?")
		args = append(args, *cand.ImageURL)
	}
	if len(cand.Tags) > 0 {
		set = append(set, "tags = ?")
		args = append(args, models.Tags(cand.Tags))
	}

	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", strings.Join(set, ", "))
	args = append(args, cand.TargetID)
	return query, args
}

func nullableSKU(sku string) interface{} {
	if sku == "" {
		return nil
	}
	return sku
}
