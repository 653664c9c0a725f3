package service

import (
	"testing"

	"catalog-web/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFullRow(t *testing.T) {
	validator := NewRowValidator()

	cand, errs := validator.Validate(models.ProductRow{
		RowNum:      2,
		Name:        "  Oak Desk  ",
		Description: "Solid oak office desk",
		Price:       "249.50",
		Category:    "furniture",
		Brand:       "Acme",
		SKU:         "desk-001",
		Stock:       "5",
		Tags:        "wood, office",
	})

	require.Empty(t, errs)
	require.NotNil(t, cand)

	assert.Equal(t, "Oak Desk", cand.Name)
	assert.Equal(t, 249.50, cand.Price)
	assert.Equal(t, "DESK-001", cand.SKU)
	assert.Equal(t, 5, cand.StockQuantity)
	assert.Equal(t, []string{"wood", "office"}, cand.Tags)

	require.NotNil(t, cand.Category)
	assert.Equal(t, "Furniture", *cand.Category)
	require.NotNil(t, cand.Description)
	assert.Equal(t, "Solid oak office desk", *cand.Description)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	validator := NewRowValidator()

	cand, errs := validator.Validate(models.ProductRow{
		RowNum: 7,
		Name:   "   ",
		Price:  "abc",
		Stock:  "-3",
	})

	assert.Nil(t, cand)
	require.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		assert.Equal(t, 7, e.Row)
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"name", "price", "stock_quantity"}, fields)
}

func TestValidatePriceRules(t *testing.T) {
	validator := NewRowValidator()

	tests := []struct {
		name    string
		price   string
		wantMsg string
	}{
		{"missing", "", "price is required"},
		{"not a number", "free", "invalid price format"},
		{"zero", "0", "price must be positive"},
		{"negative", "-5", "price must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand, errs := validator.Validate(models.ProductRow{
				RowNum: 3,
				Name:   "Lamp",
				Price:  tt.price,
			})
			assert.Nil(t, cand)
			require.Len(t, errs, 1)
			assert.Equal(t, "price", errs[0].Field)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestValidatePriceRoundsToCents(t *testing.T) {
	validator := NewRowValidator()

	cand, errs := validator.Validate(models.ProductRow{
		RowNum: 2,
		Name:   "Lamp",
		Price:  "19.999",
	})

	require.Empty(t, errs)
	assert.Equal(t, 20.0, cand.Price)
}

func TestValidateStockDefaultsToZero(t *testing.T) {
	validator := NewRowValidator()

	cand, errs := validator.Validate(models.ProductRow{
		RowNum: 2,
		Name:   "Lamp",
		Price:  "10",
		Stock:  "",
	})

	require.Empty(t, errs)
	assert.Equal(t, 0, cand.StockQuantity)
}

func TestValidateOptionalFieldsAbsentWhenBlank(t *testing.T) {
	validator := NewRowValidator()

	cand, errs := validator.Validate(models.ProductRow{
		RowNum: 2,
		Name:   "Lamp",
		Price:  "10",
		SKU:    "   ",
	})

	require.Empty(t, errs)
	assert.Empty(t, cand.SKU)
	assert.Nil(t, cand.Description)
	assert.Nil(t, cand.Category)
	assert.Nil(t, cand.Brand)
	assert.Nil(t, cand.ImageURL)
	assert.Nil(t, cand.Tags)
}

func TestSplitTagsDedupesAndTrims(t *testing.T) {
	assert.Equal(t, []string{"wood", "office"}, splitTags(" wood , office , wood ,, "))
	assert.Nil(t, splitTags("  "))
	assert.Nil(t, splitTags(""))
}
