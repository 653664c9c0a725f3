package service

import (
	"math"
	"strconv"
	"strings"

	"catalog-web/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RowValidator turns one raw spreadsheet row into a normalized import
// candidate, or into the full list of field errors for that row. Violations
// are collected rather than short-circuited so an operator can fix the whole
// spreadsheet in one pass.
type RowValidator struct{}

func NewRowValidator() *RowValidator {
	return &RowValidator{}
}

func (v *RowValidator) Validate(row models.ProductRow) (*models.ImportCandidate, []models.RowError) {
	var errs []models.RowError

	cand := &models.ImportCandidate{RowNum: row.RowNum}

	// Name (required)
	name := strings.TrimSpace(row.Name)
	if name == "" {
		errs = append(errs, models.RowError{Row: row.RowNum, Field: "name", Message: "product name is required"})
	}
	cand.Name = name

	// Price (required, positive)
	priceStr := strings.TrimSpace(row.Price)
	if priceStr == "" {
		errs = append(errs, models.RowError{Row: row.RowNum, Field: "price", Message: "price is required"})
	} else if price, err := strconv.ParseFloat(priceStr, 64); err != nil {
		errs = append(errs, models.RowError{Row: row.RowNum, Field: "price", Message: "invalid price format"})
	} else if price <= 0 {
		errs = append(errs, models.RowError{Row: row.RowNum, Field: "price", Message: "price must be positive"})
	} else {
		// Round to cents, the precision the catalog stores
		cand.Price = math.Round(price*100) / 100
	}

	// Stock quantity (optional, non-negative integer, default 0)
	stockStr := strings.TrimSpace(row.Stock)
	if stockStr != "" {
		if stock, err := strconv.ParseFloat(stockStr, 64); err != nil {
			errs = append(errs, models.RowError{Row: row.RowNum, Field: "stock_quantity", Message: "invalid stock quantity format"})
		} else if stock < 0 {
			errs = append(errs, models.RowError{Row: row.RowNum, Field: "stock_quantity", Message: "stock quantity cannot be negative"})
		} else {
			cand.StockQuantity = int(stock)
		}
	}

	// SKU (optional; empty after trim means absent)
	cand.SKU = strings.ToUpper(strings.TrimSpace(row.SKU))

	// Category is title-cased for consistent grouping
	if category := strings.TrimSpace(row.Category); category != "" {
		normalized := titleCaser.String(strings.ToLower(category))
		cand.Category = &normalized
	}

	cand.Description = optionalString(row.Description)
	cand.Brand = optionalString(row.Brand)
	cand.ImageURL = optionalString(row.ImageURL)
	cand.Tags = splitTags(row.Tags)

	if len(errs) > 0 {
		return nil, errs
	}
	return cand, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// splitTags splits a comma-separated tag cell, trimming each tag, dropping
// empties and collapsing in-row duplicates while keeping first-seen order.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
