package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-web/internal/models"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrBadFormat means the file is not a readable spreadsheet container.
	ErrBadFormat = errors.New("unrecognized spreadsheet format")

	// ErrTooManyRows means the file exceeds the configured row cap.
	ErrTooManyRows = errors.New("row count exceeds the configured limit")
)

// Export column headers, matching the import layout A-I.
var productColumnHeaders = []string{
	"Product Name", "Description", "Price", "Category", "Brand",
	"SKU", "Stock Quantity", "Image URL", "Tags",
}

type ExcelService struct {
	maxRows int
}

func NewExcelService(maxRows int) *ExcelService {
	return &ExcelService{maxRows: maxRows}
}

// ParseProductRows reads an uploaded spreadsheet and returns its data rows in
// source order. Row 1 is always treated as the header and skipped, so data
// rows are numbered from 2 to match the original file. Rows are streamed so
// that a file over the row cap fails fast instead of being fully loaded and
// rejected after.
func (s *ExcelService) ParseProductRows(filePath string) ([]models.ProductRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrBadFormat)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	defer rows.Close()

	var out []models.ProductRow
	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum == 1 {
			// Header row: never part of the data, but data numbering
			// still starts at 2.
			continue
		}
		if rowNum-1 > s.maxRows {
			return nil, fmt.Errorf("%w: more than %d data rows", ErrTooManyRows, s.maxRows)
		}

		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}
		out = append(out, newProductRow(rowNum, cells))
	}

	// Drop trailing blank rows; interior blanks stay and count as read.
	for len(out) > 0 && out[len(out)-1].IsBlank() {
		out = out[:len(out)-1]
	}

	return out, nil
}

func newProductRow(rowNum int, cells []string) models.ProductRow {
	return models.ProductRow{
		RowNum:      rowNum,
		Name:        cellValue(cells, 0),
		Description: cellValue(cells, 1),
		Price:       cellValue(cells, 2),
		Category:    cellValue(cells, 3),
		Brand:       cellValue(cells, 4),
		SKU:         cellValue(cells, 5),
		Stock:       cellValue(cells, 6),
		ImageURL:    cellValue(cells, 7),
		Tags:        cellValue(cells, 8),
	}
}

func cellValue(cells []string, index int) string {
	if index < len(cells) {
		return strings.TrimSpace(cells[index])
	}
	return ""
}

// ExportProducts writes the catalog to an Excel file using the same column
// layout the importer consumes, so an export can be edited and re-uploaded.
func (s *ExcelService) ExportProducts(products []models.Product, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range productColumnHeaders {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(productColumnHeaders)-1)), headerStyle)

	for rowIdx, p := range products {
		row := rowIdx + 2

		values := []interface{}{
			p.Name,
			derefString(p.Description),
			p.Price,
			derefString(p.Category),
			derefString(p.Brand),
			derefString(p.SKU),
			p.StockQuantity,
			derefString(p.ImageURL),
			strings.Join(p.Tags, ", "),
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", columnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	columnWidths := []float64{30, 40, 12, 18, 18, 18, 15, 30, 25}
	for i, width := range columnWidths {
		col := columnName(i)
		f.SetColWidth(sheetName, col, col, width)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateProductTemplate creates a template Excel file for product upload
func (s *ExcelService) GenerateProductTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	for i, header := range productColumnHeaders {
		cell := fmt.Sprintf("%s1", columnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", columnName(len(productColumnHeaders)-1)), headerStyle)

	sampleData := [][]interface{}{
		{"Oak Desk", "Solid oak office desk", 249.50, "Furniture", "Acme", "SKU-1", 5, "", "wood,office"},
		{"Velvet Armchair", "Mid-century armchair", 399.00, "Furniture", "Nordik", "SKU-2", 12, "https://example.com/armchair.jpg", "living room,velvet"},
		{"Walnut Bookshelf", "", 189.99, "Storage", "Acme", "SKU-3", 0, "", "wood"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", columnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	columnWidths := []float64{30, 40, 12, 18, 18, 18, 15, 30, 25}
	for i, width := range columnWidths {
		col := columnName(i)
		f.SetColWidth(sheetName, col, col, width)
	}

	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. Product Name: required",
		"2. Description: optional",
		"3. Price: required, must be a positive number",
		"4. Category: optional",
		"5. Brand: optional",
		"6. SKU: optional; rows with a SKU matching an existing product update it in place",
		"7. Stock Quantity: optional non-negative integer, defaults to 0",
		"8. Image URL: optional",
		"9. Tags: optional, comma-separated",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// ExportFilename builds a timestamped name for catalog export downloads.
func ExportFilename(includeInactive bool) string {
	scope := "active"
	if includeInactive {
		scope = "all"
	}
	return fmt.Sprintf("products_%s_%s.xlsx", scope, time.Now().Format("20060102_150405"))
}

func columnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
