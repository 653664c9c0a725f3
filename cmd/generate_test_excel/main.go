package main

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

func main() {
	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		fmt.Printf("Error creating sheet: %v\n", err)
		return
	}

	// Set headers
	headers := []string{
		"Product Name", "Description", "Price", "Category", "Brand",
		"SKU", "Stock Quantity", "Image URL", "Tags",
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Mix of valid rows, rows with problems and a duplicate SKU so import
	// handling can be exercised end to end
	testData := [][]interface{}{
		// Valid products
		{"Oak Desk", "Solid oak office desk", 249.50, "furniture", "Acme", "desk-001", 5, "", "wood,office"},
		{"Velvet Armchair", "Mid-century armchair", 399.00, "Furniture", "Nordik", "CHAIR-002", 12, "https://example.com/armchair.jpg", "living room,velvet"},
		{"Walnut Bookshelf", "Five shelf walnut bookcase", 189.99, "storage", "Acme", "SHELF-003", 0, "", "wood, wood, shelf"},

		// No SKU: always inserted as a fresh product
		{"Ceramic Vase", "Hand thrown vase", 35.00, "decor", "", "", 40, "", "ceramic"},

		// Invalid rows: missing name, bad price, negative stock
		{"", "Nameless product", 10.00, "misc", "", "BAD-001", 1, "", ""},
		{"Free Lamp", "Price of zero is rejected", 0, "lighting", "", "BAD-002", 3, "", ""},
		{"Broken Stool", "Negative stock is rejected", 25.00, "furniture", "", "BAD-003", -4, "", ""},

		// Duplicate SKU: the first DESK-001 row above wins
		{"Oak Desk Copy", "Same sku as the first row", 199.00, "furniture", "Acme", "DESK-001", 2, "", ""},
	}

	for rowIdx, rowData := range testData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	outputPath := "test_products.xlsx"
	if err := f.SaveAs(outputPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}

	fmt.Printf("Test file created: %s (%d data rows)\n", outputPath, len(testData))
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
