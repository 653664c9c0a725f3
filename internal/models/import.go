package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Fixed column layout for product spreadsheets (header in row 1, data from
// row 2): A=name, B=description, C=price, D=category, E=brand, F=sku,
// G=stock quantity, H=image URL, I=tags (comma-separated).
const ProductColumnCount = 9

// ProductRow is one raw data row from an uploaded spreadsheet, before any
// validation. All cells are kept as the strings the file contained.
type ProductRow struct {
	RowNum      int
	Name        string
	Description string
	Price       string
	Category    string
	Brand       string
	SKU         string
	Stock       string
	ImageURL    string
	Tags        string
}

// IsBlank reports whether every cell in the row is empty.
func (r ProductRow) IsBlank() bool {
	return r.Name == "" && r.Description == "" && r.Price == "" &&
		r.Category == "" && r.Brand == "" && r.SKU == "" &&
		r.Stock == "" && r.ImageURL == "" && r.Tags == ""
}

type RowAction string

const (
	ActionInsert RowAction = "insert"
	ActionUpdate RowAction = "update"
	ActionSkip   RowAction = "skip"
)

// ImportCandidate is a validated row pending reconciliation. It lives only
// for the duration of one import call.
type ImportCandidate struct {
	RowNum        int
	Name          string
	Description   *string
	Price         float64
	Category      *string
	Brand         *string
	SKU           string // empty means no business key
	StockQuantity int
	ImageURL      *string
	Tags          []string

	Action   RowAction
	TargetID string // product id when Action == ActionUpdate
}

// RowError is a single per-row validation or reconciliation failure.
// Field is "row" for structural errors and "storage" for the synthetic
// error describing a batch-level storage fault.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ImportOutcome string

const (
	OutcomeSuccess ImportOutcome = "success"
	OutcomePartial ImportOutcome = "partial"
	OutcomeFailed  ImportOutcome = "failed"
)

// ImportResult is returned to the caller after one import attempt.
// Inserted+Updated+Skipped+Failed always equals TotalRows.
type ImportResult struct {
	Filename  string        `json:"filename"`
	TotalRows int           `json:"total_rows"`
	Inserted  int           `json:"inserted"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Errors    []RowError    `json:"errors"`
	Outcome   ImportOutcome `json:"outcome"`
}

// RowErrorList persists the ordered error sequence as a JSON column.
type RowErrorList []RowError

func (l RowErrorList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *RowErrorList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for row errors: %T", src)
	}
}

// ImportRecord is the immutable audit entry for one import attempt.
type ImportRecord struct {
	ID            string        `db:"id" json:"id"`
	ActorID       int           `db:"actor_id" json:"actor_id"`
	ActorUsername string        `db:"actor_username" json:"actor_username"`
	Filename      string        `db:"filename" json:"filename"`
	TotalRows     int           `db:"total_rows" json:"total_rows"`
	InsertedRows  int           `db:"inserted_rows" json:"inserted_rows"`
	UpdatedRows   int           `db:"updated_rows" json:"updated_rows"`
	SkippedRows   int           `db:"skipped_rows" json:"skipped_rows"`
	FailedRows    int           `db:"failed_rows" json:"failed_rows"`
	Outcome       ImportOutcome `db:"outcome" json:"outcome"`
	Errors        RowErrorList  `db:"errors" json:"errors"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// HistoryFilter selects import records for listing. Records are always
// returned newest-first.
type HistoryFilter struct {
	Since   *time.Time
	Outcome ImportOutcome
	Limit   int
	Offset  int
}
