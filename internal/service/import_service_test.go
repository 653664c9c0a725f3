package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"catalog-web/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory CatalogStore with the same atomicity contract
// as the real one: a forced failure applies nothing.
type fakeCatalog struct {
	products map[string]*models.ImportCandidate // id -> last applied state
	skus     map[string]string                  // sku -> id

	failFindSKUs bool
	failApply    bool
	applyCalls   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[string]*models.ImportCandidate),
		skus:     make(map[string]string),
	}
}

func (f *fakeCatalog) FindSKUs() (map[string]string, error) {
	if f.failFindSKUs {
		return nil, errors.New("connection refused")
	}
	snapshot := make(map[string]string, len(f.skus))
	for sku, id := range f.skus {
		snapshot[sku] = id
	}
	return snapshot, nil
}

func (f *fakeCatalog) ApplyBatch(inserts, updates []*models.ImportCandidate) ([]string, error) {
	f.applyCalls++
	if f.failApply {
		return nil, errors.New("deadlock detected")
	}

	ids := make([]string, 0, len(inserts))
	for _, cand := range inserts {
		id := uuid.New().String()
		f.products[id] = cand
		if cand.SKU != "" {
			f.skus[cand.SKU] = id
		}
		ids = append(ids, id)
	}
	for _, cand := range updates {
		f.products[cand.TargetID] = cand
	}
	return ids, nil
}

type fakeHistory struct {
	records    []*models.ImportRecord
	failAppend bool
}

func (f *fakeHistory) Append(record *models.ImportRecord) (string, error) {
	if f.failAppend {
		return "", errors.New("history table unavailable")
	}
	f.records = append(f.records, record)
	return "record-id", nil
}

func (f *fakeHistory) List(filter models.HistoryFilter) ([]models.ImportRecord, int, error) {
	out := make([]models.ImportRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestImportService(catalog *fakeCatalog, history *fakeHistory) *ImportService {
	return NewImportService(NewExcelService(100), catalog, history, quietLogger())
}

func row(rowNum int, name, price, sku string) models.ProductRow {
	return models.ProductRow{RowNum: rowNum, Name: name, Price: price, SKU: sku}
}

func TestImportRowsSuccess(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.skus["DESK-001"] = "id-desk"
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "desk-001"), // update of id-desk
		row(3, "Lamp", "19.99", "LAMP-001"),      // insert
		row(4, "Vase", "35.00", ""),              // insert, no sku
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)

	// The matched row updated the existing product in place
	assert.Equal(t, "Oak Desk", catalog.products["id-desk"].Name)
	assert.Len(t, catalog.products, 3)
}

func TestImportRowsPartial(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
		row(3, "", "19.99", ""),         // missing name
		row(4, "Stool", "free", ""),     // bad price
		row(5, "Vase", "35.00", ""),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomePartial, result.Outcome)
	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)

	// Errors come back ordered by source row
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 4, result.Errors[1].Row)
}

func TestImportRowsAllRowsInvalid(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "", "", ""),
		row(3, "Lamp", "-1", ""),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeFailed, result.Outcome)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, catalog.applyCalls)
	assert.Empty(t, catalog.products)
}

func TestImportRowsBlankRowsSkippedWithoutErrors(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", ""),
		{RowNum: 3}, // interior blank row
		row(4, "Lamp", "19.99", ""),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
}

func TestImportRowsCountsAlwaysAddUp(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
		{RowNum: 3},
		row(4, "", "x", ""),
		row(5, "Lamp", "19.99", "DESK-001"), // duplicate sku
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	sum := result.Inserted + result.Updated + result.Skipped + result.Failed
	assert.Equal(t, result.TotalRows, sum)
	assert.Equal(t, models.OutcomePartial, result.Outcome)
}

func TestImportRowsDuplicateSKURejectedDeterministically(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
		row(3, "Oak Desk Copy", "199.00", "DESK-001"),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "duplicate SKU within upload", result.Errors[0].Message)

	// The first occurrence was the one applied
	applied := catalog.products[catalog.skus["DESK-001"]]
	assert.Equal(t, "Oak Desk", applied.Name)
}

func TestImportRowsStorageFaultRollsBackEverything(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failApply = true
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
		{RowNum: 3},
		row(4, "Lamp", "19.99", ""),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeFailed, result.Outcome)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)

	// Nothing reached the catalog
	assert.Empty(t, catalog.products)

	// A single synthetic error describes the fault
	require.NotEmpty(t, result.Errors)
	last := result.Errors[len(result.Errors)-1]
	assert.Equal(t, 0, last.Row)
	assert.Equal(t, "storage", last.Field)

	// The failed attempt is still audited
	require.Len(t, history.records, 1)
	assert.Equal(t, models.OutcomeFailed, history.records[0].Outcome)
}

func TestImportRowsSnapshotFaultFailsBatch(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.failFindSKUs = true
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeFailed, result.Outcome)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, catalog.applyCalls)
}

func TestImportRowsRerunIsIdempotent(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	rows := []models.ProductRow{
		row(2, "Oak Desk", "249.50", "DESK-001"),
		row(3, "Lamp", "19.99", "LAMP-001"),
	}
	actor := Actor{ID: 1, Username: "admin"}

	first := svc.ImportRows(rows, "products.xlsx", actor)
	assert.Equal(t, 2, first.Inserted)
	assert.Equal(t, 0, first.Updated)

	second := svc.ImportRows(rows, "products.xlsx", actor)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Updated)

	// Re-running never multiplies products
	assert.Len(t, catalog.products, 2)
}

func TestImportRowsHistoryRecordsAttempt(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}

	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestImportService(catalog, history).WithClock(func() time.Time { return fixed })

	svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", ""),
		row(3, "", "x", ""),
	}, "march.xlsx", Actor{ID: 7, Username: "ops"})

	require.Len(t, history.records, 1)
	record := history.records[0]
	assert.Equal(t, "march.xlsx", record.Filename)
	assert.Equal(t, 7, record.ActorID)
	assert.Equal(t, "ops", record.ActorUsername)
	assert.Equal(t, 2, record.TotalRows)
	assert.Equal(t, 1, record.InsertedRows)
	assert.Equal(t, 1, record.FailedRows)
	assert.Equal(t, models.OutcomePartial, record.Outcome)
	assert.Equal(t, fixed, record.CreatedAt)
	require.Len(t, record.Errors, 1)
}

func TestImportRowsHistoryFailureDoesNotAffectResult(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{failAppend: true}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows([]models.ProductRow{
		row(2, "Oak Desk", "249.50", ""),
	}, "products.xlsx", Actor{ID: 1, Username: "admin"})

	// The import itself stays successful
	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, result.Inserted)
	assert.Len(t, catalog.products, 1)
}

func TestImportRowsEmptyUpload(t *testing.T) {
	catalog := newFakeCatalog()
	history := &fakeHistory{}
	svc := newTestImportService(catalog, history)

	result := svc.ImportRows(nil, "empty.xlsx", Actor{ID: 1, Username: "admin"})

	assert.Equal(t, models.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0, result.TotalRows)
	assert.Equal(t, 0, catalog.applyCalls)
}
