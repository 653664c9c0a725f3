package service

import (
	"sort"
	"time"

	"catalog-web/internal/models"

	"github.com/sirupsen/logrus"
)

// CatalogStore is the persistence surface the import pipeline needs from the
// product catalog. ApplyBatch must be atomic: either every insert and update
// becomes durably visible, or none do. SKU uniqueness is enforced by the
// store itself, so two concurrent imports racing on the same SKU resolve
// there, not in memory.
type CatalogStore interface {
	// FindSKUs returns a snapshot of sku -> product id covering active and
	// inactive items.
	FindSKUs() (map[string]string, error)

	// ApplyBatch applies all inserts and updates in one transaction and
	// returns the ids of inserted products.
	ApplyBatch(inserts, updates []*models.ImportCandidate) ([]string, error)
}

// HistoryStore is the append-only audit log of import attempts.
type HistoryStore interface {
	Append(record *models.ImportRecord) (string, error)
	List(filter models.HistoryFilter) ([]models.ImportRecord, int, error)
}

// Actor identifies who requested an import. It is supplied by the caller and
// recorded verbatim.
type Actor struct {
	ID       int
	Username string
}

// ImportService coordinates one bulk import: parse, validate, reconcile,
// apply, audit.
type ImportService struct {
	excel      *ExcelService
	validator  *RowValidator
	reconciler *Reconciler
	catalog    CatalogStore
	history    HistoryStore
	log        *logrus.Logger

	// now is swappable for tests; history records carry its timestamps.
	now func() time.Time
}

func NewImportService(
	excel *ExcelService,
	catalog CatalogStore,
	history HistoryStore,
	log *logrus.Logger,
) *ImportService {
	return &ImportService{
		excel:      excel,
		validator:  NewRowValidator(),
		reconciler: NewReconciler(),
		catalog:    catalog,
		history:    history,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the time source used for history records.
func (s *ImportService) WithClock(now func() time.Time) *ImportService {
	s.now = now
	return s
}

// ImportFile runs the full pipeline over a saved upload. Format and row-cap
// failures reject the whole upload before any row processing and leave no
// history record, since nothing happened to the catalog yet.
func (s *ImportService) ImportFile(filePath, filename string, actor Actor) (*models.ImportResult, error) {
	rows, err := s.excel.ParseProductRows(filePath)
	if err != nil {
		return nil, err
	}
	return s.ImportRows(rows, filename, actor), nil
}

// ImportRows processes already-parsed rows. Row-level failures are data, not
// control flow: they are collected into the result and never abort the batch.
// Only a storage fault fails the batch as a whole, rolling back every
// mutation.
func (s *ImportService) ImportRows(rows []models.ProductRow, filename string, actor Actor) *models.ImportResult {
	result := &models.ImportResult{
		Filename:  filename,
		TotalRows: len(rows),
		Errors:    []models.RowError{},
	}

	var candidates []*models.ImportCandidate
	for _, row := range rows {
		if row.IsBlank() {
			// Blank rows are counted but carry no error.
			result.Skipped++
			continue
		}

		cand, errs := s.validator.Validate(row)
		if len(errs) > 0 {
			result.Failed++
			result.Errors = append(result.Errors, errs...)
			continue
		}
		candidates = append(candidates, cand)
	}

	existing, err := s.catalog.FindSKUs()
	if err != nil {
		return s.failBatch(result, actor, err)
	}

	reconciled := s.reconciler.Resolve(candidates, existing)
	for _, rejected := range reconciled.Rejected {
		result.Failed++
		result.Errors = append(result.Errors, rejected.Errors...)
	}

	if len(reconciled.Inserts)+len(reconciled.Updates) > 0 {
		if _, err := s.catalog.ApplyBatch(reconciled.Inserts, reconciled.Updates); err != nil {
			return s.failBatch(result, actor, err)
		}
	}

	result.Inserted = len(reconciled.Inserts)
	result.Updated = len(reconciled.Updates)
	sortErrors(result.Errors)

	switch {
	case result.Failed == 0:
		result.Outcome = models.OutcomeSuccess
	case result.Inserted+result.Updated > 0:
		result.Outcome = models.OutcomePartial
	default:
		result.Outcome = models.OutcomeFailed
	}

	s.log.WithFields(logrus.Fields{
		"filename": filename,
		"total":    result.TotalRows,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
		"outcome":  result.Outcome,
	}).Info("import completed")

	s.appendHistory(result, actor)
	return result
}

// failBatch handles a storage fault: the store has already rolled back, so
// no row succeeded. All non-blank rows are reported failed and a single
// synthetic error describes the fault. The attempt is still audited.
func (s *ImportService) failBatch(result *models.ImportResult, actor Actor, err error) *models.ImportResult {
	s.log.WithError(err).WithField("filename", result.Filename).Error("import batch failed, catalog rolled back")

	result.Inserted = 0
	result.Updated = 0
	result.Failed = result.TotalRows - result.Skipped
	sortErrors(result.Errors)
	result.Errors = append(result.Errors, models.RowError{
		Row:     0,
		Field:   "storage",
		Message: "storage failure, no rows were applied: " + err.Error(),
	})
	result.Outcome = models.OutcomeFailed

	s.appendHistory(result, actor)
	return result
}

// appendHistory audits the attempt. History is best-effort durable logging:
// a failed append is logged but never undoes catalog state.
func (s *ImportService) appendHistory(result *models.ImportResult, actor Actor) {
	record := &models.ImportRecord{
		ActorID:       actor.ID,
		ActorUsername: actor.Username,
		Filename:      result.Filename,
		TotalRows:     result.TotalRows,
		InsertedRows:  result.Inserted,
		UpdatedRows:   result.Updated,
		SkippedRows:   result.Skipped,
		FailedRows:    result.Failed,
		Outcome:       result.Outcome,
		Errors:        models.RowErrorList(result.Errors),
		CreatedAt:     s.now(),
	}

	if _, err := s.history.Append(record); err != nil {
		s.log.WithError(err).Warn("failed to append import history record")
	}
}

func sortErrors(errs []models.RowError) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Row < errs[j].Row
	})
}
