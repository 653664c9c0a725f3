package repository

import (
	"strings"

	"catalog-web/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// HistoryRepository persists the append-only log of import attempts.
type HistoryRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(record *models.ImportRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `INSERT INTO import_history
	          (id, actor_id, actor_username, filename, total_rows, inserted_rows, updated_rows, skipped_rows, failed_rows, outcome, errors, created_at)
	          VALUES (:id, :actor_id, :actor_username, :filename, :total_rows, :inserted_rows, :updated_rows, :skipped_rows, :failed_rows, :outcome, :errors, :created_at)`
	if _, err := r.db.NamedExec(query, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *HistoryRepository) List(filter models.HistoryFilter) ([]models.ImportRecord, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM import_history "+whereClause, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var records []models.ImportRecord
	query := "SELECT * FROM import_history " + whereClause + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)
	if err := r.db.Select(&records, query, args...); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *HistoryRepository) FindByID(id string) (*models.ImportRecord, error) {
	var record models.ImportRecord
	if err := r.db.Get(&record, "SELECT * FROM import_history WHERE id = ? LIMIT 1", id); err != nil {
		return nil, err
	}
	return &record, nil
}
