package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"catalog-web/internal/config"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// TypeProductImport is the task type for background catalog imports.
const TypeProductImport = "product:import"

// Progress and result keys expire after a day; clients are expected to poll
// soon after queueing.
const jobStateTTL = 24 * time.Hour

type ImportTaskHandler struct {
	redis         *redis.Client
	cfg           *config.Config
	importService *service.ImportService
}

func NewImportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ImportTaskHandler {
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	excelService := service.NewExcelService(cfg.ImportMaxRows)

	return &ImportTaskHandler{
		redis:         redis,
		cfg:           cfg,
		importService: service.NewImportService(excelService, productRepo, historyRepo, utils.GetLogger()),
	}
}

type ImportTaskPayload struct {
	JobID         string `json:"job_id"`
	FilePath      string `json:"file_path"`
	Filename      string `json:"filename"`
	ActorID       int    `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log := utils.GetLogger().WithField("job_id", payload.JobID)
	log.Infof("starting import of %s", payload.Filename)

	progressKey := "import:progress:" + payload.JobID
	resultKey := "import:result:" + payload.JobID

	h.redis.Set(ctx, progressKey, "processing", jobStateTTL)

	actor := service.Actor{ID: payload.ActorID, Username: payload.ActorUsername}
	result, err := h.importService.ImportFile(payload.FilePath, payload.Filename, actor)
	if err != nil {
		// Parse failures are terminal, retrying the same file cannot help
		h.redis.Set(ctx, progressKey, "failed: "+err.Error(), jobStateTTL)
		log.WithError(err).Error("import rejected before row processing")
		h.cleanup(payload.FilePath)
		return nil
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal import result: %w", err)
	}

	h.redis.Set(ctx, resultKey, encoded, jobStateTTL)
	h.redis.Set(ctx, progressKey, "finished", jobStateTTL)
	h.cleanup(payload.FilePath)

	log.WithField("outcome", result.Outcome).Info("import finished")
	return nil
}

func (h *ImportTaskHandler) cleanup(filePath string) {
	if err := os.Remove(filePath); err != nil {
		utils.GetLogger().WithError(err).Warnf("failed to remove upload %s", filePath)
	}
}
