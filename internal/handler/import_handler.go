package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"catalog-web/internal/config"
	"catalog-web/internal/models"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// ImportHandler serves spreadsheet import, export and import history.
type ImportHandler struct {
	importService  *service.ImportService
	excelService   *service.ExcelService
	productService *service.ProductService
	historyRepo    *repository.HistoryRepository
	asynqClient    *asynq.Client
	redisClient    *redis.Client
	cfg            *config.Config
}

func NewImportHandler(
	importService *service.ImportService,
	excelService *service.ExcelService,
	productService *service.ProductService,
	historyRepo *repository.HistoryRepository,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importService:  importService,
		excelService:   excelService,
		productService: productService,
		historyRepo:    historyRepo,
		asynqClient:    asynqClient,
		redisClient:    redisClient,
		cfg:            cfg,
	}
}

// Import runs a synchronous bulk import and returns the per-row report.
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	filePath, filename, err := h.saveUpload(c)
	if err != nil {
		return renderUploadError(c, err)
	}

	actor := actorFromContext(c)

	result, err := h.importService.ImportFile(filePath, filename, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadFormat):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Uploaded file is not a valid Excel spreadsheet", err)
		case errors.Is(err, service.ErrTooManyRows):
			return utils.ErrorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("Spreadsheet exceeds the limit of %d data rows", h.cfg.ImportMaxRows), nil)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process import", err)
		}
	}

	return utils.SuccessResponse(c, "Import completed", result)
}

// ImportAsync queues the import for background processing and returns a job
// id that can be polled for progress.
func (h *ImportHandler) ImportAsync(c *fiber.Ctx) error {
	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	filePath, filename, err := h.saveUpload(c)
	if err != nil {
		return renderUploadError(c, err)
	}

	actor := actorFromContext(c)
	jobID := uuid.New().String()

	payload, _ := json.Marshal(fiber.Map{
		"job_id":         jobID,
		"file_path":      filePath,
		"filename":       filename,
		"actor_id":       actor.ID,
		"actor_username": actor.Username,
	})

	task := asynq.NewTask("product:import", payload)
	info, err := h.asynqClient.Enqueue(task, asynq.TaskID(jobID))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import task", err)
	}

	return utils.SuccessResponse(c, "Import queued", fiber.Map{
		"job_id": info.ID,
		"queue":  info.Queue,
	})
}

// ImportStatus reports progress for a queued import job.
func (h *ImportHandler) ImportStatus(c *fiber.Ctx) error {
	if h.redisClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Job status is not available (Redis not connected)", nil)
	}

	jobID := c.Params("id")
	ctx := c.Context()

	if raw, err := h.redisClient.Get(ctx, "import:result:"+jobID).Result(); err == nil {
		var result models.ImportResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to decode job result", err)
		}
		return utils.SuccessResponse(c, "Import finished", fiber.Map{
			"job_id": jobID,
			"status": "finished",
			"result": result,
		})
	}

	status, err := h.redisClient.Get(ctx, "import:progress:"+jobID).Result()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Job not found", nil)
	}

	return utils.SuccessResponse(c, "Import in progress", fiber.Map{
		"job_id": jobID,
		"status": status,
	})
}

// Export streams the catalog as an Excel download in the import layout.
func (h *ImportHandler) Export(c *fiber.Ctx) error {
	includeInactive := c.Query("include_inactive") == "true"

	filter := models.ProductFilter{
		IncludeInactive: includeInactive,
		SortBy:          "created_at",
		SortOrder:       "asc",
	}

	products, _, err := h.productService.List(filter, 1000000, 0)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", err)
	}

	exportFileName := service.ExportFilename(includeInactive)
	exportPath := filepath.Join(h.cfg.ExportPath, exportFileName)

	if err := h.excelService.ExportProducts(products, exportPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export products", err)
	}

	return c.Download(exportPath, exportFileName)
}

// Template serves an example spreadsheet with the expected columns.
func (h *ImportHandler) Template(c *fiber.Ctx) error {
	templatePath := filepath.Join(h.cfg.ExportPath, "product_import_template.xlsx")

	if err := h.excelService.GenerateProductTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, "product_import_template.xlsx")
}

// History lists past import attempts, newest first.
func (h *ImportHandler) History(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	filter := models.HistoryFilter{
		Outcome: models.ImportOutcome(c.Query("outcome")),
		Limit:   params.Limit,
		Offset:  offset,
	}
	if v := c.Query("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid since parameter, expected RFC3339 timestamp", err)
		}
		filter.Since = &since
	}

	records, total, err := h.historyRepo.List(filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import history", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	return utils.PaginatedResponseBuilder(c, "Import history retrieved successfully", fiber.Map{
		"imports":    records,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) HistoryDetail(c *fiber.Ctx) error {
	record, err := h.historyRepo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import record not found", nil)
	}
	return utils.SuccessResponse(c, "Import record retrieved successfully", record)
}

// saveUpload validates the multipart upload and writes it under the upload
// directory. Failures come back as fiber errors carrying the status to
// render.
func (h *ImportHandler) saveUpload(c *fiber.Ctx) (string, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "File is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.cfg.IsAllowedExtension(ext) {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed")
	}

	if file.Size > int64(h.cfg.UploadMaxSize) {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "File size exceeds maximum limit")
	}

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("IMPORT-%s%s", uuid.New().String()[:8], ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to save file")
	}

	return filePath, file.Filename, nil
}

func renderUploadError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.ErrorResponse(c, fe.Code, fe.Message, nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:       c.Locals("user_id").(int),
		Username: c.Locals("username").(string),
	}
}
