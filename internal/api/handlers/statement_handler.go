package handlers

import (
	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatementHandler struct {
	statementService *service.StatementService
	logger           *zap.Logger
}

func NewStatementHandler(statementService *service.StatementService, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

// Parse godoc
// @Summary Parse and import a bank statement
// @Description Upload a CSV, TXT, PNG or JPG statement; rows are parsed by the LLM and imported under a new batch. PDF is not supported.
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement file"
// @Success 200 {object} dto.ParseStatementResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /parse-statement [post]
func (h *StatementHandler) Parse(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing statement file",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	defer file.Close()

	resp, err := h.statementService.Import(c.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		if err == service.ErrUnsupportedFormat {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unsupported file format. Upload a CSV, TXT, PNG or JPG statement; PDF is not supported.",
			})
		}
		h.logger.Error("Statement import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import statement",
		})
	}

	return c.JSON(resp)
}

// Preview godoc
// @Summary Preview duplicate flags for parsed rows
// @Description Flag parsed statement rows that look like duplicates of stored transactions. Preview only; the create path enforces the authoritative dedup.
// @Tags statements
// @Accept json
// @Produce json
// @Param request body dto.PreviewStatementRequest true "Parsed rows"
// @Success 200 {object} dto.PreviewStatementResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /parse-statement/preview [post]
func (h *StatementHandler) Preview(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.PreviewStatementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	flags, err := h.statementService.PreviewDuplicates(c.Context(), userID, req.Transactions)
	if err != nil {
		h.logger.Error("Statement preview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to preview statement",
		})
	}

	return c.JSON(dto.PreviewStatementResponse{Duplicates: flags})
}

// DeleteBatch godoc
// @Summary Delete an import batch
// @Description Delete a batch and all transactions imported from it
// @Tags statements
// @Param id path string true "Batch ID"
// @Success 204
// @Security Bearer
// @Router /import-batches/{id} [delete]
func (h *StatementHandler) DeleteBatch(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch id",
		})
	}

	if err := h.statementService.DeleteBatch(c.Context(), userID, id); err != nil {
		h.logger.Error("Batch delete failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete batch",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
