package handlers

import (
	"strings"

	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdvisorHandler struct {
	advisorService *service.AdvisorService
	logger         *zap.Logger
}

func NewAdvisorHandler(advisorService *service.AdvisorService, logger *zap.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
		logger:         logger,
	}
}

// Ask godoc
// @Summary Ask the financial advisor
// @Description Answer a free-text question grounded in the user's KPIs, recent transactions and semantic memory
// @Tags advisor
// @Accept json
// @Produce json
// @Param request body dto.AdvisorRequest true "Question"
// @Success 200 {object} dto.AdvisorResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /advisor [post]
func (h *AdvisorHandler) Ask(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.AdvisorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	resp, err := h.advisorService.Ask(c.Context(), userID, &req)
	if err != nil {
		h.logger.Error("Advisor request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate a reply",
		})
	}

	return c.JSON(resp)
}
