package handlers

import (
	"strconv"

	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KPIHandler struct {
	kpiService *service.KPIService
	logger     *zap.Logger
}

func NewKPIHandler(kpiService *service.KPIService, logger *zap.Logger) *KPIHandler {
	return &KPIHandler{
		kpiService: kpiService,
		logger:     logger,
	}
}

// Report godoc
// @Summary Compute KPIs
// @Description Compute variance, savings rate and runway over a rolling or annual window, with an optional scenario multiplier
// @Tags kpi
// @Produce json
// @Param mode query string false "rolling or annual" default(rolling)
// @Param year query int false "Calendar year for annual mode"
// @Param scenario query string false "base, worst or best" default(base)
// @Success 200 {object} dto.KPIResponse
// @Security Bearer
// @Router /kpi [get]
func (h *KPIHandler) Report(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	cfg := service.ReportConfig{
		Mode:     service.ModeRolling,
		Scenario: service.ScenarioBase,
	}

	if mode := c.Query("mode"); mode == string(service.ModeAnnual) {
		cfg.Mode = service.ModeAnnual
		cfg.Year, _ = strconv.Atoi(c.Query("year"))
	}
	switch c.Query("scenario") {
	case string(service.ScenarioWorst):
		cfg.Scenario = service.ScenarioWorst
	case string(service.ScenarioBest):
		cfg.Scenario = service.ScenarioBest
	}

	resp, err := h.kpiService.Report(c.Context(), userID, cfg)
	if err != nil {
		h.logger.Error("KPI report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute KPIs",
		})
	}

	return c.JSON(resp)
}
