package handlers

import (
	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	logger         *zap.Logger
}

func NewProfileHandler(profileService *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// Get godoc
// @Summary Get the financial profile
// @Tags profile
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} map[string]string
// @Security Bearer
// @Router /profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	resp, err := h.profileService.Get(c.Context(), userID)
	if err != nil {
		if err == service.ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		h.logger.Error("Profile fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(resp)
}

// Update godoc
// @Summary Update the financial profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.ProfileResponse
// @Security Bearer
// @Router /profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.profileService.Update(c.Context(), userID, &req)
	if err != nil {
		if err == service.ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		h.logger.Error("Profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update profile",
		})
	}

	return c.JSON(resp)
}

// GoalSeek godoc
// @Summary Back-compute the budget from a target runway
// @Description Pin a target runway (optionally with edited cash) and derive the annual budget ceiling that preserves it
// @Tags profile
// @Accept json
// @Produce json
// @Param request body dto.GoalSeekRequest true "Target runway"
// @Success 200 {object} dto.GoalSeekResponse
// @Failure 400 {object} map[string]string
// @Security Bearer
// @Router /profile/goal-seek [post]
func (h *ProfileHandler) GoalSeek(c *fiber.Ctx) error {
	userID, err := userIDFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.GoalSeekRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.TargetRunway <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "targetRunway must be positive",
		})
	}

	resp, err := h.profileService.GoalSeek(c.Context(), userID, &req)
	if err != nil {
		if err == service.ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		h.logger.Error("Goal seek failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute budget",
		})
	}

	return c.JSON(resp)
}
