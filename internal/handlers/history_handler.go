package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/services"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type HistoryHandler struct {
	predictor    services.PredictorService
	defaultLimit int
}

func NewHistoryHandler(predictor services.PredictorService, defaultLimit int) *HistoryHandler {
	if defaultLimit <= 0 || defaultLimit > maxHistoryLimit {
		defaultLimit = defaultHistoryLimit
	}
	return &HistoryHandler{
		predictor:    predictor,
		defaultLimit: defaultLimit,
	}
}

// HandleGetPrediction handles GET /api/v1/predictions/:id
func (h *HistoryHandler) HandleGetPrediction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:  "Invalid prediction ID format",
			Code:   fiber.StatusBadRequest,
			Reason: "invalid_input",
		})
	}

	prediction, err := h.predictor.GetPrediction(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(prediction)
}

// HandleListPredictions handles GET /api/v1/predictions?limit=N
func (h *HistoryHandler) HandleListPredictions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.defaultLimit)
	if limit <= 0 || limit > maxHistoryLimit {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:  "limit must be between 1 and 200",
			Code:   fiber.StatusBadRequest,
			Reason: "invalid_input",
		})
	}

	predictions, err := h.predictor.ListPredictions(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.HistoryResponse{
		Predictions: predictions,
		Count:       len(predictions),
	})
}
