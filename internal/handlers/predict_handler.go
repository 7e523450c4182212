package handlers

import (
	"github.com/gofiber/fiber/v2"

	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/services"
)

type PredictHandler struct {
	predictor services.PredictorService
}

func NewPredictHandler(predictor services.PredictorService) *PredictHandler {
	return &PredictHandler{predictor: predictor}
}

// HandlePredict handles POST /api/v1/predict
func (h *PredictHandler) HandlePredict(c *fiber.Ctx) error {
	var req models.Applicant

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:  "Invalid request payload",
			Code:   fiber.StatusBadRequest,
			Reason: "invalid_input",
		})
	}

	if err := req.Validate(); err != nil {
		return writeError(c, err)
	}

	outcome, err := h.predictor.Predict(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(outcome.Response())
}

// HandleModelInfo handles GET /api/v1/model
func (h *PredictHandler) HandleModelInfo(c *fiber.Ctx) error {
	return c.JSON(h.predictor.AssetInfo())
}
