package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"creditrisk/predictor/internal/models"
	"creditrisk/predictor/internal/repositories"
	"creditrisk/predictor/internal/services"
	"creditrisk/predictor/internal/validation"
)

// ErrorHandler renders any error that reaches Fiber as the common JSON error
// body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

// statusFor maps a prediction or history error to an HTTP status and a reason.
func statusFor(err error) (int, string) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "invalid_input"
	case errors.Is(err, services.ErrHistoryDisabled):
		return fiber.StatusNotFound, "history_disabled"
	case errors.Is(err, repositories.ErrPredictionNotFound):
		return fiber.StatusNotFound, "not_found"
	}

	reason := services.FailureReason(err)
	if reason == services.ReasonUnknownCategory {
		return fiber.StatusUnprocessableEntity, reason
	}
	return fiber.StatusInternalServerError, reason
}

func writeError(c *fiber.Ctx, err error) error {
	code, reason := statusFor(err)

	resp := models.ErrorResponse{
		Error:  err.Error(),
		Code:   code,
		Reason: reason,
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Details = verr.Errors
	}

	return c.Status(code).JSON(resp)
}
