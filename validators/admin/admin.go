package adminValidator

import (
	"cryptovest/middleware"
	"cryptovest/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateTransactionStatus validates a deposit resolution request
func UpdateTransactionStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TransactionID uint   `json:"transactionId"`
			Status        string `json:"status"`
			AdminNote     string `json:"adminNote"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TransactionID == 0 {
			errors["transactionId"] = "Transaction ID is required!"
		}
		if reqData.Status != models.TransactionStatusSuccess && reqData.Status != models.TransactionStatusFailed {
			errors["status"] = "Invalid status. Must be 'success' or 'failed'"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransactionStatus", reqData)
		return c.Next()
	}
}

// ResolveTierUpgrade validates a tier upgrade resolution request
func ResolveTierUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID    uint   `json:"userId"`
			Approved  *bool  `json:"approved"`
			AdminNote string `json:"adminNote"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID == 0 {
			errors["userId"] = "User ID is required!"
		}
		if reqData.Approved == nil {
			errors["approved"] = "Approved flag is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTierUpgrade", reqData)
		return c.Next()
	}
}
