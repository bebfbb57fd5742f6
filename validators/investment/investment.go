package investmentValidator

import (
	"cryptovest/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// fieldErrors converts validator.ValidationErrors into the field→message map
// the shared error envelope expects.
func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed validation rule: " + fe.Tag()
		}
	} else {
		errors["request"] = err.Error()
	}
	return errors
}

// CreatePlan validates a new investment plan request
func CreatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			InvestmentPlanName string  `json:"investmentPlanName" validate:"required,min=3,max=100"`
			InvestmentPlanID   string  `json:"investmentPlanId" validate:"required,min=3,max=50"`
			DailyPercentage    float64 `json:"dailyPercentage" validate:"required,gt=0,lte=100"`
			WithdrawalDay      int     `json:"withdrawalDay" validate:"required,gt=0"`
			Amount             float64 `json:"amount" validate:"required,gt=0"`
			Currency           string  `json:"currency" validate:"required,len=3"`
			AmountInCrypto     float64 `json:"amountInCrypto"`
			CryptoCoinName     string  `json:"cryptoCoinName" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedPlan", reqData)
		return c.Next()
	}
}

// Deposit validates an additional deposit request
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			InvestmentPlanID string  `json:"investmentPlanId" validate:"required"`
			Amount           float64 `json:"amount" validate:"required,gt=0"`
			AmountInCrypto   float64 `json:"amountInCrypto"`
			CryptoCoinName   string  `json:"cryptoCoinName" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}
