package middleware

import (
	"secret-santa-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ParseAndValidate decodes the request body into dest and runs struct
// validation. On failure it writes the error response and returns a non-nil
// error for the handler to propagate; on success it returns nil and the
// handler keeps going.
func ParseAndValidate(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return utils.Error(c, "Invalid request body", fiber.StatusBadRequest)
	}

	if err := validate.Struct(dest); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		firstError := validationErrors[0]

		var errorMessage string
		switch firstError.Tag() {
		case "required":
			errorMessage = firstError.Field() + " is required"
		case "email":
			errorMessage = "Invalid email format"
		case "min":
			errorMessage = firstError.Field() + " is too short"
		case "max":
			errorMessage = firstError.Field() + " is too long"
		default:
			errorMessage = "Validation failed for " + firstError.Field()
		}

		return utils.Error(c, errorMessage, fiber.StatusBadRequest)
	}

	return nil
}
