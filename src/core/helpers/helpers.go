package helpers

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Initialize a validator instance using go-playground's validator package
var Validator = validator.New()

func init() {
	// Report validation failures under the wire field name, not the Go one
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the struct fields against the specified validation tags.
func Validate(val interface{}) error {
	return Validator.Struct(val)
}

// PageParams reads the page and limit query parameters for list endpoints.
// page is 1-based and defaults to 1; limit defaults to 20 and is clamped to
// 100. Non-numeric values come back as field errors instead of being
// silently coerced.
func PageParams(context *fiber.Ctx) (offset, limit int, fields map[string]string) {
	fields = map[string]string{}

	page := 1
	if raw := context.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fields["page"] = "must be a number"
		} else if v >= 1 {
			page = v
		}
	}

	limit = 20
	if raw := context.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			fields["limit"] = "must be a number"
		} else if v >= 1 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	if len(fields) == 0 {
		fields = nil
	}
	return (page - 1) * limit, limit, fields
}

// HandleSuccess sends a structured JSON response for successful requests.
func HandleSuccess(context *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  statusCode,
		"message": message,
		"error":   nil,
		"data":    data,
	})
}

// HandleError sends a structured JSON response for errors. Server-side
// failures (5xx) carry only the supplied message so internal detail never
// reaches the wire.
func HandleError(context *fiber.Ctx, statusCode int, message string, err error) error {
	detail := message
	if err != nil && statusCode < fiber.StatusInternalServerError {
		detail = err.Error()
	}
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  statusCode,
		"message": message,
		"error":   detail,
		"data":    nil,
	})
}

// HandleValidationError sends a 400 whose error payload maps each failing
// field to its message.
func HandleValidationError(context *fiber.Ctx, message string, fields map[string]string) error {
	return context.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  fiber.StatusBadRequest,
		"message": message,
		"error":   fields,
		"data":    nil,
	})
}

// ValidationFields flattens a validator error into a field → message map.
func ValidationFields(err error) map[string]string {
	fields := map[string]string{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["body"] = "invalid request payload"
		return fields
	}
	for _, fe := range errs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}
