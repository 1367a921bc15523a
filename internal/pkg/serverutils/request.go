package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"learnflow-be/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateRequest runs struct tag validation and reports the first failure
// as a validation error with a readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Validation("Invalid request").WithDetails(err.Error())
	}

	details := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = fieldMessage(fe)
	}
	return apperr.Validation(details[0]).WithDetails(strings.Join(details, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// ParseBody decodes a JSON body and validates it.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperr.Validation("Invalid request body").WithDetails(err.Error())
	}
	return ValidateRequest(req)
}

// UUIDParam parses a route parameter, reporting message on failure.
func UUIDParam(ctx *fiber.Ctx, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(message).WithDetails(err.Error())
	}
	return id, nil
}

// CurrentUserID reads the caller set by JwtMiddleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals(LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
