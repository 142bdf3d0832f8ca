package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/salary-predictor/backend/internal/models"
)

// RequestValidator implements echo.Validator on top of validator/v10.
// Field errors are reported by their JSON name.
type RequestValidator struct {
	validate *validator.Validate
	schema   models.Schema
}

// NewRequestValidator registers the "category" tag, which checks a string against
// the options of the schema field with the same JSON name.
func NewRequestValidator(schema models.Schema) *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rv := &RequestValidator{validate: v, schema: schema}
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("category", rv.validCategory)
	return rv
}

func (rv *RequestValidator) validCategory(fl validator.FieldLevel) bool {
	field, ok := rv.schema.Lookup(fl.FieldName())
	if !ok {
		return false
	}
	return field.HasOption(fl.Field().String())
}

// Validate returns an *APIError for the first failing field.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewBadRequestError("invalid request", err)
	}
	fe := verrs[0]
	return NewValidationError(fe.Field(), rv.reason(fe))
}

func (rv *RequestValidator) reason(fe validator.FieldError) string {
	field, known := rv.schema.Lookup(fe.Field())
	switch fe.Tag() {
	case "min", "max":
		if known && field.Min != nil && field.Max != nil {
			return fmt.Sprintf("must be between %g and %g, got %v", *field.Min, *field.Max, fe.Value())
		}
		return fmt.Sprintf("must be %s %s", map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param())
	case "category":
		return fmt.Sprintf("unknown value %q", fe.Value())
	case "required":
		return "is required"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
