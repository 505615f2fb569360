package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata; validator.Validate is safe for concurrent use.
var validate = validator.New()

// validateStruct runs tag validation and converts the first violation into
// an InvalidInputError.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InvalidInputError{
			Field:  fe.Namespace(),
			Reason: describeTag(fe.Tag(), fe.Param(), fe.Value()),
		}
	}
	return &InvalidInputError{Field: "input", Reason: err.Error()}
}

func describeTag(tag, param string, value interface{}) string {
	switch tag {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", param, value)
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", param, value)
	case "lt":
		return fmt.Sprintf("must be less than %s (got %v)", param, value)
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", param, value)
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %v)", param, value)
	default:
		return fmt.Sprintf("failed %q validation (got %v)", tag, value)
	}
}
