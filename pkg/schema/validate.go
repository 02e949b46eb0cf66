package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every definition type of the package.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Operator names must survive the prefix term notation.
	_ = validate.RegisterValidation("opname", validateOpName)
}

func validateOpName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name != "" && !strings.ContainsAny(name, "(), \t\n{}")
}

// structErrors runs the tag validation and converts failures.
func structErrors(v any) []error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{err}
	}
	out := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve := &ValidationError{Key: fieldPath(fe.Namespace()), Reason: reason(fe)}
		if fe.Tag() != "required" {
			ve.Value = fe.Value()
		}
		out = append(out, ve)
	}
	return out
}

// fieldPath drops the root struct name: "SignatureDef.Operators[0].Name"
// becomes "Operators[0].Name".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "opname":
		return "is not a valid operator name"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
