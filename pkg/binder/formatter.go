package binder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func isNumeric(kind reflect.Kind) bool {
	switch kind { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// lengthBound phrases a min/max error, e.g. `"title" length must be less
// than or equal to 255 characters`.
func lengthBound(err validator.FieldError, comparison string) string {
	field := err.Field()
	if isNumeric(err.Kind()) {
		return fmt.Sprintf("%q must be %s %s", field, comparison, err.Param())
	}
	unit := "character"
	if err.Kind() == reflect.Slice {
		unit = "element"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", field, comparison, err.Param(), unit)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "date":
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case "email":
		return fmt.Sprintf("%q is not a valid email", field)
	case "url", "http_url":
		return fmt.Sprintf("%q is not a valid URL", field)
	case "slug":
		return fmt.Sprintf("%q may only contain lowercase letters, numbers and hyphens", field)
	case "max":
		return lengthBound(err, "less than or equal to")
	case "min":
		return lengthBound(err, "greater than or equal to")
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%q must be less than or equal to %s", field, err.Param())
	case "ne":
		return fmt.Sprintf("%q can't be %q", field, err.Param())
	case "oneof":
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case "required":
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q failed the %q check", field, err.Tag())
	}
}
