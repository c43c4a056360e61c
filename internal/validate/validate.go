// Package validate checks request structs against their `validate` tags and
// reports violations keyed by JSON field name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"dashboard/internal/apperr"
)

var (
	validate *validator.Validate

	priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// price is a non-negative decimal with at most two fractional digits.
	_ = validate.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		return priceRe.MatchString(fl.Field().String())
	})
}

var messages = map[string]string{
	"required": "%s is required",
	"min":      "%s must be at least %s characters long",
	"max":      "%s must be no longer than %s characters",
	"uuid":     "%s must be a valid UUID",
	"url":      "%s must be a valid URL",
	"email":    "%s must be a valid email address",
	"gte":      "%s must be greater than or equal to %s",
	"price":    "%s has an invalid price format",
}

// numeric kinds reuse gte wording for min
func message(e validator.FieldError) string {
	tag := e.Tag()
	if tag == "min" {
		switch e.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			tag = "gte"
		}
	}
	msg, ok := messages[tag]
	if !ok {
		return fmt.Sprintf("%s is invalid", e.Field())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}

// Fields validates s and returns a map of JSON field names to messages.
// The map is empty when s is valid.
func Fields(s any) map[string]string {
	out := make(map[string]string)
	err := validate.Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			if _, seen := out[e.Field()]; !seen {
				out[e.Field()] = message(e)
			}
		}
		return out
	}
	out["_"] = err.Error()
	return out
}

// Struct validates s and returns an *apperr.Error of kind ValidationError, or nil.
func Struct(s any) error {
	if fields := Fields(s); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}
