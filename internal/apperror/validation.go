package apperror

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var tagMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of: ",
	"min":      "must be at least ",
	"max":      "must be at most ",
	"gte":      "must be at least ",
	"lte":      "must be at most ",
	"datetime": "must be a date in YYYY-MM-DD format",
}

// NewValidator returns a validator that reports fields in lowerCamel case,
// matching the names used in plan files ("scheduleDays", "weeklyTarget").
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return lowerFirst(fld.Name)
	})
	return v
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// FromValidator converts the first validator.FieldError in err into a
// ValidationError for the given promise text. Other errors pass through.
func FromValidator(promise string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	reason, ok := tagMessages[fe.Tag()]
	if !ok {
		reason = "is invalid"
	} else if strings.HasSuffix(reason, " ") || strings.HasSuffix(reason, ": ") {
		reason += fe.Param()
	}
	return &ValidationError{Promise: promise, Field: fieldPath(fe), Reason: reason}
}

// fieldPath strips the struct name prefix: "DesiredPromise.scheduleDays[0]" -> "scheduleDays[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
