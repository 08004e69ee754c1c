package httpserver

import (
	"errors"
	"moviehub/errs"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var genrePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z \-]*$`)

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("genre", validateGenre)
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return errs.Errorf(errs.EINVALID, formatValidationError(err))
	}
	return nil
}

// validateGenre accepts an empty genre (no filter) or a plain label.
func validateGenre(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	value := strings.TrimSpace(fl.Field().String())
	return value == "" || genrePattern.MatchString(value)
}

var tagMessages = map[string]string{
	"gte":   "must not be negative",
	"min":   "must not be negative",
	"max":   "is out of range",
	"genre": "must be a plain genre name",
}

// formatValidationError joins field errors as "validation error: page must
// not be negative; genre must be a plain genre name".
func formatValidationError(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return "validation error"
	}

	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		field := fe.Field()
		if field == "" {
			field = fe.StructField()
		}
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = "failed on " + fe.Tag()
		}
		parts = append(parts, field+" "+msg)
	}
	return "validation error: " + strings.Join(parts, "; ")
}
