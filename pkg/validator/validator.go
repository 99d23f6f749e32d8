package validator

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate *validator.Validate
	strict   = bluemonday.StrictPolicy()
	spaces   = regexp.MustCompile(`\s+`)
)

func Init() {
	validate = validator.New()

	registerCustomValidations(validate)

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomValidations(engine)
	}
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("not_blank", validateNotBlank)
}

func Validate(s interface{}) error {
	if validate == nil {
		Init()
	}
	return validate.Struct(s)
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// SanitizeString strips every tag and collapses runs of whitespace. The
// result is plain text; templates escape it again on output.
func SanitizeString(s string) string {
	cleaned := html.UnescapeString(strict.Sanitize(s))
	return strings.TrimSpace(NormalizeSpaces(cleaned))
}

func NormalizeSpaces(s string) string {
	return spaces.ReplaceAllString(s, " ")
}

// Messages turns validation errors into one readable line per failed field.
// Any other error is returned as a single message.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("Please provide a %s", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "no_html":
		return fmt.Sprintf("%s must not contain HTML", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func IsValidationError(err error) bool {
	var fieldErrors validator.ValidationErrors
	return errors.As(err, &fieldErrors)
}
