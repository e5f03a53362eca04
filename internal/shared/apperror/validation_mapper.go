package apperror

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Issue is one failed rule of a request body or query.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// formatFieldName turns costCenter or cost_center into "Cost Center".
func formatFieldName(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r == '_' {
			b.WriteRune(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}

	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(b.String())
}

func issueMessage(e validator.FieldError) string {
	field := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "min", "gte":
		return field + " must be at least " + e.Param()
	case "max", "lte":
		return field + " must be at most " + e.Param()
	default:
		return field + " is invalid"
	}
}

// ValidationIssues lists every failed rule; nil when err is not a validation error.
func ValidationIssues(err error) []Issue {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}
	issues := make([]Issue, 0, len(errs))
	for _, e := range errs {
		issues = append(issues, Issue{
			Field:   e.Field(),
			Rule:    e.Tag(),
			Message: issueMessage(e),
		})
	}
	return issues
}

// MapValidationError converts a binding error into an AppError carrying the issue list.
func MapValidationError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if issues := ValidationIssues(err); len(issues) > 0 {
		e := issues[0]
		var base *AppError
		if e.Rule == "required" {
			base = RequiredField(formatFieldName(e.Field))
		} else {
			base = New(CodeValidation, e.Message, http.StatusBadRequest)
		}
		return base.WithDetails(issues)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return New(CodeValidation, "Malformed JSON body", http.StatusBadRequest)
	case errors.As(err, &typeErr):
		return InvalidField(formatFieldName(typeErr.Field))
	}

	return New(CodeValidation, "Invalid input", http.StatusBadRequest)
}
