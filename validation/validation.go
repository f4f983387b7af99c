// Package validation decodes request bodies and turns validator errors into
// field errors the client can act on.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"deadline-tracker/errs"

	"github.com/go-playground/validator/v10"
)

// DecodeJSON reads the JSON body of r into payload. Failures come back as a
// 400 *errs.HTTPError; field rules are checked by the payload's Validate.
func DecodeJSON(r *http.Request, payload interface{}) error {
	if r.Body == nil {
		return errs.NewBadRequestError("Request body is required", nil)
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewBadRequestError("Request body is required", nil)
		}
		return errs.NewBadRequestError(decodeMessage(err), nil)
	}
	return nil
}

func decodeMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Invalid value for field %q", typeErr.Field)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Malformed JSON body"
	}
	return "Invalid request body: " + err.Error()
}

// FieldErrors converts validator errors into per-field messages keyed by JSON name.
func FieldErrors(err error) []errs.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "body", Error: err.Error()}}
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "deadline_status":
			msg = "must be one of: Open Done Postponed"
		case "deadline_category":
			msg = "must be one of: Hardware Software Firmware Accounting Production Certification Delivery Other"
		default:
			msg = fe.Tag()
			if fe.Param() != "" {
				msg += ":" + fe.Param()
			}
		}
		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: jsonFieldName(fe.Field()),
			Error: msg,
		})
	}
	return fieldErrors
}

// jsonFieldName maps "OriginalDueDate" to "original_due_date".
func jsonFieldName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
