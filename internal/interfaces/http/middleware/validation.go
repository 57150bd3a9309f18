package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors use JSON field names, falling back to
// form and uri tags for query and path structs.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			for _, tag := range []string{"form", "uri"} {
				if name != "" {
					break
				}
				name = strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			}
			return name
		})
	}
}

// BindErrorResponse turns an error from ShouldBind* into a status and envelope
func BindErrorResponse(err error) (int, dto.Response) {
	var (
		verrs     validator.ValidationErrors
		maxBytes  *http.MaxBytesError
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", FormatValidationErrors(verrs))
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", []dto.FieldDetail{
			{Field: field, Message: field + " must be a " + typeName(typeErr.Type)},
		})
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
	default:
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, err.Error())
	}
}

// FormatValidationErrors lists one detail per failed field. Nested fields are
// reported by their JSON path, e.g. "taxpayer.first_name" or "items[0].description".
func FormatValidationErrors(verrs validator.ValidationErrors) []dto.FieldDetail {
	details := make([]dto.FieldDetail, 0, len(verrs))
	for _, e := range verrs {
		field := fieldPath(e)
		details = append(details, dto.FieldDetail{
			Field:   field,
			Message: validationMessage(field, e),
		})
	}
	return details
}

// fieldPath drops the root struct name from the namespace
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return "string"
	}
}

// validationMessage returns a human-readable validation message
func validationMessage(field string, e validator.FieldError) string {
	isString := e.Kind() == reflect.String
	switch e.Tag() {
	case "required", "required_without", "required_if":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if isString {
			return field + " must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return field + " must contain at least " + e.Param() + " items"
		}
		return field + " must be at least " + e.Param()
	case "max":
		if isString {
			return field + " must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return field + " must contain at most " + e.Param() + " items"
		}
		return field + " must be at most " + e.Param()
	case "len":
		return field + " must be exactly " + e.Param() + " characters"
	case "uuid":
		return field + " must be a valid UUID"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "url":
		return field + " must be a valid URL"
	case "numeric":
		return field + " must be numeric"
	default:
		return field + " is invalid"
	}
}
