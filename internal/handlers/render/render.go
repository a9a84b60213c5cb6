package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Machine readable error codes
const (
	ValidationErrorType     = "validation_failed"
	DecodingErrorType       = "decoding_failed"
	InvalidCredentialsType  = "invalid_credentials"
	MissingTokenType        = "missing_token"
	InvalidTokenType        = "invalid_token"
	TokenExpiredType        = "token_expired"
	EmailInUseType          = "email_in_use"
	NotFoundType            = "not_found"
	UnauthenticatedType     = "unauthenticated"
	InternalServerErrorType = "internal_error"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

// Flat error body. Fields is set only for validation and decoding failures
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	jsonWithStatus(w, data, http.StatusOK)
}

func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	jsonWithStatus(w, data, code)
}

// Render error with code only
func Error(w http.ResponseWriter, errorType string, code int) {
	jsonWithStatus(w, ErrorResponse{Error: errorType}, code)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{Error: DecodingErrorType}

	// Point to the field if decoder knows it
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		response.Fields = map[string]string{typeErr.Field: "Invalid data type"}
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// Render ValidationErrors
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Error:  ValidationErrorType,
		Fields: make(map[string]string, len(errs)),
	}

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = "Value is too short (minimum " + fieldError.Param() + ")"
		case "email":
			message = "Must be a valid email address"
		case "role":
			message = "Unknown role"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	jsonWithStatus(w, response, http.StatusBadRequest)
}

// Decode decodes JSON request body into type T and validates it using struct tags
// Nothing is written to response
func Decode[T Struct](r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		return value, err
	}

	err = validate.Struct(value)
	return value, err
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	value, err := Decode[T](r)

	var errs validator.ValidationErrors
	switch {
	case err == nil:
		return value, nil
	case errors.As(err, &errs):
		ValidationErrors(w, errs)
	default:
		DecodeError(w, err)
	}

	return value, err
}

// jsonWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
