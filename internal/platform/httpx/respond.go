package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MessageBody is the JSON body used for plain status messages.
type MessageBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// ValidationFailed sends a 400 listing field errors.
func ValidationFailed(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, MessageBody{Message: "Validation failed", Errors: fields})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", ErrValidation)
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: malformed json", ErrValidation)
	}
	return nil
}

// Bind decodes the body into target and runs struct validation. On failure it
// writes the response and returns false.
func Bind(w http.ResponseWriter, r *http.Request, v *validator.Validate, target any) bool {
	if err := DecodeJSON(r, target); err != nil {
		Message(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := v.Struct(target); err != nil {
		ValidationFailed(w, FieldErrors(err))
		return false
	}
	return true
}

// FieldErrors flattens validator errors into field -> message.
func FieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["general"] = err.Error()
		return fields
	}
	for _, fieldErr := range verrs {
		fields[fieldErr.Field()] = fieldErr.Error()
	}
	return fields
}
