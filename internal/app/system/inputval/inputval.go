// Package inputval validates request payloads with struct tags.
//
// Fields carry `validate:"..."` rules and an optional `label:"..."` used
// in messages:
//
//	type signupInput struct {
//	    Email string `json:"email" validate:"required,email" label:"Email"`
//	}
package inputval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Result holds field failures in declaration order.
type Result struct {
	Errors []string
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// Validate checks v's struct tags.
func Validate(v any) Result {
	err := validate.Struct(v)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []string{err.Error()}}
	}
	out := Result{Errors: make([]string, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "email":
		return field + " must be a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, fe.Param())
	case "mongodb":
		return field + " is not a valid id."
	default:
		return field + " is invalid."
	}
}

// DecodeJSON reads a JSON body into dest. It does not run validation so
// callers can normalize fields first. The body is capped at MaxBodyBytes;
// anything after the first value is drained up to that cap.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer io.CopyN(io.Discard, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperr.InvalidInput("Request body too large")
		}
		return apperr.InvalidInput("Invalid request body")
	}
	return nil
}

// Check validates v and converts the first failure into InvalidInput.
func Check(v any) error {
	if res := Validate(v); res.HasErrors() {
		return apperr.InvalidInput(res.First())
	}
	return nil
}

// IDParam parses the chi URL parameter name as an ObjectID. A malformed
// id is reported as NotFound with "<what> not found".
func IDParam(r *http.Request, name, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound(what + " not found")
	}
	return id, nil
}
