package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/goccy/go-json"

	"github.com/mcoot/cyberstore/internal/api/apierr"
)

// validate is shared by all request types; it reports fields by their JSON name
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validator is implemented by requests with checks beyond their struct tags
type Validator interface {
	Validate() error
}

// Validate checks the create request, including that a price was given
func (r CreateGameRequest) Validate() error {
	if r.Price == nil {
		return apierr.NewInvalidRequestError("price is required")
	}
	return nil
}

// Decode reads a JSON body into dst and validates it.
// All failures are reported as invalid request errors.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.NewInvalidRequestError("request body is required")
		}
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return Check(dst)
}

// Check validates an already decoded request
func Check(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apierr.NewInvalidRequestError(describe(verrs))
		}
		return apierr.NewInvalidRequestError("invalid request")
	}

	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "notblank":
			parts = append(parts, fe.Field()+" is required")
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must be a date in %s form", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return strings.Join(parts, "; ")
}
