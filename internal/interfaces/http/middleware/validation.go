package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/emlak/backend/internal/domain/lead"
	"github.com/emlak/backend/internal/domain/listing"
	"github.com/emlak/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors name fields by their JSON or form
// name and registers the portal's enum tags: listing_status,
// listing_category and request_type.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
	return errors.Join(
		v.RegisterValidation("listing_status", func(fl validator.FieldLevel) bool {
			return listing.Status(fl.Field().String()).IsValid()
		}),
		v.RegisterValidation("listing_category", func(fl validator.FieldLevel) bool {
			return listing.Category(fl.Field().String()).IsValid()
		}),
		v.RegisterValidation("request_type", func(fl validator.FieldLevel) bool {
			return lead.RequestType(fl.Field().String()).IsValid()
		}),
	)
}

// ValidationDetails converts binding errors into per-field details. It
// returns nil for errors that are not field validation failures, such as
// malformed JSON.
func ValidationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, e := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return details
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "url":
		return "Invalid URL format"
	case "listing_status":
		return "Must be FOR_SALE or FOR_RENT"
	case "listing_category":
		return "Unknown listing category"
	case "request_type":
		return "Must be one of: SELL BUY RENT LET"
	default:
		return "Invalid value"
	}
}
