package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Credit type validation
	validate.RegisterValidation("credit_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		validTypes := []string{
			"standard_listing", "featured_listing",
			"homepage_banner", "category_banner",
			"car_basic", "car_enhanced", "car_premium", "car_exclusive_banner",
			"partner_silver", "partner_gold",
		}
		for _, t := range validTypes {
			if value == t {
				return true
			}
		}
		return false
	})

	// Listing kind validation
	validate.RegisterValidation("listing_kind", func(fl validator.FieldLevel) bool {
		kind := fl.Field().String()
		validKinds := []string{"ad", "car", "auction", "event", "hotel", "club", "service"}
		for _, k := range validKinds {
			if kind == k {
				return true
			}
		}
		return false
	})

	// Payment gateway validation
	validate.RegisterValidation("gateway", func(fl validator.FieldLevel) bool {
		gateway := fl.Field().String()
		return gateway == "stripe" || gateway == "paypal"
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "credit_type":
			errors[field] = "Unknown credit type"
		case "listing_kind":
			errors[field] = "Invalid listing kind. Must be: ad, car, auction, event, hotel, club, or service"
		case "gateway":
			errors[field] = "Invalid gateway. Must be: stripe or paypal"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
