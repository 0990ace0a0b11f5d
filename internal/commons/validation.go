package commons

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

// MoneyScale is the number of decimal places stored for monetary columns.
const MoneyScale = 2

// NewValidator reports fields by their json names, validates decimal amounts
// as numbers and knows the order status enum.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseOrderStatus(fl.Field().String())
		return err == nil
	})

	_ = v.RegisterValidation("money", validateMoney)

	return v
}

// validateMoney rejects amounts the decimal(12,2) columns would round. The
// custom type func hands the tag a float64, so the decimal is read back from
// the parent struct.
func validateMoney(fl validator.FieldLevel) bool {
	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr {
		if parent.IsNil() {
			return true
		}
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return true
	}
	field := parent.FieldByName(fl.StructFieldName())
	if !field.IsValid() {
		return true
	}
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return true
	}
	return d.Equal(d.Truncate(MoneyScale))
}

// ValidateStruct runs v over s and converts failures into a ValidationError
// with one detail per field.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "body",
			Message: err.Error(),
		})
	}

	details := make([]apperrors.ValidationDetail, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, apperrors.ValidationDetail{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}

// fieldPath drops the root struct name: "CreateOrderRequest.items[0].price" -> "items[0].price".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "money":
		return fmt.Sprintf("must have at most %d decimal places", MoneyScale)
	case "orderstatus":
		names := make([]string, 0, len(domain.OrderStatuses()))
		for _, s := range domain.OrderStatuses() {
			names = append(names, string(s))
		}
		return "must be one of " + strings.Join(names, ", ")
	default:
		return fe.Error()
	}
}
