// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"spendbook/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v. Split out so tests can
// use a standalone validator.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("category", validateCategory)
	_ = v.RegisterValidation("nonneg", validateNonNegative)
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("notblank", validateNotBlank)
}

// validateCategory accepts names that are non-empty after trimming and have
// no control characters.
func validateCategory(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" || len(s) > 100 {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// decimalValue exposes decimal.Decimal fields to the validator as their
// string form so field tags run on them instead of on the struct internals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// fieldDecimal reads a decimal field in any of the shapes the validator
// hands over. A nil pointer yields (nil, true).
func fieldDecimal(field reflect.Value) (*decimal.Decimal, bool) {
	switch field.Kind() {
	case reflect.Ptr:
		if field.IsNil() {
			return nil, true
		}
		field = field.Elem()
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		if err != nil {
			return nil, false
		}
		return &d, true
	}
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil, false
	}
	return &d, true
}

// validateNonNegative accepts decimal values (or pointers to them) >= 0.
func validateNonNegative(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl.Field())
	return ok && (d == nil || !d.IsNegative())
}

// validateMoney accepts decimal values with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl.Field())
	return ok && (d == nil || models.IsMoney(*d))
}
