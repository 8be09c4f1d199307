package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"miningdash/internal/models"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidate()

func newValidate() *playground.Validate {
	v := playground.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// Decimals compare as numbers so gt/gte work on amounts.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("crypto", oneOf(models.CryptoBTC, models.CryptoETH))
	_ = v.RegisterValidation("hashunit", oneOf(HashUnitTH, HashUnitGH, HashUnitMH))
	_ = v.RegisterValidation("network", oneOf(models.NetworkEthereum, models.NetworkPolygon))
	_ = v.RegisterValidation("paymentstatus", func(fl playground.FieldLevel) bool {
		return models.ValidPaymentStatus(fl.Field().String())
	})
	return v
}

const (
	HashUnitTH = "TH/s"
	HashUnitGH = "GH/s"
	HashUnitMH = "MH/s"
)

func oneOf(allowed ...string) playground.Func {
	return func(fl playground.FieldLevel) bool {
		value := fl.Field().String()
		for _, candidate := range allowed {
			if value == candidate {
				return true
			}
		}
		return false
	}
}

// Error carries one message per failed field.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Struct validates v against its validate tags. Failures come back as *Error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	return &Error{Messages: FormatValidationError(fieldErrs)}
}

func FormatValidationError(err error) []string {
	var errs []string
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs
	}
	for _, e := range fieldErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Sprintf("%s is required", field))
		case "email":
			errs = append(errs, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			errs = append(errs, fmt.Sprintf("%s must have minimum length %s", field, e.Param()))
		case "max":
			errs = append(errs, fmt.Sprintf("%s must have maximum length %s", field, e.Param()))
		case "gt":
			errs = append(errs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		case "gte":
			errs = append(errs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "crypto":
			errs = append(errs, fmt.Sprintf("%s must be BTC or ETH", field))
		case "hashunit":
			errs = append(errs, fmt.Sprintf("%s must be one of TH/s, GH/s, MH/s", field))
		case "network":
			errs = append(errs, fmt.Sprintf("%s must be ethereum or polygon", field))
		case "paymentstatus":
			errs = append(errs, fmt.Sprintf("%s must be pending, confirmed or failed", field))
		default:
			errs = append(errs, fmt.Sprintf("%s is invalid (%s)", field, e.Tag()))
		}
	}
	return errs
}
