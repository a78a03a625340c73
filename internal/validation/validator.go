package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/card-directory/pkg/util/errorutil"
)

var phonePattern = regexp.MustCompile(`0[0-9]{1,2}-?[0-9]{7}`)

const passwordSymbols = "!@#$%^&*-"

// Validator checks request payloads against their `validate` struct tags and
// reports the first failing field.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the directory's custom rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("localphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct validates s. The returned error is a VALIDATION_FAILED DomainError
// naming the first failing field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	fe := fieldErrs[0]
	field := fieldPath(fe)
	return apperrors.NewValidationError(message(field, fe), map[string]any{"field": field})
}

// IsStrongPassword requires at least six characters drawn from letters,
// digits and !@#$%^&*- with at least one lowercase letter, one uppercase
// letter, one digit and one symbol.
func IsStrongPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// fieldPath drops the root struct name: "CardRequest.address.city" becomes
// "address.city".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "url":
		return fmt.Sprintf("%q must be a valid uri", field)
	case "localphone":
		return fmt.Sprintf("%q must be a valid phone number", field)
	case "strongpassword":
		return fmt.Sprintf("%q must contain an uppercase letter, a lowercase letter, a digit and one of %s", field, passwordSymbols)
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
