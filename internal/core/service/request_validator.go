package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gcredit/registration-api/internal/core/domain"
)

// registrationForm is the normalized request the validation rules run against.
type registrationForm struct {
	Email     string `json:"email"     validate:"required,email,dotted_domain"`
	Password  string `json:"password"  validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
}

// requestValidator wraps go-playground/validator with the password policy.
type requestValidator struct {
	v      *validator.Validate
	policy domain.PasswordPolicy
}

func newRequestValidator(policy domain.PasswordPolicy) *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("dotted_domain", dottedDomain)
	return &requestValidator{v: v, policy: policy}
}

// validate collects every violation instead of stopping at the first one.
func (rv *requestValidator) validate(form registrationForm) error {
	verr := &domain.ValidationError{}

	if err := rv.v.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("validate registration: %w", err)
		}
		for _, fe := range ve {
			verr.Add(fe.Field(), fieldError(fe))
		}
	}

	if form.Password != "" {
		for _, problem := range rv.policy.Check(form.Password) {
			verr.Add("password", problem)
		}
	}

	return verr.OrNil()
}

// dottedDomain requires the part after '@' to contain at least one dot.
func dottedDomain(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		return false
	}
	host := s[at+1:]
	dot := strings.IndexByte(host, '.')
	return dot > 0 && dot < len(host)-1
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email", "dotted_domain":
		return field + " must be a valid email"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
