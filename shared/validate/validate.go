package validate

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates request payload structs and renders field errors as
// English messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a Validator with English translations and the custom
// strongpassword rule registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("failed to get en translator")
	}

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	if err := validate.RegisterValidation("strongpassword", strongPassword); err != nil {
		return nil, err
	}

	if err := validate.RegisterTranslation(
		"strongpassword",
		trans,
		func(ut ut.Translator) error {
			return ut.Add(
				"strongpassword",
				"{0} must be at least 8 characters long and include uppercase, lowercase, number, and special character",
				true,
			)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("strongpassword", fe.Field())
			return t
		},
	); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates the given struct and returns a single error whose message
// joins every translated field error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(v.trans))
	}

	return errors.New(strings.Join(messages, "; "))
}

// strongPassword enforces the account password policy: minimum 8 characters
// with at least one uppercase letter, one lowercase letter, one digit, and
// one special character.
func strongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
