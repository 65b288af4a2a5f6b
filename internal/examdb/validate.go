package examdb

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates payload and converts the first failure into a
// *ValidationError.
func check(entity string, payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Entity: entity,
			Field:  fe.Field(),
			Rule:   fe.Tag(),
			Value:  fmt.Sprint(fe.Value()),
		}
	}
	return fmt.Errorf("validate %s: %w", entity, err)
}

// normText puts stored text in NFC so equal strings compare equal
// regardless of how the client composed them.
func normText(s string) string {
	return norm.NFC.String(s)
}
