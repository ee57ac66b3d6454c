package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ccsafarmai/farmai/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks v's `validate` tags. Any failure is reported as
// common.ErrorValidation with the offending fields attached.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
		return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(fields, ","))
	}
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
