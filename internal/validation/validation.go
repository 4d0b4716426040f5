package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"internHubAPI/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags and returns an
// apperr validation error naming every failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation("invalid request")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return apperr.Validation("invalid request: " + strings.Join(msgs, "; "))
}
