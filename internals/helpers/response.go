package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationMap flattens a validator.v10 error into field -> messages, the
// shape JsonValidationError renders. Non-validator errors land under "body".
func ValidationMap(err error) map[string][]string {
	out := make(map[string][]string)
	if err == nil {
		return out
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		out["body"] = []string{err.Error()}
		return out
	}

	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "required"
		case "email":
			msg = "must be a valid email"
		case "min":
			msg = "below minimum " + fe.Param()
		case "max":
			msg = "above maximum " + fe.Param()
		case "oneof":
			msg = "must be one of: " + fe.Param()
		case "url":
			msg = "must be a valid url"
		default:
			msg = "invalid (" + fe.Tag() + ")"
		}
		out[field] = append(out[field], msg)
	}
	return out
}
