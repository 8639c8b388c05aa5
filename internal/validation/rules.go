// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ArtifactID validates the shape of an artifact identifier: 32 lowercase hex
// characters.
var ArtifactID = validation.NewStringRuleWithError(
	func(s string) bool {
		if len(s) != 32 {
			return false
		}
		for _, r := range s {
			if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_artifact_id", "must be a 32-character hex identifier"),
)

// MasterKeyEncoding validates that a string decodes to a usable master key:
// raw 32 bytes, 64 hex characters, or URL-safe base64 of 32 bytes. Empty
// strings pass so optional key fields can fall back to the configured key.
var MasterKeyEncoding = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_master_key_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	key, err := cryptoDomain.ParseMasterKey(s)
	if err != nil {
		return validation.NewError(
			"validation_master_key",
			"must be raw 32 bytes, 64 hex characters, or url-safe base64 of 32 bytes",
		)
	}
	cryptoDomain.Zero(key)
	return nil
})
