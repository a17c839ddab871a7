// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/base64"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultops/internal/errors"
)

var (
	// keyNameRegex matches a single path segment usable as a transit key name
	keyNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)

	// mountRegex matches a mount path such as "transit" or "team/kv"
	mountRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+(/[a-zA-Z0-9_\-]+)*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// KeyName validates a transit key name: one path segment of letters, digits, '.', '_' or '-'.
var KeyName = validation.NewStringRuleWithError(
	func(s string) bool {
		return keyNameRegex.MatchString(s)
	},
	validation.NewError("validation_key_name", "must be a single path segment of letters, digits, '.', '_' or '-'"),
)

// MountPath validates a secret engine mount path without leading or trailing slashes.
var MountPath = validation.NewStringRuleWithError(
	func(s string) bool {
		return mountRegex.MatchString(s)
	},
	validation.NewError("validation_mount_path", "must be a mount path without leading or trailing slashes"),
)

// SecretPath validates a logical secret path: no leading or trailing slash, no empty or
// relative segments.
var SecretPath = validation.NewStringRuleWithError(
	func(s string) bool {
		if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") {
			return false
		}
		for _, segment := range strings.Split(s, "/") {
			if segment == "" || segment == "." || segment == ".." {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_secret_path", "must be a relative path without empty or dot segments"),
)

// Base64 validates standard padded base64, the encoding of transit plaintext, derivation context
// and nonce fields. Empty values pass; combine with Required to reject them.
var Base64 = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := base64.StdEncoding.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_base64", "must be valid base64-encoded data"),
)
