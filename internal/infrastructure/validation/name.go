package validation

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidName indicates that a peer name doesn't conform to the allowed format
	ErrInvalidName = errors.New("name must contain lowercase letters, numbers, and hyphens only")

	// ErrNameTooLong indicates that a name exceeds the maximum length
	ErrNameTooLong = errors.New("name exceeds maximum length of 63 characters")

	// ErrNameEmpty indicates that a name is empty
	ErrNameEmpty = errors.New("name cannot be empty")

	// ErrNameStartsWithHyphen indicates that a name starts with a hyphen
	ErrNameStartsWithHyphen = errors.New("name cannot start with a hyphen")

	// ErrNameEndsWithHyphen indicates that a name ends with a hyphen
	ErrNameEndsWithHyphen = errors.New("name cannot end with a hyphen")
)

// nameRegex matches valid peer names (RFC 1123 label subset). Peer names end
// up in config file paths and dashboard labels, so the DNS label rules are a
// good fit: lowercase letters, digits and hyphens, no leading/trailing hyphen.
var nameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateName validates a peer name against the RFC 1123 label rules.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len(name) > 63 {
		return ErrNameTooLong
	}
	if strings.HasPrefix(name, "-") {
		return ErrNameStartsWithHyphen
	}
	if strings.HasSuffix(name, "-") {
		return ErrNameEndsWithHyphen
	}
	if !nameRegex.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}
