package a11ysdk

import (
	"regexp"
	"strings"
)

const (
	requiredReason    = "required"
	minPasswordLength = 6
	maxUsernameLength = 80
	maxEmailLength    = 120
)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate checks the sign-up form before it is sent.
// Returns a map of field names to error messages, or nil if all fields are valid.
func (r RegisterRequest) Validate() map[string]string {
	errs := make(map[string]string)

	r.validateUsername(errs)
	r.validateEmail(errs)
	r.validatePassword(errs)

	if r.Role != "" && !r.Role.Valid() {
		errs["role"] = "must be one of normal_user, accessibility_advocate, admin"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r RegisterRequest) validateUsername(errs map[string]string) {
	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		errs["username"] = requiredReason
	case len(username) > maxUsernameLength:
		errs["username"] = "too long (max 80)"
	}
}

func (r RegisterRequest) validateEmail(errs map[string]string) {
	email := strings.TrimSpace(r.Email)
	switch {
	case email == "":
		errs["email"] = requiredReason
	case len(email) > maxEmailLength:
		errs["email"] = "too long (max 120)"
	case !reEmail.MatchString(email):
		errs["email"] = "must be a valid email address"
	}
}

func (r RegisterRequest) validatePassword(errs map[string]string) {
	switch {
	case r.Password == "":
		errs["password"] = requiredReason
	case len(r.Password) < minPasswordLength:
		errs["password"] = "Password must be at least 6 characters long"
	case r.ConfirmPassword != "" && r.ConfirmPassword != r.Password:
		errs["confirm_password"] = "Passwords do not match"
	}
}
