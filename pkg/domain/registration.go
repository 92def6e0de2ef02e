package domain

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinPasswordLen is the shortest password the registration form accepts.
const MinPasswordLen = 6

// Form field keys, shared by validation and the screens that render errors.
const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldSubmit          = "submit"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Registration is the candidate account submitted by the registration form.
type Registration struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// FieldErrors maps a form field key to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Clear drops the error for field, if any.
func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateRegistration checks every field of r and returns the errors
// keyed by field, or nil when the form may be submitted.
func ValidateRegistration(r Registration) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(r.FullName) == "" {
		errs[FieldFullName] = "Full name is required"
	}

	switch {
	case strings.TrimSpace(r.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !ValidEmail(r.Email):
		errs[FieldEmail] = "Please enter a valid email address"
	}

	switch {
	case r.Password == "":
		errs[FieldPassword] = "Password is required"
	case utf8.RuneCountInString(r.Password) < MinPasswordLen:
		errs[FieldPassword] = "Password must be at least 6 characters long"
	}

	switch {
	case r.ConfirmPassword == "":
		errs[FieldConfirmPassword] = "Please confirm your password"
	case r.Password != r.ConfirmPassword:
		errs[FieldConfirmPassword] = "Passwords do not match"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Credentials is what the login form submits.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ValidateCredentials checks the login form.
func ValidateCredentials(c Credentials) FieldErrors {
	errs := FieldErrors{}
	switch {
	case strings.TrimSpace(c.Email) == "":
		errs[FieldEmail] = "Email is required"
	case !ValidEmail(c.Email):
		errs[FieldEmail] = "Please enter a valid email address"
	}
	if c.Password == "" {
		errs[FieldPassword] = "Password is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
