// Package userprov creates and configures Linux user accounts: validation,
// account creation, group grants, sudoers fragments, and the managed shell
// profile block.
package userprov

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxUsernameLength is the longest username useradd accepts.
const MaxUsernameLength = 32

// MinPasswordLength is the minimum password length.
const MinPasswordLength = 8

// usernamePattern matches portable Linux usernames.
var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// ErrPasswordMismatch is returned when the confirmation does not match.
var ErrPasswordMismatch = errors.New("passwords do not match")

// UserSpec describes the account to create or reconfigure. The password is
// used once to set the account credential and must never be logged.
type UserSpec struct {
	Username         string
	Password         string
	GrantSudo        bool
	PasswordlessSudo bool
	DockerGroup      bool
}

// Wipe clears the password from memory once it has been consumed.
func (s *UserSpec) Wipe() {
	s.Password = ""
}

// ValidateUsername checks a username against the portable name policy.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("username cannot exceed %d characters", MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username must start with a lowercase letter or underscore and contain only lowercase letters, digits, hyphens, and underscores")
	}
	return nil
}

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidatePasswordConfirmation checks the confirmation value matches.
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Validate checks the whole spec. It must fully succeed before any
// account-mutating command executes.
func (s *UserSpec) Validate() error {
	if err := ValidateUsername(s.Username); err != nil {
		return err
	}
	return ValidatePassword(s.Password)
}
