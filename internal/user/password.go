package user

import (
	"errors"
	"strings"
	"unicode"
)

const specialRunes = "@$!%*?&#^()-_=+[]{};:,.<>/\\|~"

var ErrWeakPassword = errors.New("password must be at least 8 characters long, contain uppercase and lowercase letters, a number, and a special character")

// ValidatePassword enforces the account password policy.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrWeakPassword
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialRunes, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
