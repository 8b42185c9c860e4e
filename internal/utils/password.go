package utils

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen is the shortest password accepted, in characters.
const MinPasswordLen = 6

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// ValidatePassword checks the length bounds a customer password must meet.
func ValidatePassword(plain string) error {
	switch {
	case utf8.RuneCountInString(plain) < MinPasswordLen:
		return ErrPasswordTooShort
	case len(plain) > maxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword validates plain and returns its bcrypt hash using cost.
func HashPassword(plain string, cost int) (string, error) {
	if err := ValidatePassword(plain); err != nil {
		return "", err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
