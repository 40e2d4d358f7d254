package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode"
)

// User is a registered account, keyed by email.
type User struct {
	// Email is the unique account identifier.
	Email string

	// PasswordHash is the hex-encoded SHA-256 digest of the password.
	PasswordHash string

	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// HashPassword returns the hex-encoded SHA-256 digest of a password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPassword reports whether the password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return u.PasswordHash == HashPassword(password)
}

// PasswordRules reports which strength requirements a password meets.
type PasswordRules struct {
	MinLength   bool
	Uppercase   bool
	Lowercase   bool
	Digit       bool
	SpecialChar bool
}

// AllMet returns true if every rule is satisfied.
func (r PasswordRules) AllMet() bool {
	return r.MinLength && r.Uppercase && r.Lowercase && r.Digit && r.SpecialChar
}

// ValidatePassword evaluates password strength rules: at least 8
// characters with an uppercase letter, a lowercase letter, a digit,
// and a special character.
func ValidatePassword(password string) PasswordRules {
	rules := PasswordRules{MinLength: len(password) >= 8}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			rules.Uppercase = true
		case unicode.IsLower(r):
			rules.Lowercase = true
		case unicode.IsDigit(r):
			rules.Digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			rules.SpecialChar = true
		}
	}
	return rules
}
