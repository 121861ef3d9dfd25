package domain

import (
	"fmt"
	"unicode"
)

// bcrypt ignores everything past 72 bytes.
const maxBcryptPasswordBytes = 72

// PasswordPolicy is the minimum-strength rule a registration password must meet.
type PasswordPolicy struct {
	MinLength     int
	MaxLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPasswordPolicy accepts "SecurePass123" and rejects "weak".
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:    8,
		MaxLength:    maxBcryptPasswordBytes,
		RequireUpper: true,
		RequireLower: true,
		RequireDigit: true,
	}
}

// Check returns one message per unmet requirement, or nil when the password passes.
func (p PasswordPolicy) Check(password string) []string {
	var problems []string

	if n := len([]rune(password)); n < p.MinLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}
	maxLen := p.MaxLength
	if maxLen <= 0 || maxLen > maxBcryptPasswordBytes {
		maxLen = maxBcryptPasswordBytes
	}
	if len(password) > maxLen {
		problems = append(problems, fmt.Sprintf("password must be at most %d bytes", maxLen))
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if p.RequireUpper && !upper {
		problems = append(problems, "password must contain an uppercase letter")
	}
	if p.RequireLower && !lower {
		problems = append(problems, "password must contain a lowercase letter")
	}
	if p.RequireDigit && !digit {
		problems = append(problems, "password must contain a digit")
	}
	if p.RequireSymbol && !symbol {
		problems = append(problems, "password must contain a symbol")
	}
	return problems
}
