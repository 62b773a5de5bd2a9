package security

import (
	"fmt"
	"unicode"

	"github.com/pratty2304/MedConnect/internal/config"
)

// PasswordPolicy validates candidate passwords against a set of
// independently toggleable rules. Rules are checked in a fixed order
// and the first violation is the one reported.
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// PasswordPolicyError reports which rule a password violated.
type PasswordPolicyError struct {
	Message string
}

func (e *PasswordPolicyError) Error() string {
	return e.Message
}

// DefaultPasswordPolicy mirrors the clinic's baseline requirements.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
	}
}

// NewPasswordPolicy builds a policy from the security config section.
func NewPasswordPolicy(cfg config.SecurityConfig) PasswordPolicy {
	policy := PasswordPolicy{
		MinLength:      cfg.PasswordMinLength,
		RequireUpper:   cfg.PasswordRequireUpper,
		RequireLower:   cfg.PasswordRequireLower,
		RequireDigit:   cfg.PasswordRequireDigit,
		RequireSpecial: cfg.PasswordRequireSpecial,
	}
	if policy.MinLength <= 0 {
		policy.MinLength = 8
	}
	return policy
}

// Validate returns nil for an acceptable password, or a
// *PasswordPolicyError naming the first violated rule.
func (p PasswordPolicy) Validate(password string) error {
	runes := []rune(password)

	if len(runes) < p.MinLength {
		return &PasswordPolicyError{
			Message: fmt.Sprintf("Password must be at least %d characters long", p.MinLength),
		}
	}

	if p.RequireUpper && !containsFunc(runes, unicode.IsUpper) {
		return &PasswordPolicyError{Message: "Password must contain at least one uppercase letter"}
	}

	if p.RequireLower && !containsFunc(runes, unicode.IsLower) {
		return &PasswordPolicyError{Message: "Password must contain at least one lowercase letter"}
	}

	if p.RequireDigit && !containsFunc(runes, unicode.IsDigit) {
		return &PasswordPolicyError{Message: "Password must contain at least one digit"}
	}

	if p.RequireSpecial {
		special := func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}
		if !containsFunc(runes, special) {
			return &PasswordPolicyError{Message: "Password must contain at least one special character"}
		}
	}

	return nil
}

func containsFunc(runes []rune, match func(rune) bool) bool {
	for _, r := range runes {
		if match(r) {
			return true
		}
	}
	return false
}
