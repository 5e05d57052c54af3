package auth

import "crypto/subtle"

// Credentials holds the configured admin account.
// The system has a single hardcoded admin; password hashing is deliberately
// out of scope, so the comparison is constant-time over the configured value.
type Credentials struct {
	Username    string
	Password    string
	DisplayName string
}

// Validator checks login attempts against the configured admin account.
type Validator struct {
	creds Credentials
}

// NewValidator creates a credential validator for the configured admin.
func NewValidator(creds Credentials) *Validator {
	if creds.DisplayName == "" {
		creds.DisplayName = "Administrator"
	}
	return &Validator{creds: creds}
}

// Validate checks a username/password pair. Both comparisons run in constant
// time to avoid leaking which of the two fields mismatched.
func (v *Validator) Validate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(v.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.creds.Password)) == 1
	return userOK && passOK
}

// DisplayName returns the configured display name for the admin account.
func (v *Validator) DisplayName() string {
	return v.creds.DisplayName
}
