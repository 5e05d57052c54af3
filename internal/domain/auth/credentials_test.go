package auth

import "testing"

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v := NewValidator(Credentials{
		Username: "admin",
		Password: "s3cret",
	})

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"valid", "admin", "s3cret", true},
		{"wrong password", "admin", "wrong", false},
		{"wrong username", "root", "s3cret", false},
		{"both wrong", "root", "wrong", false},
		{"empty", "", "", false},
		{"case sensitive username", "Admin", "s3cret", false},
		{"case sensitive password", "admin", "S3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := v.Validate(tt.username, tt.password); got != tt.want {
				t.Errorf("Validate(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestValidator_DisplayNameDefault(t *testing.T) {
	t.Parallel()

	v := NewValidator(Credentials{Username: "admin", Password: "pw"})
	if got := v.DisplayName(); got != "Administrator" {
		t.Errorf("DisplayName() = %q, want %q", got, "Administrator")
	}

	v = NewValidator(Credentials{Username: "admin", Password: "pw", DisplayName: "Custodian"})
	if got := v.DisplayName(); got != "Custodian" {
		t.Errorf("DisplayName() = %q, want %q", got, "Custodian")
	}
}
