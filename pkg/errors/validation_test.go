package errors

import (
	"strings"
	"testing"
)

func TestValidatePageKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "user_data", false},
		{"valid uuid", "0b6f3c2e-8c1a-4c55-9d0e-0f4c1c9e2a11", false},
		{"valid dotted", "home.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"path traversal", "a..b", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"space", "my page", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePageKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePageKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidKey) {
				t.Errorf("ValidatePageKey(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidKey)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://localhost:3000/", false},
		{"", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateItemName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"Mail", false},
		{"  ", true},
		{"", true},
		{"bad\x01name", true},
	}
	for _, tt := range tests {
		if err := ValidateItemName(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateItemName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
