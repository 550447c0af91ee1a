package errors

import (
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Solution", false},
		{"valid with spaces", "Main Project", false},
		{"valid with pipe", "Sheet|1", false},
		{"valid unicode", "Schaltplan ä", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"semicolon", "a;b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"carriage return", "foo\rbar", true},
		{"tab", "foo\tbar", true},
		{"leading space", " Main", true},
		{"trailing space", "Main ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateTag(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"valid", "K1", "Motor start", false},
		{"empty value", "K1", "", false},
		{"empty key", "", "x", true},
		{"semicolon in value", "K1", "a;b", true},
		{"newline in key", "K\n1", "x", true},
		{"padded value", "K1", "%I0.0 ", true},
		{"padded key", " K1", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTag(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTag(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}
}
