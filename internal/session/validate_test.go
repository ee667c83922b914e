package session

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"main", false},
		{"work-2", false},
		{"scratch_pad", false},
		{"0", false},
		{strings.Repeat("n", MaxNameLength), false},
		{"", true},
		{strings.Repeat("n", MaxNameLength+1), true},
		{"Main", true},
		{"-leading", true},
		{"_leading", true},
		{"two words", true},
		{"../escape", true},
		{"a.b", true},
		{"ümlaut", true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) error %v does not wrap ErrInvalidName", tt.input, err)
		}
	}
}
