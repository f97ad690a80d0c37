package userprov

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "dev1", false},
		{"underscore start", "_svc", false},
		{"with hyphen", "build-agent", false},
		{"max length", strings.Repeat("a", 32), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 33), true},
		{"uppercase", "Dev1", true},
		{"space", "dev one", true},
		{"digit start", "1dev", true},
		{"hyphen start", "-dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("seven77"))
	assert.NoError(t, ValidatePassword("longenough1"))
}

func TestValidatePasswordConfirmation(t *testing.T) {
	assert.NoError(t, ValidatePasswordConfirmation("longenough1", "longenough1"))
	assert.ErrorIs(t, ValidatePasswordConfirmation("longenough1", "different22"), ErrPasswordMismatch)
}

func TestUserSpecWipe(t *testing.T) {
	spec := UserSpec{Username: "dev1", Password: "longenough1"}
	spec.Wipe()
	assert.Empty(t, spec.Password)
}
