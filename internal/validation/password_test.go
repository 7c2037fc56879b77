package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"seed default", "Meetup-Seed-Passw0rd!", ""},
		{"dash is a special character", "Meetup-night2030", ""},
		{"exactly twelve", "Meetup-2030x", ""},
		{"exactly max length", "M" + strings.Repeat("e", 125) + "1!", ""},
		{"one over max length", "M" + strings.Repeat("e", 126) + "1!", "must not exceed 128 characters"},
		// Length is measured in bytes, so a two-byte rune spends two.
		{"multibyte at max length", "Å" + strings.Repeat("e", 124) + "1!", ""},
		{"multibyte over max length", "Å" + strings.Repeat("e", 125) + "1!", "must not exceed 128 characters"},
		{"too short", "Meetup1!", "at least 12 characters"},
		{"no upper", "meetup-night-2030", "uppercase"},
		{"no lower", "MEETUP-NIGHT-2030", "lowercase"},
		{"no digit", "Meetup-Night-Out", "digit"},
		{"space is not special", "Meetup Night 2030", "special character"},
		{"no special", "MeetupNight2030", "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
