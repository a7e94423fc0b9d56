package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "marco_polo", false},
		{"With Dash", "ibn-battuta", false},
		{"Exactly Min Length", "abc", false},
		{"Exactly Max Length", strings.Repeat("a", 15), false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 16), true},
		{"Illegal Chars", "user@123", true},
		{"Spaces", "two words", true},
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
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "secret", false},
		{"Exactly Min Length", "abcd", false},
		{"Exactly Max Length", strings.Repeat("p", 20), false},
		{"Too Short", "abc", true},
		{"Too Long", strings.Repeat("p", 21), true},
		{"Unicode Counts Runes", "ÅÅÅÅ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePostFields(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateTitle("Lisbon"))
	assert.Error(t, ValidateTitle("   "))
	assert.Error(t, ValidateTitle(strings.Repeat("t", MaxTitleLen+1)))

	assert.NoError(t, ValidatePostText("<p>tiles</p>"))
	assert.Error(t, ValidatePostText(""))
	assert.EqualError(t, ValidatePostText(strings.Repeat("x", MaxPostTextLen+1)), "content too long (max 100000 characters)")

	assert.NoError(t, ValidateCommentBody("great trip"))
	assert.Error(t, ValidateCommentBody("\n"))
}
