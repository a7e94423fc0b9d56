// Package validation holds input rules shared by services and handlers.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 15
	MinPasswordLen = 4
	MaxPasswordLen = 20
	MaxTitleLen    = 255
	MaxPostTextLen = 100000
	MaxCommentLen  = 5000
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername checks length and the allowed character set.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen || n > MaxUsernameLen {
		return fmt.Errorf("username must be %d-%d characters", MinUsernameLen, MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, numbers, underscores and hyphens")
	}
	return nil
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen || n > MaxPasswordLen {
		return fmt.Errorf("password must be %d-%d characters", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

// ValidateTitle rejects blank titles and titles over MaxTitleLen characters.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("title too long (max %d characters)", MaxTitleLen)
	}
	return nil
}

// ValidatePostText rejects blank bodies and bodies over MaxPostTextLen characters.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("post text is required")
	}
	if utf8.RuneCountInString(text) > MaxPostTextLen {
		return fmt.Errorf("content too long (max %d characters)", MaxPostTextLen)
	}
	return nil
}

func ValidateCommentBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body is required")
	}
	if utf8.RuneCountInString(body) > MaxCommentLen {
		return fmt.Errorf("comment too long (max %d characters)", MaxCommentLen)
	}
	return nil
}
