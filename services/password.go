package services

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

// commonPasswords is a short list of passwords rejected outright.
var commonPasswords = map[string]bool{
	"password": true, "password1": true, "password123": true, "12345678": true,
	"123456789": true, "1234567890": true, "qwerty123": true, "qwertyuiop": true,
	"iloveyou": true, "sunshine": true, "princess": true, "football": true,
	"baseball": true, "welcome1": true, "admin123": true, "letmein1": true,
	"abc12345": true, "11111111": true, "00000000": true, "passw0rd": true,
	"trustno1": true, "superman": true, "dragon123": true, "monkey123": true,
}

// checkPassword returns every strength problem with password.
func checkPassword(password, username, email string) []string {
	var problems []string

	if len(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if tooSimilar(password, username) || tooSimilar(password, localPart(email)) {
		problems = append(problems, "The password is too similar to the username or email.")
	}
	return problems
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// tooSimilar flags passwords that contain the attribute or are contained by it.
func tooSimilar(password, attr string) bool {
	if len(attr) < 3 {
		return false
	}
	p, a := strings.ToLower(password), strings.ToLower(attr)
	return strings.Contains(p, a) || strings.Contains(a, p)
}
