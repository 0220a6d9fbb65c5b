package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsBlockedWord(t *testing.T) {
	word, ok := containsBlockedWord("This is SPAM content")
	assert.True(t, ok)
	assert.Equal(t, "spam", word)

	_, ok = containsBlockedWord("A perfectly fine sentence")
	assert.False(t, ok)
}

func TestContainsHTML(t *testing.T) {
	assert.True(t, containsHTML("<b>bold</b> title"))
	assert.True(t, containsHTML("Hello <script>alert(1)</script>"))
	assert.True(t, containsHTML("before <!-- note --> after"))
	assert.False(t, containsHTML("1 < 2 and 3 > 2"))
	assert.False(t, containsHTML("plain title"))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "Web"}, normalizeTags([]string{" go ", "", "Web", "GO", "web"}))
	assert.Empty(t, normalizeTags(nil))
}

func TestCheckPassword(t *testing.T) {
	assert.Empty(t, checkPassword("Str0ng-Passphrase", "alice", "alice@example.com"))
	assert.Contains(t, checkPassword("short", "alice", "a@example.com"), "This password is too short. It must contain at least 8 characters.")
	assert.Contains(t, checkPassword("12345678", "alice", "a@example.com"), "This password is entirely numeric.")
	assert.Contains(t, checkPassword("password", "alice", "a@example.com"), "This password is too common.")
	assert.Contains(t, checkPassword("alice2024!", "alice", "a@example.com"), "The password is too similar to the username or email.")
}
