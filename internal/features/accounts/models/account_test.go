package accounts_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_IsPlaceholderEmail_MatchesExternalPlaceholderDomainsOnly(t *testing.T) {
	assert.True(t, IsPlaceholderEmail(PlaceholderEmail("Alice", "gitea")))
	assert.True(t, IsPlaceholderEmail(" bob@Forgejo.User "))

	assert.False(t, IsPlaceholderEmail("alice@example.com"))
	assert.False(t, IsPlaceholderEmail("alice@users.example.com"))
	assert.False(t, IsPlaceholderEmail("alice.user"))
}

func Test_PlaceholderEmail_IsNormalized(t *testing.T) {
	assert.Equal(t, "alice@gitea.user", PlaceholderEmail(" Alice", "Gitea"))
}
