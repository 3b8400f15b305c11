package identity

import (
	"context"

	identity_providers "zidotask/internal/features/identity/providers"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

type AuditLogWriter interface {
	WriteAuditLog(message string, accountID, teamID, projectID *uuid.UUID)
}

// OAuthProvider is an authorization code flow client for one provider.
type OAuthProvider interface {
	Name() string
	AuthorizationURL(redirectURI, state string) string
	ExchangeCodeForToken(
		ctx context.Context,
		code string,
		redirectURI string,
	) (*oauth2.Token, *identity_providers.Profile, error)
}
