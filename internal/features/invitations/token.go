package invitations

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	tokenBytes       = 32
	tokenPrefixChars = 8
)

type invitationToken struct {
	Raw    string
	Hash   string
	Prefix string
}

func generateToken() (*invitationToken, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)

	return &invitationToken{
		Raw:    raw,
		Hash:   hashToken(raw),
		Prefix: raw[:tokenPrefixChars],
	}, nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
