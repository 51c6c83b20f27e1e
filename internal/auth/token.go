package auth

import (
	"strings"

	"github.com/google/uuid"
)

// SessionTokenLength is the length of every token minted by NewSessionToken.
const SessionTokenLength = 32

// NewSessionToken mints an opaque, unguessable session token.
//
// The token is a random (version 4) UUID in hex without dashes: 122 random
// bits in exactly 32 characters. It carries no claims; the registry maps it
// to a user id.
func NewSessionToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// header value. It returns false if the header is not a bearer credential.
func ParseBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
