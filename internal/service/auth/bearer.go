package auth

import "strings"

// BearerScheme is the Authorization scheme accepted by the guard and
// advertised in WWW-Authenticate challenges.
const BearerScheme = "Bearer"

// ParseBearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func ParseBearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingToken
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", ErrMalformedHeader
	}

	return parts[1], nil
}
