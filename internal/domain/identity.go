package domain

// Identity is the caller established from a verified bearer token.
// It is derived per request and never persisted.
type Identity struct {
	UserID string         `json:"user_id"`
	Claims map[string]any `json:"token_payload"`
}

// NewIdentity derives an Identity from verified claims using the "sub" claim.
// Returns ErrMissingSubject if the claim is absent, empty or not a string.
func NewIdentity(claims map[string]any) (*Identity, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrMissingSubject
	}
	return &Identity{UserID: sub, Claims: claims}, nil
}
