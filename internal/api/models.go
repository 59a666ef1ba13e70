package api

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"  validate:"required,max=64"`
	Email    string `json:"email"`
	Password string `json:"password"  validate:"max=72"`
	FullName string `json:"full_name" validate:"max=128"`
}

// LoginRequest defines the payload for the user login endpoint. It is filled
// from an OAuth2 password form or from a JSON body.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

// TokenType is the token_type value of every token response.
const TokenType = "bearer"

// TokenResponse defines the successful response for authentication endpoints.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileResponse is the public view of a user record.
type ProfileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// GreetingResponse is returned by the root endpoint. UserID is set when the
// caller presented a valid token.
type GreetingResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// ItemResponse echoes the path and query parameters of the item endpoint.
type ItemResponse struct {
	ItemID int64   `json:"item_id"`
	Q      *string `json:"q"`
}

// AdminStatsResponse is returned by the admin endpoint.
type AdminStatsResponse struct {
	UserCount int `json:"user_count"`
}
