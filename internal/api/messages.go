package api

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest exchanges a password for a fresh token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// WhoamiRequest carries no body; the token travels in the access_token
// metadata header.
type WhoamiRequest struct{}

type WhoamiResponse struct {
	Username string `json:"username"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
