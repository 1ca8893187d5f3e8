// Package common contains wire-level constants shared by the directory
// client and the test double of the remote API.
package common

const (
	// APIKeyHeaderName carries the fixed API key on every outbound request.
	APIKeyHeaderName = "x-api-key"

	// AuthorizationHeaderName carries "Bearer <token>" once a session exists.
	AuthorizationHeaderName = "Authorization"

	BearerPrefix = "Bearer "

	// RequestIDHeaderName tags each call for log correlation.
	RequestIDHeaderName = "X-Request-Id"

	// DefaultAPIKey is the public key of the reqres.in free tier.
	DefaultAPIKey = "reqres-free-v1"
)

// BearerValue formats token for the Authorization header.
func BearerValue(token string) string {
	return BearerPrefix + token
}
