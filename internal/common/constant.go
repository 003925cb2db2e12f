// Package common contains shared constants, sentinel errors and small helpers
// used across StaffQL components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the access token
// on inbound and outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header value.
const BearerPrefix = "Bearer "
