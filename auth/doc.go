// Package auth issues and verifies the session credentials that gate access
// to the vault and object APIs.
//
// Tokens are HS256 JWTs in an access/refresh pair. The token carries only the
// user id; everything secret stays in the vault layer. Middleware extracts
// the bearer token, verifies it, and places the user id in the request
// context for handlers to consume via FromContext.
package auth
