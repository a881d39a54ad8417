// Package auth checks admin credentials submitted with each admin request.
package auth

import "crypto/subtle"

// Guard decides whether a username/password pair may use admin routes.
type Guard interface {
	Authenticate(username, password string) bool
}

type PlaintextGuard struct {
	username string
	password string
}

func NewPlaintextGuard(username, password string) *PlaintextGuard {
	return &PlaintextGuard{username: username, password: password}
}

// Authenticate is an exact match against the configured pair.
func (g *PlaintextGuard) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	return userOK && passOK
}
