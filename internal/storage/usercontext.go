package storage

import "strings"

// UserContext identifies whose namespace a Store reads and writes.
type UserContext struct {
	UserID string
}

// Anonymous is the shared namespace used when nobody is signed in.
var Anonymous = UserContext{}

func NewUserContext(userID string) UserContext {
	return UserContext{UserID: strings.TrimSpace(userID)}
}

func (u UserContext) Authenticated() bool {
	return u.UserID != ""
}

func (u UserContext) String() string {
	if !u.Authenticated() {
		return "anonymous"
	}
	return u.UserID
}

// namespacedKey suffixes base with the user id, or returns it unchanged for
// the anonymous namespace.
func (u UserContext) namespacedKey(base string) string {
	if !u.Authenticated() {
		return base
	}
	return base + "_" + u.UserID
}
