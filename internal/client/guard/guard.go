// Package guard decides whether a console screen may be shown for the
// current session, and where to go after signing in.
package guard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
)

// Screen paths.
const (
	LoginPath = "/login"
	UsersPath = "/users"
)

// EntryPath is the screen of a single entry.
func EntryPath(id int) string {
	return UsersPath + "/" + strconv.Itoa(id)
}

// Decision is the outcome of Evaluate. When Allow is false the caller
// must show Redirect, remembering From for ReturnPath.
type Decision struct {
	Allow    bool
	Redirect string
	From     string
}

// Evaluate gates requestedPath on the session. Only Authenticated passes;
// a login still in flight counts as anonymous.
func Evaluate(s store.SessionState, requestedPath string) Decision {
	if s.Status == store.Authenticated && s.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{Redirect: LoginPath, From: requestedPath}
}

// ReturnPath is where a successful login continues: the recorded path if
// it is a local protected screen, UsersPath otherwise.
func ReturnPath(from string) string {
	next := strings.TrimSpace(from)
	if next == "" {
		return UsersPath
	}
	parsed, err := url.Parse(next)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return UsersPath
	}
	if parsed.Path != UsersPath && !strings.HasPrefix(parsed.Path, UsersPath+"/") {
		return UsersPath
	}
	if parsed.RawQuery != "" {
		return parsed.Path + "?" + parsed.RawQuery
	}
	return parsed.Path
}

// LoginRedirect reports where an already signed-in user who opens the
// login screen should be sent instead.
func LoginRedirect(s store.SessionState, from string) (string, bool) {
	if !Evaluate(s, LoginPath).Allow {
		return "", false
	}
	return ReturnPath(from), true
}
