package cli

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/dirkeeper/internal/client/client"
	"github.com/dmitrijs2005/dirkeeper/internal/client/guard"
	"github.com/dmitrijs2005/dirkeeper/internal/client/services"
)

var (
	errInvalidInput = errors.New("invalid input")
	errNotSignedIn  = errors.New("not signed in")
)

// fieldHint is an inline message attached to one form field.
type fieldHint struct {
	Field   string
	Message string
}

var loginEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

const minPasswordLen = 6

// validateCredentials checks the login form before anything is sent.
func validateCredentials(email, password string) []fieldHint {
	var hints []fieldHint
	switch {
	case email == "":
		hints = append(hints, fieldHint{"email", "Email is required"})
	case !loginEmailPattern.MatchString(email):
		hints = append(hints, fieldHint{"email", "Please enter a valid email address"})
	}
	switch {
	case password == "":
		hints = append(hints, fieldHint{"password", "Password is required"})
	case len(password) < minPasswordLen:
		hints = append(hints, fieldHint{"password", "Password must be at least 6 characters"})
	}
	return hints
}

// loginHints maps a login failure message onto the field it concerns.
// Unrecognized messages mark both fields.
func loginHints(msg string) []fieldHint {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "user not found"), strings.Contains(m, "invalid email"):
		return []fieldHint{{"email", "Invalid email address"}}
	case strings.Contains(m, "missing password"), strings.Contains(m, "invalid password"), strings.Contains(m, "wrong password"):
		return []fieldHint{{"password", "Invalid password"}}
	default:
		return []fieldHint{{"email", "Invalid credentials"}, {"password", "Invalid credentials"}}
	}
}

// Login prompts for credentials and, on success, continues to the screen
// that sent the user here (the users list by default). An already
// signed-in user skips the prompt.
func (a *App) Login(ctx context.Context) error {
	if to, ok := guard.LoginRedirect(a.sessions.State(), a.peekReturnTo()); ok {
		a.takeReturnTo()
		a.println("Already signed in.")
		return a.open(ctx, to)
	}

	a.setScreen(guard.LoginPath)
	if err := a.authenticate(ctx); err != nil {
		return err
	}
	return a.open(ctx, guard.ReturnPath(a.takeReturnTo()))
}

// Logout drops the session locally.
func (a *App) Logout(ctx context.Context) error {
	err := a.sessions.Logout(ctx)
	a.setScreen(guard.LoginPath)
	if err != nil {
		a.println(renderBanner("Signed out, but the saved session could not be removed"))
		return err
	}
	a.println("Signed out.")
	return nil
}

// authenticate runs the login form once.
func (a *App) authenticate(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	if hints := validateCredentials(email, password); len(hints) > 0 {
		a.println(renderHints(hints))
		return errInvalidInput
	}

	if err := a.sessions.Login(ctx, email, password); err != nil {
		msg := client.MessageOr(err, services.DefaultLoginMessage)
		a.println(renderBanner(msg))
		a.println(renderHints(loginHints(msg)))
		return err
	}

	a.println(successStyle.Render("Signed in."))
	return nil
}
