package cli

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
)

// entryForm is the create/edit form.
type entryForm struct {
	FirstName string
	LastName  string
	Email     string
	Avatar    string
}

var formEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minNameLen = 2

func formFromEntry(e models.Entry) entryForm {
	return entryForm{FirstName: e.FirstName, LastName: e.LastName, Email: e.Email, Avatar: e.AvatarURL}
}

// draft is what the form submits: the joined name, the fixed job title,
// email and avatar as typed.
func (f entryForm) draft() models.Draft {
	name := strings.TrimSpace(strings.TrimSpace(f.FirstName) + " " + strings.TrimSpace(f.LastName))
	return models.Draft{
		Name:   name,
		Job:    models.DefaultJob,
		Email:  strings.TrimSpace(f.Email),
		Avatar: strings.TrimSpace(f.Avatar),
	}
}

func validateFirstName(s string) string {
	return validateName(s, "First name")
}

func validateLastName(s string) string {
	return validateName(s, "Last name")
}

func validateName(s, label string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return label + " is required"
	}
	if len([]rune(s)) < minNameLen {
		return label + " must be at least 2 characters"
	}
	return ""
}

func validateEmail(s string) string {
	if s == "" {
		return "Email is required"
	}
	if !formEmailPattern.MatchString(s) {
		return "Please enter a valid email address"
	}
	return ""
}

func validateAvatar(s string) string {
	if s == "" {
		return "Profile image URL is required"
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Please enter a valid URL starting with http:// or https://"
	}
	return ""
}

// validate returns one hint per invalid field, in form order.
func (f entryForm) validate() []fieldHint {
	checks := []struct {
		field string
		msg   string
	}{
		{"first name", validateFirstName(f.FirstName)},
		{"last name", validateLastName(f.LastName)},
		{"email", validateEmail(f.Email)},
		{"avatar", validateAvatar(f.Avatar)},
	}
	var hints []fieldHint
	for _, c := range checks {
		if c.msg != "" {
			hints = append(hints, fieldHint{c.field, c.msg})
		}
	}
	return hints
}

// promptForm fills the form field by field. Defaults come from initial; an
// empty answer keeps the default.
func (a *App) promptForm(initial entryForm) (entryForm, error) {
	f := initial
	fields := []struct {
		label string
		dst   *string
	}{
		{"First name", &f.FirstName},
		{"Last name", &f.LastName},
		{"Email", &f.Email},
		{"Profile image URL", &f.Avatar},
	}
	for _, fld := range fields {
		v, err := GetTextWithDefault(a.reader, fld.label, *fld.dst, a.out)
		if err != nil {
			return entryForm{}, err
		}
		*fld.dst = v
	}
	if hints := f.validate(); len(hints) > 0 {
		a.println(renderHints(hints))
		return entryForm{}, errInvalidInput
	}
	return f, nil
}
