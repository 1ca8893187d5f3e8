package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlaceholderAvatarBase is the image service used when a draft carries no
// avatar; the first-name initial is appended as the text parameter.
const PlaceholderAvatarBase = "https://via.placeholder.com/150?text="

// DefaultEmailDomain completes synthesized addresses.
const DefaultEmailDomain = "example.com"

// SynthesizeEntry rebuilds a displayable Entry for a create or update the
// remote API acknowledged without echoing the record back.
//
// The name is split at its first whitespace: the first token is the first
// name, the rest is the last name ("" when there is none). Missing email
// becomes the lower-cased name with whitespace runs replaced by dots at
// DefaultEmailDomain. Missing avatar becomes a placeholder keyed by the
// first-name initial.
func SynthesizeEntry(id int, d Draft) Entry {
	first, last := SplitName(d.Name)

	email := strings.TrimSpace(d.Email)
	if email == "" {
		email = DefaultEmail(d.Name)
	}

	avatar := strings.TrimSpace(d.Avatar)
	if avatar == "" {
		avatar = PlaceholderAvatar(first)
	}

	return Entry{ID: id, Email: email, FirstName: first, LastName: last, AvatarURL: avatar}
}

// SplitName returns the first token of name and the trimmed remainder.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	i := strings.IndexFunc(name, unicode.IsSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

// DefaultEmail derives "first.last@example.com" from a display name.
func DefaultEmail(name string) string {
	local := strings.Join(strings.Fields(strings.ToLower(name)), ".")
	return local + "@" + DefaultEmailDomain
}

// PlaceholderAvatar returns the placeholder image URL for a first name.
func PlaceholderAvatar(firstName string) string {
	r, _ := utf8.DecodeRuneInString(firstName)
	if r == utf8.RuneError {
		return PlaceholderAvatarBase
	}
	return PlaceholderAvatarBase + string(r)
}
