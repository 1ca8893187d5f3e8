// Package models defines the directory records exchanged with the remote
// API and the drafts submitted from the console.
package models

// Entry is one directory record. ID is assigned by the server and stays
// stable once created.
type Entry struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar"`
}

// FullName joins first and last name, skipping an empty last name.
func (e Entry) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// Draft is the create/update payload as typed by the user, before the
// server assigns or acknowledges anything. Email and Avatar are optional;
// empty means absent and is omitted on the wire.
type Draft struct {
	Name   string `json:"name"`
	Job    string `json:"job"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// DefaultJob is what the entry form submits as the job title.
const DefaultJob = "Developer"

// DraftFromEntry pre-fills an edit form from an existing record.
func DraftFromEntry(e Entry) Draft {
	return Draft{Name: e.FullName(), Job: DefaultJob, Email: e.Email, Avatar: e.AvatarURL}
}

// Page is one server page of the directory listing.
type Page struct {
	Entries    []Entry `json:"data"`
	Page       int     `json:"page"`
	PerPage    int     `json:"per_page"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}
