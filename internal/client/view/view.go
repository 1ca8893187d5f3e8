// Package view derives what the console shows from the directory state.
// Everything here is a pure function of its arguments.
package view

import (
	"strings"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
)

const (
	EmptyMessage         = "No users found."
	EmptyFilteredMessage = "No users found matching your search."
)

// VisibleEntries filters entries by searchText, matched case-insensitively
// against first name, last name and email. A blank search returns entries
// itself. The input is never modified.
func VisibleEntries(entries []models.Entry, searchText string) []models.Entry {
	q := strings.TrimSpace(searchText)
	if q == "" {
		return entries
	}
	q = strings.ToLower(q)

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e models.Entry, lowerQuery string) bool {
	for _, f := range []string{e.FirstName, e.LastName, e.Email} {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

// TotalPages is the page count for n items, never less than 1.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 || n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// Paginate returns the page-th slice (1-based) of visible and the total
// number of pages of the filtered set. A page out of range yields no items.
func Paginate(visible []models.Entry, page, pageSize int) ([]models.Entry, int) {
	total := TotalPages(len(visible), pageSize)
	if pageSize < 1 {
		if page == 1 {
			return visible, total
		}
		return nil, total
	}
	if page < 1 || page > total {
		return nil, total
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(visible))
	return visible[start:end], total
}

// Projection is the view model of the users screen.
type Projection struct {
	Mode       store.DisplayMode
	Items      []models.Entry
	Page       int
	TotalPages int
	// Matched is the size of the filtered set before paging.
	Matched      int
	SearchText   string
	Loading      bool
	ErrorMessage string
	// EmptyMessage is set when there is nothing to show.
	EmptyMessage string
}

// Project builds the Projection of s. In tabular mode the filtered set is
// paged client-side and TotalPages comes from the filtered size, not from
// the server. Card mode shows the whole filtered set.
func Project(s store.DirectoryState, pageSize int) Projection {
	visible := VisibleEntries(s.Entries, s.SearchText)

	p := Projection{
		Mode:         s.DisplayMode,
		Page:         s.ViewPage,
		TotalPages:   1,
		Matched:      len(visible),
		SearchText:   s.SearchText,
		Loading:      s.RequestStatus == store.Pending,
		ErrorMessage: s.ErrorMessage,
	}

	if s.DisplayMode == store.Tabular {
		p.Items, p.TotalPages = Paginate(visible, s.ViewPage, pageSize)
	} else {
		p.Items = visible
	}

	if len(visible) == 0 {
		if strings.TrimSpace(s.SearchText) != "" {
			p.EmptyMessage = EmptyFilteredMessage
		} else {
			p.EmptyMessage = EmptyMessage
		}
	}
	return p
}
