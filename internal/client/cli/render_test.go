package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/client/view"
)

func TestRenderUsers(t *testing.T) {
	entries := []models.Entry{
		{ID: 1, FirstName: "George", LastName: "Bluth", Email: "george.bluth@reqres.in"},
		{ID: 2, FirstName: "Janet", LastName: "Weaver", Email: "janet.weaver@reqres.in"},
	}

	t.Run("table", func(t *testing.T) {
		out := renderUsers(view.Projection{Mode: store.Tabular, Items: entries, Page: 1, TotalPages: 1, Matched: 2})
		assert.Contains(t, out, "George Bluth")
		assert.Contains(t, out, "janet.weaver@reqres.in")
		assert.Contains(t, out, "Page 1 of 1")
	})

	t.Run("cards", func(t *testing.T) {
		out := renderUsers(view.Projection{Mode: store.Card, Items: entries, Matched: 2})
		assert.Contains(t, out, "Janet Weaver")
		assert.Contains(t, out, "#2")
		assert.NotContains(t, out, "Page ")
	})

	t.Run("empty with banner", func(t *testing.T) {
		out := renderUsers(view.Projection{EmptyMessage: view.EmptyMessage, ErrorMessage: "Failed to fetch users"})
		assert.Contains(t, out, "Failed to fetch users")
		assert.Contains(t, out, view.EmptyMessage)
	})

	t.Run("page past the end", func(t *testing.T) {
		out := renderUsers(view.Projection{Mode: store.Tabular, Page: 4, TotalPages: 1, Matched: 2})
		assert.Contains(t, out, "Nothing on this page.")
	})
}

func TestRenderEntry(t *testing.T) {
	out := renderEntry(models.Entry{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", AvatarURL: "https://x.test/a.png"})
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "ada@example.com")
}
