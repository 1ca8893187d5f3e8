package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/dirkeeper/internal/client/client"
	"github.com/dmitrijs2005/dirkeeper/internal/client/guard"
	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/client/view"
)

// usageError is printed by the REPL as "Usage: ...".
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func listPath(page int) string {
	if page <= 1 {
		return guard.UsersPath
	}
	return guard.UsersPath + "?page=" + strconv.Itoa(page)
}

// enter passes path through the guard. An anonymous user is asked to sign
// in first; enter reports whether the screen may now be shown.
func (a *App) enter(ctx context.Context, path string) bool {
	d := guard.Evaluate(a.sessions.State(), path)
	if d.Allow {
		a.setScreen(path)
		return true
	}

	a.println("Please sign in to continue.")
	a.setReturnTo(d.From)
	a.setScreen(d.Redirect)
	if err := a.authenticate(ctx); err != nil {
		return false
	}

	target := guard.ReturnPath(a.takeReturnTo())
	a.setScreen(target)
	return guard.Evaluate(a.sessions.State(), target).Allow
}

// open shows the screen at path.
func (a *App) open(ctx context.Context, path string) error {
	if !a.enter(ctx, path) {
		return errNotSignedIn
	}

	u, err := url.Parse(path)
	if err != nil {
		return err
	}
	if rest, ok := strings.CutPrefix(u.Path, guard.UsersPath+"/"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil {
			return usageError("show ID")
		}
		return a.showEntry(id)
	}

	page, _ := strconv.Atoi(u.Query().Get("page"))
	return a.fetchAndRender(ctx, max(page, 1))
}

func (a *App) fetchAndRender(ctx context.Context, page int) error {
	err := a.directory.Fetch(ctx, page)
	if errors.Is(err, client.ErrAuth) {
		return err
	}
	a.render()
	return err
}

func (a *App) render() {
	a.println(renderUsers(view.Project(a.directory.State(), a.config.PageSize)))
}

func (a *App) findEntry(id int) (models.Entry, bool) {
	for _, e := range a.directory.State().Entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.Entry{}, false
}

func parseID(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return 0, usageError(usage)
	}
	return id, nil
}

// List fetches a server page, the current one when none is given.
func (a *App) List(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return usageError("list [page]")
		}
		page = n
	}
	if !a.enter(ctx, listPath(page)) {
		return errNotSignedIn
	}
	return a.fetchAndRender(ctx, page)
}

// Refresh refetches the current page.
func (a *App) Refresh(ctx context.Context) error {
	page := a.directory.State().CurrentPage
	if !a.enter(ctx, listPath(page)) {
		return errNotSignedIn
	}
	return a.fetchAndRender(ctx, page)
}

// Search filters the loaded entries; no arguments clears the filter.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.enter(ctx, guard.UsersPath) {
		return errNotSignedIn
	}
	a.directory.SetSearchText(strings.Join(args, " "))
	a.directory.SetPage(1)
	a.render()
	return nil
}

func (a *App) Mode(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("mode table|card")
	}
	m, ok := store.ParseDisplayMode(args[0])
	if !ok {
		return usageError("mode table|card")
	}
	if !a.enter(ctx, guard.UsersPath) {
		return errNotSignedIn
	}
	a.directory.SetDisplayMode(m)
	a.render()
	return nil
}

// Page moves through the filtered table without refetching.
func (a *App) Page(ctx context.Context, args []string) error {
	n, err := parseID(args, "page N")
	if err != nil {
		return err
	}
	if !a.enter(ctx, guard.UsersPath) {
		return errNotSignedIn
	}
	a.directory.SetPage(n)
	a.render()
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show ID")
	if err != nil {
		return err
	}
	return a.open(ctx, guard.EntryPath(id))
}

func (a *App) showEntry(id int) error {
	e, ok := a.findEntry(id)
	if !ok {
		a.println(mutedStyle.Render(fmt.Sprintf("No user #%d in the loaded list.", id)))
		return nil
	}
	a.println(renderEntry(e))
	return nil
}

func (a *App) Create(ctx context.Context) error {
	if !a.enter(ctx, guard.UsersPath) {
		return errNotSignedIn
	}
	a.println(titleStyle.Render("Create New User"))
	f, err := a.promptForm(entryForm{})
	if err != nil {
		return err
	}

	e, err := a.directory.Create(ctx, f.draft())
	if err != nil {
		a.println(renderBanner(a.directory.State().ErrorMessage))
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Created user #%d.", e.ID)))
	a.render()
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit ID")
	if err != nil {
		return err
	}
	if !a.enter(ctx, guard.EntryPath(id)) {
		return errNotSignedIn
	}
	current, ok := a.findEntry(id)
	if !ok {
		return a.showEntry(id)
	}

	a.println(titleStyle.Render("Edit User"))
	f, err := a.promptForm(formFromEntry(current))
	if err != nil {
		return err
	}

	e, err := a.directory.Update(ctx, id, f.draft())
	if err != nil {
		a.println(renderBanner(a.directory.State().ErrorMessage))
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Updated user #%d.", id)))
	a.println(renderEntry(e))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete ID")
	if err != nil {
		return err
	}
	if !a.enter(ctx, guard.UsersPath) {
		return errNotSignedIn
	}

	label := fmt.Sprintf("user #%d", id)
	if e, ok := a.findEntry(id); ok {
		label = e.FullName()
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %s?", label), a.out)
	if err != nil || !ok {
		return err
	}

	if err := a.directory.Delete(ctx, id); err != nil {
		a.println(renderBanner(a.directory.State().ErrorMessage))
		return err
	}
	a.println(successStyle.Render(fmt.Sprintf("Deleted %s.", label)))
	return nil
}

// Status prints the session and directory state.
func (a *App) Status(ctx context.Context) error {
	ss := a.sessions.State()
	ds := a.directory.State()
	p := view.Project(ds, a.config.PageSize)

	a.println(renderStatus([][2]string{
		{"session", ss.Status.String()},
		{"screen", a.currentScreen()},
		{"entries", strconv.Itoa(len(ds.Entries))},
		{"server page", fmt.Sprintf("%d of %d", ds.CurrentPage, ds.TotalPages)},
		{"table page", fmt.Sprintf("%d of %d", p.Page, p.TotalPages)},
		{"mode", ds.DisplayMode.String()},
		{"search", ds.SearchText},
		{"request", ds.RequestStatus.String()},
	}))
	if ss.ErrorMessage != "" {
		a.println(renderBanner(ss.ErrorMessage))
	}
	if ds.ErrorMessage != "" {
		a.println(renderBanner(ds.ErrorMessage))
	}
	return nil
}
