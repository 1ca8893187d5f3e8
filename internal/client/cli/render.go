package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/store"
	"github.com/dmitrijs2005/dirkeeper/internal/client/view"
)

const cardsPerRow = 3

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	labelStyle   = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("8"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(34)
)

func renderBanner(msg string) string {
	return errorStyle.Render("✗ " + msg)
}

func renderHints(hints []fieldHint) string {
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		lines = append(lines, hintStyle.Render(fmt.Sprintf("  %s: %s", h.Field, h.Message)))
	}
	return strings.Join(lines, "\n")
}

// renderUsers draws the users screen for p.
func renderUsers(p view.Projection) string {
	var b strings.Builder

	if p.ErrorMessage != "" {
		b.WriteString(renderBanner(p.ErrorMessage) + "\n")
	}

	header := titleStyle.Render("Users")
	if p.SearchText != "" {
		header += mutedStyle.Render(fmt.Sprintf("  matching %q: %d", p.SearchText, p.Matched))
	}
	b.WriteString(header + "\n")

	if p.EmptyMessage != "" {
		b.WriteString(mutedStyle.Render(p.EmptyMessage))
		return b.String()
	}

	switch p.Mode {
	case store.Card:
		b.WriteString(renderCards(p.Items))
	default:
		if len(p.Items) == 0 {
			b.WriteString(mutedStyle.Render("Nothing on this page.") + "\n")
		} else {
			b.WriteString(renderTable(p.Items) + "\n")
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages)))
	}
	return b.String()
}

func renderTable(items []models.Entry) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Email")
	for _, e := range items {
		t.Row(strconv.Itoa(e.ID), e.FullName(), e.Email)
	}
	return t.String()
}

func renderCard(e models.Entry) string {
	return cardStyle.Render(strings.Join([]string{
		titleStyle.Render(e.FullName()),
		e.Email,
		mutedStyle.Render("#" + strconv.Itoa(e.ID)),
	}, "\n"))
}

func renderCards(items []models.Entry) string {
	rows := make([]string, 0, len(items)/cardsPerRow+1)
	for i := 0; i < len(items); i += cardsPerRow {
		end := min(i+cardsPerRow, len(items))
		cards := make([]string, 0, cardsPerRow)
		for _, e := range items[i:end] {
			cards = append(cards, renderCard(e))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderEntry is the detail view of one entry.
func renderEntry(e models.Entry) string {
	return cardStyle.Width(60).Render(strings.Join([]string{
		titleStyle.Render(e.FullName()),
		labelStyle.Render("id") + strconv.Itoa(e.ID),
		labelStyle.Render("email") + e.Email,
		labelStyle.Render("avatar") + e.AvatarURL,
	}, "\n"))
}

func renderStatus(rows [][2]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, labelStyle.Render(r[0])+r[1])
	}
	return strings.Join(lines, "\n")
}
