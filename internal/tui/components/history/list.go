package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rbarros/gemsuite/internal/conversation"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// List displays saved conversations with navigation, searching, and a
// favorites filter.
type List struct {
	svc           *conversation.Service
	conversations []*conversation.Conversation

	cursor        int
	offset        int
	searchText    string
	favoritesOnly bool

	width  int
	height int
}

// NewList creates a conversation list backed by the service.
func NewList(svc *conversation.Service) *List {
	return &List{svc: svc}
}

// Refresh reloads the list applying the current search and filter.
func (l *List) Refresh() {
	ctx := context.Background()

	var (
		convs []*conversation.Conversation
		err   error
	)
	switch {
	case l.searchText != "":
		convs, err = l.svc.Search(ctx, l.searchText)
	case l.favoritesOnly:
		convs, err = l.svc.Favorites(ctx)
	default:
		convs, err = l.svc.List(ctx)
	}
	if err != nil {
		debug.Error("history", "loading conversations", err)
		l.conversations = nil
		return
	}
	l.conversations = convs

	if l.cursor >= len(l.conversations) {
		l.cursor = max(0, len(l.conversations)-1)
	}
}

// Search filters the list by keyword.
func (l *List) Search(keyword string) {
	l.searchText = keyword
	l.cursor = 0
	l.offset = 0
	l.Refresh()
}

// ToggleFavoritesFilter flips the favorites-only filter.
func (l *List) ToggleFavoritesFilter() {
	l.favoritesOnly = !l.favoritesOnly
	l.cursor = 0
	l.offset = 0
	l.Refresh()
}

// FavoritesOnly reports whether the favorites filter is active.
func (l *List) FavoritesOnly() bool {
	return l.favoritesOnly
}

// SetSize sets the list dimensions.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Selected returns the conversation under the cursor.
func (l *List) Selected() *conversation.Conversation {
	if l.cursor >= 0 && l.cursor < len(l.conversations) {
		return l.conversations[l.cursor]
	}
	return nil
}

// Count returns the number of listed conversations.
func (l *List) Count() int {
	return len(l.conversations)
}

// Update handles navigation keys.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
			l.ensureVisible()
		}
	case "down", "j":
		if l.cursor < len(l.conversations)-1 {
			l.cursor++
			l.ensureVisible()
		}
	case "home", "g":
		l.cursor = 0
		l.offset = 0
	case "end", "G":
		l.cursor = max(0, len(l.conversations)-1)
		l.ensureVisible()
	case "enter":
		if selected := l.Selected(); selected != nil {
			return l, util.CmdHandler(SelectedMsg{ConversationID: selected.ID})
		}
	case "n":
		return l, util.CmdHandler(NewConversationMsg{})
	case "f":
		if selected := l.Selected(); selected != nil {
			if err := l.svc.ToggleFavorite(context.Background(), selected.ID); err != nil {
				debug.Error("history", "toggling favorite", err)
			}
			l.Refresh()
		}
	case "d":
		if selected := l.Selected(); selected != nil {
			id := selected.ID
			if err := l.svc.Delete(context.Background(), id); err != nil {
				debug.Error("history", "deleting conversation", err)
				return l, nil
			}
			l.Refresh()
			return l, util.CmdHandler(DeletedMsg{ConversationID: id})
		}
	}

	return l, nil
}

func (l *List) ensureVisible() {
	visibleRows := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	} else if l.cursor >= l.offset+visibleRows {
		l.offset = l.cursor - visibleRows + 1
	}
}

func (l *List) visibleRows() int {
	// Each conversation takes 3 lines: title, preview, spacing.
	return max(1, (l.height-2)/3)
}

// View renders the list.
func (l *List) View() string {
	t := styles.CurrentTheme()

	if len(l.conversations) == 0 {
		emptyStyle := t.S().Muted.
			Width(l.width).
			Align(lipgloss.Center).
			Padding(2, 0)
		switch {
		case l.searchText != "":
			return emptyStyle.Render("No conversations match your search.")
		case l.favoritesOnly:
			return emptyStyle.Render("No favorites yet. Press [f] on a conversation to mark one.")
		default:
			return emptyStyle.Render("No conversations yet.")
		}
	}

	var rows []string
	visibleRows := l.visibleRows()
	endIdx := min(l.offset+visibleRows, len(l.conversations))

	for i := l.offset; i < endIdx; i++ {
		rows = append(rows, l.renderConversation(l.conversations[i], i == l.cursor))
	}

	content := strings.Join(rows, "\n\n")

	if l.offset > 0 {
		content = t.S().Muted.Render(fmt.Sprintf("  ↑ %d more above", l.offset)) + "\n" + content
	}
	if remaining := len(l.conversations) - endIdx; remaining > 0 {
		content = content + "\n" + t.S().Muted.Render(fmt.Sprintf("  ↓ %d more below", remaining))
	}

	return content
}

func (l *List) renderConversation(conv *conversation.Conversation, selected bool) string {
	t := styles.CurrentTheme()

	title := conv.Title
	if title == "" {
		title = "Untitled"
	}
	if conv.IsFavorite {
		title = "★ " + title
	}
	title = ansi.Truncate(title, max(10, l.width-24), "...")

	meta := fmt.Sprintf("%d msgs · %s", len(conv.Messages), formatRelativeTime(conv.UpdatedAt))

	preview := ""
	if len(conv.Messages) > 0 {
		preview = conv.Messages[0].TextContent()
	}
	if preview == "" {
		preview = "(no text)"
	}
	preview = strings.ReplaceAll(preview, "\n", " ")
	preview = ansi.Truncate(preview, max(10, l.width-6), "...")

	var sb strings.Builder
	if selected {
		sb.WriteString(t.S().Primary.Bold(true).Render(styles.Selected + " " + title))
		sb.WriteString("  ")
		sb.WriteString(t.S().Muted.Render(meta))
		sb.WriteString("\n")
		sb.WriteString(t.S().Text.Render("  " + preview))
	} else {
		sb.WriteString(t.S().Text.Render("  " + title))
		sb.WriteString("  ")
		sb.WriteString(t.S().Muted.Render(meta))
		sb.WriteString("\n")
		sb.WriteString(t.S().Muted.Render("  " + preview))
	}

	return sb.String()
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
