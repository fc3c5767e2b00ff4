// Package tui provides the terminal user interface for gemsuite.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/rbarros/gemsuite/internal/bridge"
	"github.com/rbarros/gemsuite/internal/config"
	"github.com/rbarros/gemsuite/internal/debug"
	"github.com/rbarros/gemsuite/internal/events"
	"github.com/rbarros/gemsuite/internal/orchestrator"
	"github.com/rbarros/gemsuite/internal/pubsub"
	"github.com/rbarros/gemsuite/internal/tui/components/history"
	"github.com/rbarros/gemsuite/internal/tui/components/imageview"
	"github.com/rbarros/gemsuite/internal/tui/components/themepicker"
	"github.com/rbarros/gemsuite/internal/tui/page"
	"github.com/rbarros/gemsuite/internal/tui/page/chat"
	"github.com/rbarros/gemsuite/internal/tui/page/edit"
	"github.com/rbarros/gemsuite/internal/tui/page/generate"
	"github.com/rbarros/gemsuite/internal/tui/styles"
	"github.com/rbarros/gemsuite/internal/tui/util"
)

// overlay identifies the modal drawn over the current page.
type overlay int

const (
	overlayNone overlay = iota
	overlayHistory
	overlayViewer
	overlayTheme
)

// Model is the root TUI model.
type Model struct {
	cfg *config.Config
	orc *orchestrator.Orchestrator

	chatPage     *chat.Model
	generatePage *generate.Model
	editPage     *edit.Model
	currentPage  page.ID

	historyModal *history.Modal
	themePicker  *themepicker.Model
	viewer       *imageview.Model
	overlay      overlay

	statusMsg string
	width     int
	height    int
	ready     bool
}

// New creates the root model.
func New(cfg *config.Config, orc *orchestrator.Orchestrator, manager *styles.Manager) *Model {
	return &Model{
		cfg:          cfg,
		orc:          orc,
		currentPage:  page.Chat,
		chatPage:     chat.New(orc),
		generatePage: generate.New(orc),
		editPage:     edit.New(orc),
		historyModal: history.NewModal(orc.Conversations()),
		themePicker:  themepicker.New(manager, cfg),
		viewer:       imageview.New(),
	}
}

// Init initializes the TUI.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.chatPage.Init(), m.generatePage.Init(), m.editPage.Init())
}

// Update handles messages.
//
//nolint:gocyclo // Root update dispatches many message types.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.updateComponentSizes()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		if m.overlay == overlayViewer {
			var cmd tea.Cmd
			m.viewer, cmd = m.viewer.Update(msg)
			return m, cmd
		}
		return m, m.routeToPage(msg)

	// Pages keep their state current even while another page is showing,
	// so every bridge message reaches its owner.
	case bridge.ChatEventMsg, bridge.ConversationEventMsg:
		_, cmd := m.chatPage.Update(msg)
		return m, cmd

	case bridge.GenerationEventMsg:
		_, cmd := m.generatePage.Update(msg)
		return m, cmd

	case bridge.EditEventMsg:
		_, cmd := m.editPage.Update(msg)
		// A freshly started session pulls the editing page forward.
		if msg.Event.Payload.Type == events.EditEventSessionStarted {
			m.currentPage = page.Edit
		}
		return m, cmd

	// Edit command failures reach their page even if another page is showing.
	case edit.ApplyFailedMsg, edit.AnalyzeFailedMsg:
		_, cmd := m.editPage.Update(msg)
		return m, cmd

	case imageview.OpenMsg:
		m.viewer.Open(msg.Images, msg.Index)
		m.overlay = overlayViewer
		return m, nil

	case imageview.CloseMsg:
		m.overlay = overlayNone
		return m, nil

	case history.ClosedMsg, themepicker.ClosedMsg:
		m.overlay = overlayNone
		return m, nil

	case history.SelectedMsg:
		m.overlay = overlayNone
		if _, err := m.orc.Conversations().Select(context.Background(), msg.ConversationID); err != nil {
			debug.Error("tui", "selecting conversation", err)
			m.statusMsg = err.Error()
			return m, nil
		}
		m.currentPage = page.Chat
		m.chatPage.Reload()
		return m, nil

	case history.DeletedMsg:
		m.chatPage.Reload()
		return m, nil

	case history.NewConversationMsg:
		m.overlay = overlayNone
		m.orc.Conversations().StartNew()
		m.currentPage = page.Chat
		m.chatPage.Reload()
		return m, nil

	case themepicker.AppliedMsg:
		m.chatPage.InvalidateStyles()
		return m, nil

	case page.ChangeMsg:
		m.currentPage = msg.Page
		return m, nil

	case util.InfoMsg, util.ErrMsg:
		_, cmd := m.chatPage.Update(msg)
		return m, cmd
	}

	return m, m.routeToPage(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.overlay != overlayNone {
		return m, m.routeToOverlay(msg)
	}

	switch msg.String() {
	case "ctrl+g":
		m.togglePage(page.Generate)
		return m, nil
	case "ctrl+e":
		m.togglePage(page.Edit)
		return m, nil
	case "ctrl+h":
		m.historyModal.Open()
		m.overlay = overlayHistory
		return m, nil
	case "ctrl+t":
		m.themePicker.Open()
		m.overlay = overlayTheme
		return m, nil
	case "esc":
		// Esc returns auxiliary pages to chat; the chat page handles its
		// own esc (cancel streaming, leave attach mode).
		if m.currentPage != page.Chat {
			m.currentPage = page.Chat
			return m, nil
		}
	}

	return m, m.routeToPage(msg)
}

func (m *Model) togglePage(id page.ID) {
	if m.currentPage == id {
		m.currentPage = page.Chat
		return
	}
	m.currentPage = id
}

func (m *Model) routeToOverlay(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.overlay {
	case overlayHistory:
		m.historyModal, cmd = m.historyModal.Update(msg)
	case overlayViewer:
		m.viewer, cmd = m.viewer.Update(msg)
	case overlayTheme:
		m.themePicker, cmd = m.themePicker.Update(msg)
	case overlayNone:
	}
	return cmd
}

func (m *Model) routeToPage(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentPage {
	case page.Chat:
		_, cmd = m.chatPage.Update(msg)
	case page.Generate:
		_, cmd = m.generatePage.Update(msg)
	case page.Edit:
		_, cmd = m.editPage.Update(msg)
	}
	return cmd
}

// View renders the TUI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if !m.ready {
		view.Content = "Loading..."
		return view
	}

	var content string
	switch m.overlay {
	case overlayHistory:
		content = m.historyModal.View()
	case overlayViewer:
		content = m.viewer.View()
	case overlayTheme:
		content = m.themePicker.View()
	default:
		switch m.currentPage {
		case page.Chat:
			content = m.chatPage.View()
		case page.Generate:
			content = m.generatePage.View()
		case page.Edit:
			content = m.editPage.View()
		}
	}

	if m.statusMsg != "" && m.overlay == overlayNone {
		t := styles.CurrentTheme()
		content = lipgloss.JoinVertical(lipgloss.Left, content, t.S().Error.Render(m.statusMsg))
		m.statusMsg = ""
	}

	view.Content = content
	view.Cursor = m.cursor()
	return view
}

func (m *Model) cursor() *tea.Cursor {
	switch m.overlay {
	case overlayHistory:
		return m.historyModal.Cursor()
	case overlayViewer, overlayTheme:
		return nil
	}

	switch m.currentPage {
	case page.Chat:
		return m.chatPage.Cursor()
	case page.Generate:
		return m.generatePage.Cursor()
	case page.Edit:
		return m.editPage.Cursor()
	}
	return nil
}

func (m *Model) updateComponentSizes() {
	m.chatPage.SetSize(m.width, m.height)
	m.generatePage.SetSize(m.width, m.height)
	m.editPage.SetSize(m.width, m.height)
	m.historyModal.SetSize(m.width, m.height)
	m.themePicker.SetSize(m.width, m.height)
	m.viewer.SetSize(m.width, m.height)
}

// Run starts the TUI program and blocks until it exits.
func Run(cfg *config.Config, orc *orchestrator.Orchestrator, hub *pubsub.Hub) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("gemsuite requires an interactive terminal: stdin must be a TTY")
	}

	manager := styles.NewManager()
	if ct := cfg.CustomTheme; ct != nil {
		manager.Register(styles.NewCustomTheme(ct.Primary, ct.Background, ct.Foreground, ct.Accent))
	}
	if err := manager.SetTheme(cfg.Theme); err != nil {
		debug.Error("tui", "applying configured theme", err)
	}

	model := New(cfg, orc, manager)
	p := tea.NewProgram(model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tuiBridge := bridge.NewTUIBridge(hub, p)
	tuiBridge.Start(ctx)
	defer tuiBridge.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
