package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jwebster45206/battlemap/internal/frameloop"
	"github.com/jwebster45206/battlemap/internal/logger"
	"github.com/jwebster45206/battlemap/internal/services/queue"
)

const (
	PlaceHolderText = "token goblin1 --pos=B3"
	sidePanelWidth  = 34
	logHeight       = 8
	inputHeight     = 1
)

var (
	mapPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2)

	sidePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingRight(2)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

// BattlemapUI is the BubbleTea model that renders the map and feeds typed
// lines into the line queue. It drives the frame loop with a tick.
type BattlemapUI struct {
	loop     *frameloop.Loop
	queue    queue.LineQueue
	interval time.Duration
	dmMode   bool
	logger   *slog.Logger

	logViewport viewport.Model
	textarea    textarea.Model
	entries     []logEntry
	lastOutput  string
	cam         camera

	ready         bool
	width         int
	height        int
	showQuitModal bool
}

type frameTickMsg struct{}

func NewBattlemapUI(loop *frameloop.Loop, q queue.LineQueue, interval time.Duration, dmMode bool, log *slog.Logger) BattlemapUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(inputHeight)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	vp := viewport.New(50, logHeight)
	vp.MouseWheelEnabled = true

	return BattlemapUI{
		loop:        loop,
		queue:       q,
		interval:    interval,
		dmMode:      dmMode,
		logger:      log,
		logViewport: vp,
		textarea:    ta,
	}
}

func (m BattlemapUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.frameTick())
}

func (m BattlemapUI) frameTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
}

// mapSize returns how many cells fit in the map panel.
func (m BattlemapUI) mapSize() (cols, rows int) {
	mainWidth := m.width - sidePanelWidth - 2
	mapHeight := m.height - logHeight - inputHeight - 3
	return max(mainWidth/cellWidth, 1), max(mapHeight, 1)
}

func (m *BattlemapUI) addEntry(kind entryKind, text string) {
	m.entries = append(m.entries, logEntry{kind: kind, text: text})
	m.logViewport.SetContent(renderLog(m.entries, m.logViewport.Width))
	m.logViewport.GotoBottom()
}

func (m BattlemapUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		mainWidth := m.width - sidePanelWidth - 2
		m.logViewport.Width = mainWidth - 2
		m.logViewport.Height = logHeight
		m.textarea.SetWidth(mainWidth - 4)
		m.logViewport.SetContent(renderLog(m.entries, m.logViewport.Width))
		m.logViewport.GotoBottom()
		m.ready = true

	case frameTickMsg:
		f, err := m.loop.Tick(context.Background())
		if err != nil {
			logger.WithError(m.logger, err).Error("Frame failed")
			m.addEntry(entryError, err.Error())
		}
		for _, out := range f.Messages {
			m.lastOutput = out.Text
			switch {
			case out.Error:
				m.addEntry(entryError, out.Text)
			case strings.HasPrefix(out.Text, "-> "):
				m.addEntry(entryRoll, out.Text)
			default:
				m.addEntry(entryInfo, out.Text)
			}
		}
		if f.Quit {
			m.logger.Info("Quit requested")
			return m, tea.Quit
		}
		if f.Applied > 0 {
			// The map may have shrunk under the camera.
			cols, rows := m.mapSize()
			m.cam = m.cam.clamp(m.loop.State().Battlemap, cols, rows)
		}
		return m, m.frameTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			m.addEntry(entryInput, input)
			if err := m.queue.Push(context.Background(), input); err != nil {
				logger.WithError(m.logger, err).Error("Failed to queue line", "line", input)
				m.addEntry(entryError, err.Error())
			}
			return m, nil

		case tea.KeyCtrlY:
			if m.lastOutput == "" {
				return m, nil
			}
			if err := clipboard.WriteAll(m.lastOutput); err != nil {
				m.addEntry(entryError, "Copy failed: "+err.Error())
			} else {
				m.addEntry(entryInfo, "Copied to clipboard")
			}
			return m, nil

		case tea.KeyShiftUp, tea.KeyShiftDown, tea.KeyShiftLeft, tea.KeyShiftRight:
			m.pan(msg.Type)
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.logViewport, vpCmd = m.logViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

// pan moves the camera one cell and keeps it on the map.
func (m *BattlemapUI) pan(key tea.KeyType) {
	switch key {
	case tea.KeyShiftUp:
		m.cam.row--
	case tea.KeyShiftDown:
		m.cam.row++
	case tea.KeyShiftLeft:
		m.cam.column--
	case tea.KeyShiftRight:
		m.cam.column++
	}
	cols, rows := m.mapSize()
	m.cam = m.cam.clamp(m.loop.State().Battlemap, cols, rows)
}

func (m BattlemapUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case frameTickMsg:
		// Keep the tick alive; lines are applied once the modal closes.
		return m, m.frameTick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m BattlemapUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Leave the battle map?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m BattlemapUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	gs := m.loop.State()
	mainWidth := m.width - sidePanelWidth - 2
	cols, rows := m.mapSize()

	mapPanel := mapPanelStyle.Width(mainWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			renderGrid(gs, m.cam, cols, rows),
			separatorStyle.Render(strings.Repeat("─", max(mainWidth-4, 1))),
			m.logViewport.View(),
			m.textarea.View(),
		),
	)
	sidePanel := sidePanelStyle.Width(sidePanelWidth).Height(m.height - 1).Render(
		renderSidePanel(gs, m.dmMode),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, mapPanel, sidePanel)
}
